package schemas

import (
	"github.com/typesense/typesense-go/v3/typesense/api"
)

// ProductsSchema retorna o schema da collection de produtos.
// max_price é sempre gravado (igual a min_price quando não há faixa) para permitir ordenação.
func ProductsSchema() *SchemaDefinition {
	return &SchemaDefinition{
		Kind:         KindProducts,
		Version:      "v1",
		SortingField: "position",
		Fields: []api.Field{
			{Name: "product_id", Type: "int64", Sort: BoolPtr(true)},
			{Name: "name", Type: "string", Sort: BoolPtr(true), Locale: StringPtr("pt")},
			{Name: "description", Type: "string", Optional: BoolPtr(true), Locale: StringPtr("pt")},
			{Name: "image_url", Type: "string", Index: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "min_price", Type: "float", Sort: BoolPtr(true)},
			{Name: "max_price", Type: "float", Sort: BoolPtr(true)},
			{Name: "has_price_range", Type: "bool", Facet: BoolPtr(true)},
			{Name: "stock_quantity", Type: "int32", Optional: BoolPtr(true)},
			{Name: "category_ids", Type: "int64[]", Facet: BoolPtr(true)},
			{Name: "position", Type: "int32"},
		},
	}
}

// CategoriesSchema retorna o schema da collection de categorias.
// Os três níveis ficam na mesma collection, separados por level.
func CategoriesSchema() *SchemaDefinition {
	return &SchemaDefinition{
		Kind:         KindCategories,
		Version:      "v1",
		SortingField: "position",
		Fields: []api.Field{
			{Name: "category_id", Type: "int64"},
			{Name: "name", Type: "string", Locale: StringPtr("pt")},
			{Name: "level", Type: "string", Facet: BoolPtr(true)},
			{Name: "parent_id", Type: "int64", Facet: BoolPtr(true)},
			{Name: "parent_name", Type: "string", Optional: BoolPtr(true)},
			{Name: "main_id", Type: "int64", Facet: BoolPtr(true), Optional: BoolPtr(true)},
			{Name: "main_name", Type: "string", Optional: BoolPtr(true)},
			{Name: "position", Type: "int32"},
		},
	}
}

// Package catalog define o contrato de leitura de categorias e produtos
// consumido pelo controlador de busca.
package catalog

import (
	"context"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
)

// PageRequest descreve uma página de produtos. Page começa em 1.
type PageRequest struct {
	Page int
	Size int
	Sort models.SortOption
}

// Backend é a API de leitura do catálogo. Um erro significa falha do
// colaborador; ausência de itens é List.Empty, nunca erro.
type Backend interface {
	MainCategories(ctx context.Context) (List[models.MainCategory], error)
	SubCategories(ctx context.Context) (List[models.SubCategory], error)
	SubCategoriesByMain(ctx context.Context, mainCategoryID int64) (List[models.SubCategory], error)
	CategoriesBySub(ctx context.Context, subCategoryID int64) (List[models.Category], error)
	ProductsByCategory(ctx context.Context, categoryID int64, req PageRequest) (List[models.Product], error)
	Products(ctx context.Context, req PageRequest) (List[models.Product], error)
	SearchProducts(ctx context.Context, text string, req PageRequest) (List[models.Product], error)
}

// HealthChecker é implementado por backends que sabem verificar a própria saúde
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Unwrapper é implementado por decorators para expor o backend decorado
type Unwrapper interface {
	Unwrap() Backend
}

// CheckHealth percorre a cadeia de decorators até achar um HealthChecker
func CheckHealth(ctx context.Context, b Backend) error {
	for b != nil {
		if hc, ok := b.(HealthChecker); ok {
			return hc.Health(ctx)
		}
		u, ok := b.(Unwrapper)
		if !ok {
			return nil
		}
		b = u.Unwrap()
	}
	return nil
}

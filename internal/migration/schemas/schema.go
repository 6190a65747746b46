package schemas

import (
	"fmt"
	"sort"
	"sync"

	"github.com/typesense/typesense-go/v3/typesense/api"
)

// Kind identifica a collection do índice do catálogo
type Kind string

const (
	KindProducts   Kind = "products"
	KindCategories Kind = "categories"
)

// SchemaDefinition define o schema de uma collection Typesense
type SchemaDefinition struct {
	Kind         Kind
	Version      string
	Fields       []api.Field
	SortingField string
}

// CollectionSchema monta o schema de criação com o nome configurado da collection
func (s *SchemaDefinition) CollectionSchema(name string) *api.CollectionSchema {
	schema := &api.CollectionSchema{
		Name:   name,
		Fields: append([]api.Field(nil), s.Fields...),
	}
	if s.SortingField != "" {
		schema.DefaultSortingField = StringPtr(s.SortingField)
	}
	return schema
}

// Registry mantém os schemas do catálogo por tipo de collection
type Registry struct {
	mu      sync.RWMutex
	schemas map[Kind]*SchemaDefinition
}

// NewRegistry cria um registro com os schemas embutidos
func NewRegistry() *Registry {
	r := &Registry{
		schemas: make(map[Kind]*SchemaDefinition),
	}

	r.Register(ProductsSchema())
	r.Register(CategoriesSchema())

	return r
}

// Register registra (ou substitui) o schema de um tipo
func (r *Registry) Register(schema *SchemaDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas[schema.Kind] = schema
}

// Get retorna o schema de um tipo de collection
func (r *Registry) Get(kind Kind) (*SchemaDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[kind]
	if !exists {
		return nil, fmt.Errorf("schema '%s' não encontrado", kind)
	}

	return schema, nil
}

// Kinds retorna os tipos registrados em ordem alfabética
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.schemas))
	for kind := range r.schemas {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// StringPtr retorna um ponteiro para string
func StringPtr(s string) *string {
	return &s
}

// BoolPtr retorna um ponteiro para bool
func BoolPtr(b bool) *bool {
	return &b
}

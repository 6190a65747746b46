package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SortOption é a ordenação pedida pela vitrine
type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
	SortNewest    SortOption = "newest"
)

// ParseSortOption converte o valor recebido; desconhecido vira SortDefault
func ParseSortOption(raw string) SortOption {
	switch s := SortOption(strings.ToLower(strings.TrimSpace(raw))); s {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortNewest:
		return s
	default:
		return SortDefault
	}
}

// PriceFilter é o filtro de preço aplicado no cliente.
// Min compara com minPrice, Max com maxPrice (ou minPrice quando não há faixa).
type PriceFilter struct {
	Min decimal.NullDecimal `json:"min"`
	Max decimal.NullDecimal `json:"max"`
}

// IsZero indica ausência de limites
func (f PriceFilter) IsZero() bool {
	return !f.Min.Valid && !f.Max.Valid
}

// Matches verifica se um produto passa pelos limites
func (f PriceFilter) Matches(p Product) bool {
	if f.Min.Valid && p.MinPrice.LessThan(f.Min.Decimal) {
		return false
	}
	if f.Max.Valid && p.UpperPrice().GreaterThan(f.Max.Decimal) {
		return false
	}
	return true
}

// Apply devolve uma nova lista com os produtos que passam pelo filtro,
// preservando a ordem. A lista de entrada não é alterada.
func (f PriceFilter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	if f.IsZero() {
		return append(out, products...)
	}
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Query são os parâmetros de página resolvidos pelo controlador
type Query struct {
	SearchText     string      `json:"search" validate:"max=200"`
	CategoryID     *int64      `json:"category,omitempty" validate:"omitempty,gt=0"`
	MainCategoryID *int64      `json:"mainCategory,omitempty" validate:"omitempty,gt=0"`
	Sort           SortOption  `json:"sort"`
	PriceFilter    PriceFilter `json:"priceFilter"`
	Page           int         `json:"page" validate:"gte=0"`
}

// Text retorna o texto de busca sem espaços nas bordas
func (q Query) Text() string {
	return strings.TrimSpace(q.SearchText)
}

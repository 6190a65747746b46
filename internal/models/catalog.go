package models

import (
	"github.com/shopspring/decimal"
)

// MainCategory é o topo da árvore de categorias da loja
type MainCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SubCategory pertence a exatamente uma MainCategory
type SubCategory struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	MainCategory MainCategory `json:"mainCategory"`
}

// Category é a folha da árvore; produtos só se ligam a este nível
type Category struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	SubCategory SubCategory `json:"subCategory"`
}

// Product representa um produto como devolvido pelo backend da loja
type Product struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	ImageURL      string              `json:"imageUrl"`
	MinPrice      decimal.Decimal     `json:"minPrice"`
	MaxPrice      decimal.NullDecimal `json:"maxPrice"`
	Description   string              `json:"description"`
	StockQuantity int                 `json:"stockQuantity"`
}

// HasPriceRange indica se a vitrine deve exibir uma faixa de preço.
// Ausente ou igual ao mínimo não é faixa.
func (p Product) HasPriceRange() bool {
	return p.MaxPrice.Valid && p.MaxPrice.Decimal.GreaterThan(p.MinPrice)
}

// UpperPrice retorna o preço usado no limite superior do filtro de preço
func (p Product) UpperPrice() decimal.Decimal {
	if p.MaxPrice.Valid {
		return p.MaxPrice.Decimal
	}
	return p.MinPrice
}

// CategoryTree contém os dois níveis carregados na montagem do controlador
type CategoryTree struct {
	MainCategories []MainCategory `json:"mainCategories"`
	SubCategories  []SubCategory  `json:"subCategories"`
}

// MainByID busca uma MainCategory carregada pelo id
func (t CategoryTree) MainByID(id int64) (MainCategory, bool) {
	for _, m := range t.MainCategories {
		if m.ID == id {
			return m, true
		}
	}
	return MainCategory{}, false
}

// SubsOf retorna as SubCategories carregadas de uma MainCategory, na ordem do backend
func (t CategoryTree) SubsOf(mainID int64) []SubCategory {
	var subs []SubCategory
	for _, s := range t.SubCategories {
		if s.MainCategory.ID == mainID {
			subs = append(subs, s)
		}
	}
	return subs
}

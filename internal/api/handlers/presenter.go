package handlers

import (
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/utils"
	"github.com/shopspring/decimal"
)

const summaryLength = 160

// ProductView é o produto como exibido pela vitrine
type ProductView struct {
	ID            int64            `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	ImageURL      string           `json:"imageUrl"`
	MinPrice      decimal.Decimal  `json:"minPrice" swaggertype:"string"`
	MaxPrice      *decimal.Decimal `json:"maxPrice,omitempty" swaggertype:"string"`
	HasPriceRange bool             `json:"hasPriceRange"`
	Description   string           `json:"description"`
	Summary       string           `json:"summary"`
	StockQuantity int              `json:"stockQuantity"`
	InStock       bool             `json:"inStock"`
}

// ResultView é o resultado de busca devolvido pela API
type ResultView struct {
	Products     []ProductView     `json:"products"`
	HeldCount    int               `json:"heldCount"`
	TotalResults int               `json:"totalResults"`
	HasMore      bool              `json:"hasMore"`
	Page         int               `json:"page"`
	Mode         models.ResultMode `json:"mode" swaggertype:"string"`
	State        string            `json:"state"`
	Partial      bool              `json:"partial"`
	Stale        bool              `json:"stale"`
}

// Presenter converte resultados do controlador para a resposta HTTP
type Presenter struct {
	images utils.ImageURLRewriter
}

// NewPresenter cria um presenter com a reescrita de URLs de imagem
func NewPresenter(images utils.ImageURLRewriter) *Presenter {
	return &Presenter{images: images}
}

// Product converte um produto
func (p *Presenter) Product(product models.Product) ProductView {
	description := utils.PlainDescription(product.Description)

	view := ProductView{
		ID:            product.ID,
		Slug:          utils.ProductSlug(product.Name, product.ID),
		Name:          product.Name,
		ImageURL:      p.images.Rewrite(product.ImageURL),
		MinPrice:      product.MinPrice,
		HasPriceRange: product.HasPriceRange(),
		Description:   description,
		Summary:       utils.Summarize(description, summaryLength),
		StockQuantity: product.StockQuantity,
		InStock:       product.StockQuantity > 0,
	}
	if view.HasPriceRange {
		maxPrice := product.MaxPrice.Decimal
		view.MaxPrice = &maxPrice
	}

	return view
}

// Result converte um resultado
func (p *Presenter) Result(r *models.ResultPage) ResultView {
	products := make([]ProductView, 0, len(r.Products))
	for _, product := range r.Products {
		products = append(products, p.Product(product))
	}

	return ResultView{
		Products:     products,
		HeldCount:    r.HeldCount,
		TotalResults: r.TotalResults,
		HasMore:      r.HasMore,
		Page:         r.Page,
		Mode:         r.Mode,
		State:        r.State,
		Partial:      r.Partial,
		Stale:        r.Stale,
	}
}

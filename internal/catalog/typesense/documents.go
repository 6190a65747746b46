package typesense

import (
	"strconv"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/shopspring/decimal"
)

const (
	LevelMain = "main"
	LevelSub  = "sub"
	LevelLeaf = "leaf"
)

// CategoryDocument é uma categoria de qualquer nível na collection de categorias
type CategoryDocument struct {
	ID         string `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	Level      string `json:"level"`
	ParentID   int64  `json:"parent_id"`
	ParentName string `json:"parent_name,omitempty"`
	MainID     int64  `json:"main_id,omitempty"`
	MainName   string `json:"main_name,omitempty"`
	Position   int    `json:"position"`
}

// ProductDocument é um produto indexado com as folhas a que pertence
type ProductDocument struct {
	ID            string  `json:"id"`
	ProductID     int64   `json:"product_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	MinPrice      float64 `json:"min_price"`
	MaxPrice      float64 `json:"max_price"`
	HasPriceRange bool    `json:"has_price_range"`
	StockQuantity int     `json:"stock_quantity"`
	CategoryIDs   []int64 `json:"category_ids"`
	Position      int     `json:"position"`
}

func documentID(level string, id int64) string {
	return level + "-" + strconv.FormatInt(id, 10)
}

// MainDocument converte uma categoria principal
func MainDocument(m models.MainCategory, position int) CategoryDocument {
	return CategoryDocument{
		ID:         documentID(LevelMain, m.ID),
		CategoryID: m.ID,
		Name:       m.Name,
		Level:      LevelMain,
		Position:   position,
	}
}

// SubDocument converte uma subcategoria
func SubDocument(s models.SubCategory, position int) CategoryDocument {
	return CategoryDocument{
		ID:         documentID(LevelSub, s.ID),
		CategoryID: s.ID,
		Name:       s.Name,
		Level:      LevelSub,
		ParentID:   s.MainCategory.ID,
		ParentName: s.MainCategory.Name,
		MainID:     s.MainCategory.ID,
		MainName:   s.MainCategory.Name,
		Position:   position,
	}
}

// LeafDocument converte uma categoria folha
func LeafDocument(c models.Category, position int) CategoryDocument {
	return CategoryDocument{
		ID:         documentID(LevelLeaf, c.ID),
		CategoryID: c.ID,
		Name:       c.Name,
		Level:      LevelLeaf,
		ParentID:   c.SubCategory.ID,
		ParentName: c.SubCategory.Name,
		MainID:     c.SubCategory.MainCategory.ID,
		MainName:   c.SubCategory.MainCategory.Name,
		Position:   position,
	}
}

// NewProductDocument converte um produto e as folhas em que aparece
func NewProductDocument(p models.Product, categoryIDs []int64, position int) ProductDocument {
	minPrice, _ := p.MinPrice.Float64()
	maxPrice, _ := p.UpperPrice().Float64()

	return ProductDocument{
		ID:            strconv.FormatInt(p.ID, 10),
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		HasPriceRange: p.HasPriceRange(),
		StockQuantity: p.StockQuantity,
		CategoryIDs:   categoryIDs,
		Position:      position,
	}
}

func (d CategoryDocument) main() models.MainCategory {
	return models.MainCategory{ID: d.CategoryID, Name: d.Name}
}

func (d CategoryDocument) sub() models.SubCategory {
	return models.SubCategory{
		ID:           d.CategoryID,
		Name:         d.Name,
		MainCategory: models.MainCategory{ID: d.ParentID, Name: d.ParentName},
	}
}

func (d CategoryDocument) leaf() models.Category {
	return models.Category{
		ID:   d.CategoryID,
		Name: d.Name,
		SubCategory: models.SubCategory{
			ID:           d.ParentID,
			Name:         d.ParentName,
			MainCategory: models.MainCategory{ID: d.MainID, Name: d.MainName},
		},
	}
}

func (d ProductDocument) product() models.Product {
	p := models.Product{
		ID:            d.ProductID,
		Name:          d.Name,
		ImageURL:      d.ImageURL,
		MinPrice:      decimal.NewFromFloat(d.MinPrice),
		Description:   d.Description,
		StockQuantity: d.StockQuantity,
	}
	if d.HasPriceRange {
		p.MaxPrice = decimal.NewNullDecimal(decimal.NewFromFloat(d.MaxPrice))
	}
	return p
}

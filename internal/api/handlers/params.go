package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/search"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/services"
	"github.com/shopspring/decimal"
)

// productsParams são os parâmetros de consulta aceitos pelas rotas de produtos
type productsParams struct {
	Search       string `form:"search" binding:"max=200"`
	Category     *int64 `form:"category" binding:"omitempty,gt=0"`
	MainCategory *int64 `form:"mainCategory" binding:"omitempty,gt=0"`
	Sort         string `form:"sort"`
	MinPrice     string `form:"minPrice"`
	MaxPrice     string `form:"maxPrice"`
	Page         int    `form:"page" binding:"omitempty,gte=1"`
}

// parseQuery monta a consulta a partir da query string
func parseQuery(c *gin.Context) (models.Query, error) {
	var params productsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return models.Query{}, err
	}

	minPrice, err := parseDecimal("minPrice", params.MinPrice)
	if err != nil {
		return models.Query{}, err
	}
	maxPrice, err := parseDecimal("maxPrice", params.MaxPrice)
	if err != nil {
		return models.Query{}, err
	}

	return models.Query{
		SearchText:     params.Search,
		CategoryID:     params.Category,
		MainCategoryID: params.MainCategory,
		Sort:           models.ParseSortOption(params.Sort),
		PriceFilter:    models.PriceFilter{Min: minPrice, Max: maxPrice},
		Page:           params.Page,
	}, nil
}

func parseDecimal(name, raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parâmetro %s inválido: %q", name, raw)
	}
	return decimal.NewNullDecimal(d), nil
}

// respondError traduz erros do controlador e das sessões para respostas HTTP
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Sessão não encontrada",
			"details": err.Error(),
		})
	case errors.Is(err, search.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Consulta inválida",
			"details": err.Error(),
		})
	case errors.Is(err, search.ErrControllerClosed):
		c.JSON(http.StatusGone, gin.H{
			"error":   "Sessão encerrada",
			"details": err.Error(),
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Erro interno",
			"details": err.Error(),
		})
	}
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/services"
	"go.uber.org/zap"
)

// CatalogHandler atende consultas sem sessão: árvore de categorias e busca avulsa
type CatalogHandler struct {
	backend   catalog.Backend
	factory   services.ControllerFactory
	presenter *Presenter
	logger    *zap.Logger
}

// NewCatalogHandler cria um novo handler do catálogo
func NewCatalogHandler(backend catalog.Backend, factory services.ControllerFactory, presenter *Presenter, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		backend:   backend,
		factory:   factory,
		presenter: presenter,
		logger:    logger.Named("handlers.catalog"),
	}
}

// LeavesResponse lista as categorias folha de uma subcategoria
type LeavesResponse struct {
	SubCategoryID int64             `json:"subCategoryId"`
	Categories    []models.Category `json:"categories"`
}

// GetCategories godoc
// @Summary Árvore de categorias da vitrine
// @Description Retorna as categorias principais e todas as subcategorias, na ordem do backend.
// @Description Um nível que falhou ao carregar volta vazio.
// @Tags catalog
// @Produce json
// @Success 200 {object} models.CategoryTree
// @Router /api/v1/catalog/categories [get]
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	controller := h.factory(c.Request.Context())
	defer controller.Close()

	c.JSON(http.StatusOK, controller.Tree())
}

// GetLeaves godoc
// @Summary Categorias folha de uma subcategoria
// @Tags catalog
// @Produce json
// @Param id path int true "ID da subcategoria"
// @Success 200 {object} LeavesResponse
// @Failure 400 {object} map[string]string "ID inválido"
// @Failure 502 {object} map[string]string "Backend do catálogo indisponível"
// @Router /api/v1/catalog/sub-categories/{id}/categories [get]
func (h *CatalogHandler) GetLeaves(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Parâmetro id inválido",
			"details": "id deve ser um inteiro positivo",
		})
		return
	}

	list, err := h.backend.CategoriesBySub(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("falha ao buscar categorias folha", zap.Int64("sub_category_id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Erro ao buscar categorias",
			"details": err.Error(),
		})
		return
	}

	categories := list.Items
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, LeavesResponse{SubCategoryID: id, Categories: categories})
}

// GetProducts godoc
// @Summary Busca avulsa de produtos
// @Description Resolve uma consulta sem manter sessão. Prioridade: busca igual ao nome de uma
// @Description categoria principal, mainCategory, category, busca textual e navegação.
// @Description Filtros por categoria devolvem o conjunto completo, sem paginação.
// @Tags catalog
// @Produce json
// @Param search query string false "Texto de busca"
// @Param category query int false "ID de categoria (principal ou folha)"
// @Param mainCategory query int false "ID de categoria principal"
// @Param sort query string false "Ordenação" Enums(default, price-asc, price-desc, name-asc, name-desc, newest)
// @Param minPrice query string false "Preço mínimo"
// @Param maxPrice query string false "Preço máximo"
// @Param page query int false "Página (navegação e busca textual)" minimum(1) default(1)
// @Success 200 {object} ResultView
// @Failure 400 {object} map[string]string "Parâmetros inválidos"
// @Router /api/v1/catalog/products [get]
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	query, err := parseQuery(c)
	if err != nil {
		badRequest(c, "Parâmetros inválidos", err)
		return
	}

	controller := h.factory(c.Request.Context())
	defer controller.Close()

	result, err := controller.Resolve(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.presenter.Result(result))
}

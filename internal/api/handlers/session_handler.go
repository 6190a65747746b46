package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/search"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/services"
)

// SessionHandler expõe o controlador de busca de uma vitrine montada
type SessionHandler struct {
	sessions  *services.SessionService
	presenter *Presenter
}

// NewSessionHandler cria um novo handler de sessões
func NewSessionHandler(sessions *services.SessionService, presenter *Presenter) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		presenter: presenter,
	}
}

// SessionResponse representa uma sessão recém-montada
type SessionResponse struct {
	ID     string              `json:"id"`
	Tree   models.CategoryTree `json:"tree"`
	Result ResultView          `json:"result"`
}

// CreateSession godoc
// @Summary Monta uma vitrine
// @Description Cria um controlador de busca com a árvore de categorias carregada
// @Tags sessions
// @Produce json
// @Success 201 {object} SessionResponse
// @Router /api/v1/catalog/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	session := h.sessions.Create(c.Request.Context())

	c.JSON(http.StatusCreated, SessionResponse{
		ID:     session.ID,
		Tree:   session.Controller.Tree(),
		Result: h.presenter.Result(session.Controller.Snapshot()),
	})
}

// GetSession godoc
// @Summary Estado visível de uma vitrine
// @Tags sessions
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} ResultView
// @Failure 404 {object} map[string]string "Sessão não encontrada"
// @Router /api/v1/catalog/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.presenter.Result(session.Controller.Snapshot()))
}

// Resolve godoc
// @Summary Resolve uma consulta na vitrine
// @Description Reconstrói o resultado da sessão. Um resultado superado por consulta mais
// @Description recente da mesma sessão volta com stale=true e não altera o estado.
// @Tags sessions
// @Produce json
// @Param id path string true "ID da sessão"
// @Param search query string false "Texto de busca"
// @Param category query int false "ID de categoria (principal ou folha)"
// @Param mainCategory query int false "ID de categoria principal"
// @Param sort query string false "Ordenação" Enums(default, price-asc, price-desc, name-asc, name-desc, newest)
// @Param minPrice query string false "Preço mínimo"
// @Param maxPrice query string false "Preço máximo"
// @Param page query int false "Página" minimum(1) default(1)
// @Success 200 {object} ResultView
// @Failure 400 {object} map[string]string "Parâmetros inválidos"
// @Failure 404 {object} map[string]string "Sessão não encontrada"
// @Router /api/v1/catalog/sessions/{id}/products [get]
func (h *SessionHandler) Resolve(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	query, err := parseQuery(c)
	if err != nil {
		badRequest(c, "Parâmetros inválidos", err)
		return
	}

	result, err := session.Controller.Resolve(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.presenter.Result(result))
}

// LoadMore godoc
// @Summary Carrega a próxima página
// @Description Acrescenta a próxima página na navegação e na busca textual. Sem efeito
// @Description com filtro de categoria, sem próxima página ou com carga em andamento.
// @Tags sessions
// @Produce json
// @Param id path string true "ID da sessão"
// @Success 200 {object} ResultView
// @Failure 404 {object} map[string]string "Sessão não encontrada"
// @Router /api/v1/catalog/sessions/{id}/more [post]
func (h *SessionHandler) LoadMore(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := session.Controller.LoadMore(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.presenter.Result(result))
}

// SetPriceFilter godoc
// @Summary Aplica o filtro de preço
// @Description Refiltra os produtos mantidos sem consultar o backend. Limites nulos removem o filtro.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "ID da sessão"
// @Param filter body models.PriceFilter true "Limites de preço"
// @Success 200 {object} ResultView
// @Failure 400 {object} map[string]string "Filtro inválido"
// @Failure 404 {object} map[string]string "Sessão não encontrada"
// @Router /api/v1/catalog/sessions/{id}/price-filter [put]
func (h *SessionHandler) SetPriceFilter(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	var filter models.PriceFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		badRequest(c, "Corpo inválido", err)
		return
	}
	if err := search.ValidatePriceFilter(filter); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.presenter.Result(session.Controller.SetPriceFilter(filter)))
}

// DeleteSession godoc
// @Summary Desmonta uma vitrine
// @Tags sessions
// @Param id path string true "ID da sessão"
// @Success 204
// @Failure 404 {object} map[string]string "Sessão não encontrada"
// @Router /api/v1/catalog/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

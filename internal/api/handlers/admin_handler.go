package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	middlewares "github.com/prefeitura-rio/app-vitrine-busca/internal/middleware"
	"go.uber.org/zap"
)

// CacheInvalidator remove as categorias guardadas no cache compartilhado
type CacheInvalidator interface {
	Invalidate(ctx context.Context) (int64, error)
}

// AdminHandler gerencia operações administrativas
type AdminHandler struct {
	cache  CacheInvalidator
	logger *zap.Logger
}

// NewAdminHandler cria um novo handler administrativo. cache pode ser nil quando o Redis está desabilitado.
func NewAdminHandler(cache CacheInvalidator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		cache:  cache,
		logger: logger.Named("handlers.admin"),
	}
}

// InvalidateCache godoc
// @Summary Invalida o cache de categorias
// @Description Remove as listas de categorias do Redis. Requer role ADMIN.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Token ausente ou inválido"
// @Failure 403 {object} map[string]string "Permissão insuficiente"
// @Failure 409 {object} map[string]string "Cache desabilitado"
// @Failure 500 {object} map[string]string "Erro ao invalidar"
// @Router /api/v1/admin/cache/invalidate [post]
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Cache de categorias desabilitado",
			"details": "REDIS_URL não configurada",
		})
		return
	}

	deleted, err := h.cache.Invalidate(c.Request.Context())
	if err != nil {
		h.logger.Error("falha ao invalidar cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Erro ao invalidar cache",
			"details": err.Error(),
		})
		return
	}

	h.logger.Info("cache de categorias invalidado",
		zap.String("user_id", middlewares.GetUserID(c)),
		zap.Int64("keys", deleted),
	)
	c.JSON(http.StatusOK, gin.H{
		"message": "Cache de categorias invalidado",
		"deleted": deleted,
	})
}

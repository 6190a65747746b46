package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"go.uber.org/zap"
)

// Pinger verifica a conexão com uma dependência opcional
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler gerencia os endpoints de health check
type HealthHandler struct {
	backend catalog.Backend
	redis   Pinger
	logger  *zap.Logger
}

// NewHealthHandler cria um novo handler de health check. redis pode ser nil.
func NewHealthHandler(backend catalog.Backend, redis Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		backend: backend,
		redis:   redis,
		logger:  logger.Named("handlers.health"),
	}
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe endpoint
// @Description Verifica se a aplicação está viva (sem checagem de dependências externas)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe endpoint
// @Description Verifica se a aplicação está pronta para receber tráfego (valida o backend do catálogo)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ready",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if err := catalog.CheckHealth(ctx, h.backend); err != nil {
		response.Checks["catalog"] = "failed"
		response.Status = "not_ready"
		response.Error = "Backend do catálogo indisponível"
	} else {
		response.Checks["catalog"] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

// Health godoc
// @Summary Comprehensive health check endpoint
// @Description Verifica o backend do catálogo e o Redis. O Redis fora do ar degrada, mas não derruba o serviço.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if err := catalog.CheckHealth(ctx, h.backend); err != nil {
		h.logger.Warn("backend do catálogo indisponível", zap.Error(err))
		response.Checks["catalog"] = "failed"
		response.Status = "unhealthy"
		response.Error = "Backend do catálogo indisponível"
	} else {
		response.Checks["catalog"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.Warn("redis indisponível", zap.Error(err))
			response.Checks["redis"] = "failed"
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
		} else {
			response.Checks["redis"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

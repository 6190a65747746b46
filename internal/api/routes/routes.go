package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/api/handlers"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/cache"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	middlewares "github.com/prefeitura-rio/app-vitrine-busca/internal/middleware"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/services"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies reúne o que o roteador precisa já montado
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Backend  catalog.Backend
	Factory  services.ControllerFactory
	Sessions *services.SessionService

	// Cache é nil quando REDIS_URL não está configurada
	Cache *cache.CategoryCache
}

func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middlewares.Recovery(deps.Logger))
	r.Use(corsMiddleware())
	r.Use(middlewares.RequestTiming())
	r.Use(middlewares.Logger(deps.Logger.Named("http")))
	r.Use(middlewares.Metrics(deps.Metrics))

	presenter := handlers.NewPresenter(utils.ImageURLRewriter{
		BaseURL:        deps.Config.ImageBaseURL,
		GatewayURL:     deps.Config.GatewayBaseURL,
		GatewayDomains: deps.Config.GatewayDomains,
	})

	var (
		invalidator handlers.CacheInvalidator
		pinger      handlers.Pinger
	)
	if deps.Cache != nil {
		invalidator = deps.Cache
		pinger = deps.Cache
	}

	healthHandler := handlers.NewHealthHandler(deps.Backend, pinger, deps.Logger)
	catalogHandler := handlers.NewCatalogHandler(deps.Backend, deps.Factory, presenter, deps.Logger)
	sessionHandler := handlers.NewSessionHandler(deps.Sessions, presenter)
	adminHandler := handlers.NewAdminHandler(invalidator, deps.Logger)

	r.GET("/liveness", healthHandler.Liveness)
	r.GET("/readiness", healthHandler.Readiness)
	r.GET("/health", healthHandler.Health)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	api.Use(middlewares.ForwardBearerToken())
	api.Use(middlewares.ExtractUserContext())
	{
		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("/categories", catalogHandler.GetCategories)
			catalogGroup.GET("/sub-categories/:id/categories", catalogHandler.GetLeaves)
			catalogGroup.GET("/products", catalogHandler.GetProducts)

			sessions := catalogGroup.Group("/sessions")
			{
				sessions.POST("", sessionHandler.CreateSession)
				sessions.GET("/:id", sessionHandler.GetSession)
				sessions.DELETE("/:id", sessionHandler.DeleteSession)
				sessions.GET("/:id/products", sessionHandler.Resolve)
				sessions.POST("/:id/more", sessionHandler.LoadMore)
				sessions.PUT("/:id/price-filter", sessionHandler.SetPriceFilter)
			}
		}

		admin := api.Group("/admin")
		admin.Use(middlewares.JWTAuthMiddleware())
		admin.Use(middlewares.RequireRole(middlewares.RoleAdmin))
		{
			admin.POST("/cache/invalidate", adminHandler.InvalidateCache)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, traceparent")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

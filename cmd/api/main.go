package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/prefeitura-rio/app-vitrine-busca/docs"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/api/routes"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/bootstrap"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title           Vitrine de Produtos API
// @version         1.0
// @description     API de navegação, busca e paginação do catálogo de produtos por categoria
// @termsOfService  http://swagger.io/terms/

// @contact.name   Prefeitura do Rio de Janeiro
// @contact.url    https://prefeitura.rio
// @contact.email  contato@prefeitura.rio

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      services.staging.app.dados.rio/app-vitrine-busca

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.LoadConfig()

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("configuração inválida", zap.Error(err))
	}

	shutdownTracer := observability.InitTracer(cfg, logger)
	defer shutdownTracer()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	stack, err := bootstrap.NewStack(cfg, logger, metrics)
	if err != nil {
		logger.Fatal("erro ao montar backend do catálogo", zap.Error(err))
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Warn("erro ao fechar conexões", zap.Error(err))
		}
	}()

	factory := bootstrap.ControllerFactory(cfg, stack.Backend, logger, metrics)
	sessions := services.NewSessionService(factory, cfg.SessionCapacity, cfg.SessionTTL, logger, metrics)
	defer sessions.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions.StartCleanupRoutine(ctx, time.Minute)

	r := routes.SetupRouter(routes.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Gatherer: registry,
		Backend:  stack.Backend,
		Factory:  factory,
		Sessions: sessions,
		Cache:    stack.Cache,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("servidor iniciado",
			zap.String("port", cfg.ServerPort),
			zap.String("catalog_source", cfg.CatalogSource),
			zap.Bool("redis_cache", stack.Cache != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("erro ao iniciar servidor", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("erro no encerramento do servidor", zap.Error(err))
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/cache"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog/rest"
	catalogts "github.com/prefeitura-rio/app-vitrine-busca/internal/catalog/typesense"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/migration/schemas"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"go.uber.org/zap"
)

func main() {
	// Flags
	batchSize := flag.Int("batch", 100, "Produtos por página lidos do backend")
	workers := flag.Int("workers", 3, "Workers paralelos")
	dryRun := flag.Bool("dry-run", false, "Simular sem alterar")
	invalidate := flag.Bool("invalidate-cache", true, "Limpar o cache de categorias no Redis ao final")

	flag.Parse()

	cfg := config.LoadConfig()

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.BackendBaseURL == "" {
		logger.Fatal("BACKEND_BASE_URL é obrigatório para reindexar")
	}
	if cfg.Typesense.APIKey == "" && !*dryRun {
		logger.Fatal("TYPESENSE_API_KEY é obrigatório para reindexar")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := rest.NewClient(cfg.BackendBaseURL, logger,
		rest.WithTimeout(cfg.BackendTimeout),
		rest.WithRetryCount(cfg.BackendRetryCount),
		rest.WithZeroBasedPages(cfg.ZeroBasedPages),
		rest.WithServiceToken(cfg.BackendToken),
	)

	indexer := catalogts.NewIndexer(
		catalogts.NewClient(cfg.Typesense),
		cfg.Typesense.ProductsCollection,
		cfg.Typesense.CategoriesCollection,
		schemas.NewRegistry(),
		logger,
		catalogts.WithBatchSize(*batchSize),
		catalogts.WithWorkers(*workers),
		catalogts.WithDryRun(*dryRun),
	)

	logger.Info("iniciando reindexação",
		zap.String("backend", cfg.BackendBaseURL),
		zap.String("products_collection", cfg.Typesense.ProductsCollection),
		zap.String("categories_collection", cfg.Typesense.CategoriesCollection),
		zap.Int("batch", *batchSize),
		zap.Int("workers", *workers),
		zap.Bool("dry_run", *dryRun),
	)

	stats, err := indexer.Run(ctx, source)
	if err != nil {
		logger.Fatal("erro na reindexação", zap.Error(err))
	}

	if stats.Errors > 0 {
		logger.Warn("reindexação terminou com falhas", zap.Int64("errors", stats.Errors))
	}

	if *invalidate && !*dryRun && cfg.RedisURL != "" {
		invalidateCategoryCache(ctx, cfg, logger)
	}
}

// invalidateCategoryCache descarta as categorias em cache para a API ler a árvore nova
func invalidateCategoryCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	client, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		logger.Warn("REDIS_URL inválida, cache não invalidado", zap.Error(err))
		return
	}
	defer client.Close()

	categoryCache := cache.NewCategoryCache(nil, client, cfg.CategoryCacheTTL, logger)
	deleted, err := categoryCache.Invalidate(ctx)
	if err != nil {
		logger.Warn("erro ao invalidar cache de categorias", zap.Error(err))
		return
	}
	logger.Info("cache de categorias invalidado", zap.Int64("keys", deleted))
}

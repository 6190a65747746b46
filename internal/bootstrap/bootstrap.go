// Package bootstrap monta o backend do catálogo e a fábrica de controladores
// a partir da configuração, compartilhado pela API e pela CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/cache"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog/rest"
	catalogts "github.com/prefeitura-rio/app-vitrine-busca/internal/catalog/typesense"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/search"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/services"
	"go.uber.org/zap"
)

// Stack é o backend do catálogo com seus decorators:
// cache de categorias (opcional) -> instrumentação -> fonte (rest ou typesense)
type Stack struct {
	Backend catalog.Backend

	// Cache é nil quando REDIS_URL não está configurada
	Cache *cache.CategoryCache

	closers []func() error
}

// NewStack monta o backend configurado
func NewStack(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Stack, error) {
	source, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	stack := &Stack{Backend: catalog.NewInstrumented(source, metrics)}

	if cfg.RedisURL == "" {
		return stack, nil
	}

	client, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	stack.closers = append(stack.closers, client.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis indisponível na inicialização, categorias serão lidas do backend", zap.Error(err))
	}

	stack.Cache = cache.NewCategoryCache(stack.Backend, client, cfg.CategoryCacheTTL, logger)
	stack.Backend = stack.Cache

	return stack, nil
}

func newSource(cfg *config.Config, logger *zap.Logger) (catalog.Backend, error) {
	switch cfg.CatalogSource {
	case config.SourceREST:
		return rest.NewClient(cfg.BackendBaseURL, logger,
			rest.WithTimeout(cfg.BackendTimeout),
			rest.WithRetryCount(cfg.BackendRetryCount),
			rest.WithZeroBasedPages(cfg.ZeroBasedPages),
			rest.WithServiceToken(cfg.BackendToken),
		), nil
	case config.SourceTypesense:
		client := catalogts.NewClient(cfg.Typesense)
		return catalogts.NewBackend(client, cfg.Typesense.ProductsCollection, cfg.Typesense.CategoriesCollection, logger), nil
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE inválido: %q", cfg.CatalogSource)
	}
}

// Close libera as conexões abertas pelo stack
func (s *Stack) Close() error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ControllerFactory cria controladores com os parâmetros de busca configurados
func ControllerFactory(cfg *config.Config, backend catalog.Backend, logger *zap.Logger, metrics *observability.Metrics) services.ControllerFactory {
	return func(ctx context.Context) *search.Controller {
		return search.NewController(ctx, backend, logger,
			search.WithPageSize(cfg.Catalog.PageSize),
			search.WithFullSetSize(cfg.Catalog.FullSetSize),
			search.WithMatchCacheTTL(cfg.Catalog.MatchCacheTTL),
			search.WithFanOutLimit(cfg.Catalog.FanOutLimit),
			search.WithMetrics(metrics),
		)
	}
}

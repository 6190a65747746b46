// Package cache guarda as listas de categorias no Redis, compartilhadas
// entre instâncias e sessões.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPrefix = "vitrine:categories:"

// Store é o subconjunto do cliente Redis usado pelo cache
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// CategoryCache decora um catalog.Backend guardando as quatro listagens de
// categoria no Redis. Falhas do Redis caem direto no backend; produtos não são guardados.
type CategoryCache struct {
	next   catalog.Backend
	store  Store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient cria o cliente Redis a partir de uma URL redis://
func NewClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}
	return redis.NewClient(opt), nil
}

// NewCategoryCache cria o decorator
func NewCategoryCache(next catalog.Backend, store Store, ttl time.Duration, logger *zap.Logger) *CategoryCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CategoryCache{
		next:   next,
		store:  store,
		prefix: defaultPrefix,
		ttl:    ttl,
		logger: logger.Named("cache.categories"),
	}
}

func (c *CategoryCache) Unwrap() catalog.Backend { return c.next }

func cached[T any](ctx context.Context, c *CategoryCache, key string, fetch func(context.Context) (catalog.List[T], error)) (catalog.List[T], error) {
	key = c.prefix + key

	data, err := c.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		if jsonErr := json.Unmarshal(data, &items); jsonErr == nil {
			return catalog.Ok(items, catalog.Meta{}), nil
		}
		c.logger.Warn("entrada de cache corrompida", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("falha ao ler cache", zap.String("key", key), zap.Error(err))
	}

	list, err := fetch(ctx)
	if err != nil {
		return list, err
	}

	items := list.Items
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("falha ao serializar categorias", zap.String("key", key), zap.Error(err))
		return list, nil
	}
	if err := c.store.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("falha ao gravar cache", zap.String("key", key), zap.Error(err))
	}

	return list, nil
}

func (c *CategoryCache) MainCategories(ctx context.Context) (catalog.List[models.MainCategory], error) {
	return cached(ctx, c, "main", c.next.MainCategories)
}

func (c *CategoryCache) SubCategories(ctx context.Context) (catalog.List[models.SubCategory], error) {
	return cached(ctx, c, "sub", c.next.SubCategories)
}

func (c *CategoryCache) SubCategoriesByMain(ctx context.Context, mainCategoryID int64) (catalog.List[models.SubCategory], error) {
	key := "sub:main:" + strconv.FormatInt(mainCategoryID, 10)
	return cached(ctx, c, key, func(ctx context.Context) (catalog.List[models.SubCategory], error) {
		return c.next.SubCategoriesByMain(ctx, mainCategoryID)
	})
}

func (c *CategoryCache) CategoriesBySub(ctx context.Context, subCategoryID int64) (catalog.List[models.Category], error) {
	key := "leaf:sub:" + strconv.FormatInt(subCategoryID, 10)
	return cached(ctx, c, key, func(ctx context.Context) (catalog.List[models.Category], error) {
		return c.next.CategoriesBySub(ctx, subCategoryID)
	})
}

func (c *CategoryCache) ProductsByCategory(ctx context.Context, categoryID int64, req catalog.PageRequest) (catalog.List[models.Product], error) {
	return c.next.ProductsByCategory(ctx, categoryID, req)
}

func (c *CategoryCache) Products(ctx context.Context, req catalog.PageRequest) (catalog.List[models.Product], error) {
	return c.next.Products(ctx, req)
}

func (c *CategoryCache) SearchProducts(ctx context.Context, text string, req catalog.PageRequest) (catalog.List[models.Product], error) {
	return c.next.SearchProducts(ctx, text, req)
}

// Invalidate remove todas as listas de categoria do Redis e retorna quantas chaves saíram
func (c *CategoryCache) Invalidate(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := c.store.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("erro ao listar chaves de categoria: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.store.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("erro ao remover chaves de categoria: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info("cache de categorias invalidado", zap.Int64("keys", deleted))
	return deleted, nil
}

// Ping verifica a conexão com o Redis
func (c *CategoryCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

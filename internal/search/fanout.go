package search

import (
	"context"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// branch é a contribuição de uma chamada de um lote; failed indica falha do backend
type branch[T any] struct {
	items  []T
	failed bool
}

// fanOut executa fn para cada item em paralelo e espera o lote inteiro.
// O resultado i corresponde sempre a items[i], independente da ordem de conclusão.
func fanOut[T, R any](ctx context.Context, c *Controller, name string, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	ctx, span := c.tracer.Start(ctx, "search.fanout."+name,
		trace.WithAttributes(attribute.Int("fanout.size", len(items))))
	defer span.End()

	c.metrics.ObserveFanOut(len(items))

	var g errgroup.Group
	if c.fanOutLimit > 0 {
		g.SetLimit(c.fanOutLimit)
	}
	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// flatten concatena os ramos na ordem do lote e informa se algum falhou
func flatten[T any](branches []branch[T]) ([]T, bool) {
	var (
		out    []T
		failed bool
	)
	for _, b := range branches {
		out = append(out, b.items...)
		failed = failed || b.failed
	}
	return out, failed
}

// productSet acumula produtos únicos por id; a primeira ocorrência vence
type productSet struct {
	items []models.Product
	seen  map[int64]struct{}
}

func newProductSet() *productSet {
	return &productSet{seen: make(map[int64]struct{})}
}

// add inclui os produtos ainda não vistos e retorna quantos entraram
func (s *productSet) add(products ...models.Product) int {
	added := 0
	for _, p := range products {
		if _, ok := s.seen[p.ID]; ok {
			continue
		}
		s.seen[p.ID] = struct{}{}
		s.items = append(s.items, p)
		added++
	}
	return added
}

func uniqueProducts(products []models.Product) []models.Product {
	set := newProductSet()
	set.add(products...)
	return set.items
}

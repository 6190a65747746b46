package typesense

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/migration/schemas"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxProductPages limita a paginação de uma folha quando o backend não informa meta
const maxProductPages = 1000

// IndexStats resume uma execução do Indexer
type IndexStats struct {
	Categories int64
	Products   int64
	Errors     int64
	Elapsed    time.Duration
}

// Indexer copia a árvore de categorias e os produtos de um catalog.Backend
// para as collections do Typesense
type Indexer struct {
	client     *typesense.Client
	products   string
	categories string
	registry   *schemas.Registry
	logger     *zap.Logger

	workers int
	batch   int
	dryRun  bool
}

// IndexerOption configura o Indexer
type IndexerOption func(*Indexer)

// WithWorkers define quantas gravações e leituras correm em paralelo
func WithWorkers(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithBatchSize define o tamanho de página usado para ler produtos da fonte
func WithBatchSize(n int) IndexerOption {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batch = n
		}
	}
}

// WithDryRun percorre a fonte sem gravar no índice
func WithDryRun(dryRun bool) IndexerOption {
	return func(ix *Indexer) { ix.dryRun = dryRun }
}

func NewIndexer(client *typesense.Client, productsCollection, categoriesCollection string, registry *schemas.Registry, logger *zap.Logger, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		client:     client,
		products:   productsCollection,
		categories: categoriesCollection,
		registry:   registry,
		logger:     logger.Named("indexer"),
		workers:    3,
		batch:      100,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// EnsureCollections cria as collections ausentes a partir dos schemas registrados
func (ix *Indexer) EnsureCollections(ctx context.Context) error {
	names := map[schemas.Kind]string{
		schemas.KindCategories: ix.categories,
		schemas.KindProducts:   ix.products,
	}

	for _, kind := range ix.registry.Kinds() {
		name, ok := names[kind]
		if !ok {
			continue
		}

		_, err := ix.client.Collection(name).Retrieve(ctx)
		if err == nil {
			continue
		}
		if !isNotFound(err) {
			return fmt.Errorf("erro ao consultar collection %s: %w", name, err)
		}

		def, err := ix.registry.Get(kind)
		if err != nil {
			return err
		}
		if _, err := ix.client.Collections().Create(ctx, def.CollectionSchema(name)); err != nil {
			return fmt.Errorf("erro ao criar collection %s: %w", name, err)
		}
		ix.logger.Info("collection criada", zap.String("collection", name), zap.String("schema_version", def.Version))
	}

	return nil
}

func isNotFound(err error) bool {
	var httpErr *typesense.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}

// Run percorre principais -> subcategorias -> folhas -> produtos e grava tudo no índice.
// Produtos presentes em várias folhas viram um único documento com todas elas.
func (ix *Indexer) Run(ctx context.Context, source catalog.Backend) (IndexStats, error) {
	start := time.Now()
	stats := &IndexStats{}

	if !ix.dryRun {
		if err := ix.EnsureCollections(ctx); err != nil {
			return *stats, err
		}
	}

	// 1. Árvore de categorias
	categoryDocs, leaves, err := ix.walkCategories(ctx, source)
	if err != nil {
		return *stats, err
	}
	ix.logger.Info("árvore de categorias lida",
		zap.Int("categories", len(categoryDocs)),
		zap.Int("leaves", len(leaves)),
	)

	// 2. Produtos de cada folha, com as folhas mescladas por produto
	productDocs, err := ix.collectProducts(ctx, source, leaves)
	if err != nil {
		return *stats, err
	}
	ix.logger.Info("produtos lidos", zap.Int("products", len(productDocs)))

	// 3. Gravação
	ix.upsertAll(ctx, ix.categories, categoryDocs, &stats.Categories, &stats.Errors)
	ix.upsertAll(ctx, ix.products, productDocs, &stats.Products, &stats.Errors)

	stats.Elapsed = time.Since(start)
	ix.logger.Info("reindexação concluída",
		zap.Int64("categories", stats.Categories),
		zap.Int64("products", stats.Products),
		zap.Int64("errors", stats.Errors),
		zap.Duration("elapsed", stats.Elapsed),
		zap.Bool("dry_run", ix.dryRun),
	)

	return *stats, ctx.Err()
}

func (ix *Indexer) walkCategories(ctx context.Context, source catalog.Backend) ([]any, []models.Category, error) {
	mains, err := source.MainCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao listar categorias principais: %w", err)
	}

	subsByMain := make([][]models.SubCategory, mains.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i, m := range mains.Items {
		g.Go(func() error {
			subs, err := source.SubCategoriesByMain(gctx, m.ID)
			if err != nil {
				return fmt.Errorf("erro ao listar subcategorias de %d: %w", m.ID, err)
			}
			subsByMain[i] = subs.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var subs []models.SubCategory
	for _, group := range subsByMain {
		subs = append(subs, group...)
	}

	leavesBySub := make([][]models.Category, len(subs))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i, s := range subs {
		g.Go(func() error {
			leaves, err := source.CategoriesBySub(gctx, s.ID)
			if err != nil {
				return fmt.Errorf("erro ao listar categorias de %d: %w", s.ID, err)
			}
			leavesBySub[i] = leaves.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		docs   []any
		leaves []models.Category
	)
	for i, m := range mains.Items {
		docs = append(docs, MainDocument(m, i))
	}
	for i, s := range subs {
		docs = append(docs, SubDocument(s, i))
	}
	for _, group := range leavesBySub {
		for _, leaf := range group {
			docs = append(docs, LeafDocument(leaf, len(leaves)))
			leaves = append(leaves, leaf)
		}
	}

	return docs, leaves, nil
}

func (ix *Indexer) collectProducts(ctx context.Context, source catalog.Backend, leaves []models.Category) ([]any, error) {
	byLeaf := make([][]models.Product, len(leaves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i, leaf := range leaves {
		g.Go(func() error {
			products, err := ix.productsOf(gctx, source, leaf.ID)
			if err != nil {
				return fmt.Errorf("erro ao listar produtos da categoria %d: %w", leaf.ID, err)
			}
			byLeaf[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type entry struct {
		product     models.Product
		categoryIDs []int64
	}

	var order []int64
	entries := make(map[int64]*entry)
	for i, products := range byLeaf {
		leafID := leaves[i].ID
		for _, p := range products {
			e, seen := entries[p.ID]
			if !seen {
				e = &entry{product: p}
				entries[p.ID] = e
				order = append(order, p.ID)
			}
			e.categoryIDs = append(e.categoryIDs, leafID)
		}
	}

	docs := make([]any, 0, len(order))
	for position, id := range order {
		e := entries[id]
		docs = append(docs, NewProductDocument(e.product, e.categoryIDs, position))
	}
	return docs, nil
}

func (ix *Indexer) productsOf(ctx context.Context, source catalog.Backend, leafID int64) ([]models.Product, error) {
	var products []models.Product

	for page := 1; page <= maxProductPages; page++ {
		list, err := source.ProductsByCategory(ctx, leafID, catalog.PageRequest{Page: page, Size: ix.batch})
		if err != nil {
			return nil, err
		}
		products = append(products, list.Items...)

		if list.Len() < ix.batch {
			break
		}
		if list.Meta.Reported && list.Meta.Pages > 0 && page >= list.Meta.Pages {
			break
		}
	}

	return products, nil
}

// upsertAll grava os documentos com um pool de workers; falhas individuais só contam erro
func (ix *Indexer) upsertAll(ctx context.Context, collection string, docs []any, done, failed *int64) {
	if ix.dryRun {
		ix.logger.Info("[DRY-RUN] documentos não gravados",
			zap.String("collection", collection),
			zap.Int("documents", len(docs)),
		)
		atomic.AddInt64(done, int64(len(docs)))
		return
	}

	var wg sync.WaitGroup
	docChan := make(chan any, ix.workers*2)

	for i := 0; i < ix.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for doc := range docChan {
				_, err := ix.client.Collection(collection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{})
				if err != nil {
					ix.logger.Warn("erro ao gravar documento",
						zap.Int("worker", workerID),
						zap.String("collection", collection),
						zap.Error(err),
					)
					atomic.AddInt64(failed, 1)
					continue
				}
				atomic.AddInt64(done, 1)
			}
		}(i)
	}

	for _, doc := range docs {
		select {
		case docChan <- doc:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(docChan)
	wg.Wait()
}

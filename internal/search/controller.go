// Package search resolve os parâmetros de uma página da vitrine em um
// conjunto de produtos, coordenando as chamadas de categoria e produto do
// backend do catálogo.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultPageSize      = 12
	DefaultFullSetSize   = 1000
	DefaultMatchCacheTTL = 2 * time.Minute
)

// Controller mantém o resultado de busca de uma visualização da vitrine.
// É seguro para uso concorrente.
type Controller struct {
	backend     catalog.Backend
	logger      *zap.Logger
	metrics     *observability.Metrics
	tracer      trace.Tracer
	validate    *validator.Validate
	tree        *categoryTree
	matches     *MatchCache
	observer    StateObserver
	pageSize    int
	fullSetSize int
	fanOutLimit int
	matchTTL    time.Duration

	mu          sync.Mutex
	generation  uint64
	appliedGen  uint64
	query       models.Query
	plan        plan
	held        *productSet
	total       int
	hasMore     bool
	page        int
	partial     bool
	priceFilter models.PriceFilter
	state       State
	loadingMore bool
	loadingGen  uint64
	closed      bool
}

// Option configura o Controller
type Option func(*Controller)

// WithPageSize define o tamanho de página da navegação e da busca textual
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithFullSetSize define o tamanho de página das buscas de conjunto completo
func WithFullSetSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.fullSetSize = n
		}
	}
}

// WithMatchCacheTTL define por quanto tempo as categorias que casam com um termo ficam memoizadas
func WithMatchCacheTTL(d time.Duration) Option {
	return func(c *Controller) { c.matchTTL = d }
}

// WithFanOutLimit limita as chamadas simultâneas de cada lote; 0 não limita
func WithFanOutLimit(n int) Option {
	return func(c *Controller) { c.fanOutLimit = n }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithStateObserver(fn StateObserver) Option {
	return func(c *Controller) { c.observer = fn }
}

// NewController monta um controlador carregando categorias principais e
// subcategorias. Falhas de carga deixam o nível vazio e são apenas registradas.
func NewController(ctx context.Context, backend catalog.Backend, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		logger:      logger.Named("search"),
		tracer:      otel.Tracer("search"),
		validate:    validator.New(),
		pageSize:    DefaultPageSize,
		fullSetSize: DefaultFullSetSize,
		matchTTL:    DefaultMatchCacheTTL,
		held:        newProductSet(),
		page:        1,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.matches = NewMatchCache(c.matchTTL, 500)

	ctx, span := c.tracer.Start(ctx, "search.Mount")
	defer span.End()

	tree, complete := loadCategoryTree(ctx, backend, c.logger)
	c.tree = tree
	span.SetAttributes(
		attribute.Int("search.main_categories", len(tree.loaded.MainCategories)),
		attribute.Int("search.sub_categories", len(tree.loaded.SubCategories)),
		attribute.Bool("search.tree_complete", complete),
	)

	return c
}

// Resolve reconstrói o resultado a partir da consulta. Falhas do backend não
// viram erro: o ramo que falhou contribui com zero produtos e o resultado sai
// com Partial. Um resultado superado por um Resolve mais novo volta com Stale
// e não é aplicado.
func (c *Controller) Resolve(ctx context.Context, q models.Query) (*models.ResultPage, error) {
	q, err := c.normalize(q)
	if err != nil {
		c.metrics.ObserveResolve(string(models.ModeNone), "invalid")
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrControllerClosed
	}
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.mu.Unlock()
	c.notify(StateLoading)

	p := c.planFor(q)
	page := q.Page
	if !p.mode.Paginated() {
		page = 1
	}

	ctx, span := c.tracer.Start(ctx, "search.Resolve", trace.WithAttributes(
		attribute.String("search.mode", string(p.mode)),
		attribute.Int("search.page", page),
		attribute.String("search.sort", string(q.Sort)),
	))
	defer span.End()

	start := time.Now()
	out := c.execute(ctx, p, q.Sort, page)

	c.mu.Lock()
	if gen != c.generation || c.closed {
		result := c.stalePage(out, p.mode, page, q.PriceFilter)
		c.mu.Unlock()

		c.metrics.IncStale()
		c.metrics.ObserveResolve(string(p.mode), "stale")
		span.SetAttributes(attribute.Bool("search.stale", true))
		c.logger.Debug("resultado descartado por consulta mais recente", zap.Uint64("generation", gen))
		return result, nil
	}

	c.appliedGen = gen
	c.query = q
	c.plan = p
	c.page = page
	c.held = newProductSet()
	c.held.add(out.products...)
	c.total = out.total
	c.hasMore = out.hasMore && p.mode.Paginated()
	c.partial = out.partial
	c.priceFilter = q.PriceFilter
	c.state = StateReady
	result := c.snapshotLocked()
	c.mu.Unlock()

	c.finish(p.mode, out.partial)
	span.SetAttributes(
		attribute.Int("search.results", result.HeldCount),
		attribute.Bool("search.partial", out.partial),
	)
	c.logger.Debug("consulta resolvida",
		zap.String("mode", string(p.mode)),
		zap.Int("page", page),
		zap.Int("results", result.HeldCount),
		zap.Bool("has_more", result.HasMore),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// LoadMore busca a próxima página e anexa os produtos ainda não mantidos.
// Fora dos modos paginados, sem próxima página, com um Resolve em andamento
// ou com outro LoadMore em curso, apenas devolve o estado atual.
func (c *Controller) LoadMore(ctx context.Context) (*models.ResultPage, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrControllerClosed
	}
	busy := c.loadingMore && c.loadingGen == c.generation
	if busy || !c.hasMore || !c.plan.mode.Paginated() || c.appliedGen != c.generation {
		result := c.snapshotLocked()
		c.mu.Unlock()
		return result, nil
	}

	gen := c.generation
	c.loadingMore = true
	c.loadingGen = gen
	nextPage := c.page + 1
	p := c.plan
	sort := c.query.Sort
	c.state = StateLoading
	c.mu.Unlock()
	c.notify(StateLoading)

	ctx, span := c.tracer.Start(ctx, "search.LoadMore", trace.WithAttributes(
		attribute.String("search.mode", string(p.mode)),
		attribute.Int("search.page", nextPage),
	))
	defer span.End()

	out := c.execute(ctx, p, sort, nextPage)

	c.mu.Lock()
	if c.loadingGen == gen {
		c.loadingMore = false
	}
	if gen != c.generation || c.closed {
		result := c.stalePage(out, p.mode, nextPage, c.priceFilter)
		c.mu.Unlock()

		c.metrics.IncStale()
		c.metrics.ObserveResolve(string(p.mode), "stale")
		return result, nil
	}

	added := c.held.add(out.products...)
	c.page = nextPage
	c.hasMore = out.hasMore
	switch p.mode {
	case models.ModeBrowse:
		if !out.partial {
			c.total = out.total
		}
	default:
		c.total = len(c.held.items)
	}
	c.partial = c.partial || out.partial
	c.state = StateReady
	result := c.snapshotLocked()
	c.mu.Unlock()

	c.finish(p.mode, out.partial)
	span.SetAttributes(attribute.Int("search.added", added))

	return result, nil
}

// SetPriceFilter troca o filtro de preço e reaplica sobre os produtos mantidos, sem ir ao backend
func (c *Controller) SetPriceFilter(f models.PriceFilter) *models.ResultPage {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.priceFilter = f
	return c.snapshotLocked()
}

// Snapshot retorna o estado visível atual
func (c *Controller) Snapshot() *models.ResultPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State retorna o estado atual do controlador
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tree retorna as categorias principais e subcategorias carregadas na montagem
func (c *Controller) Tree() models.CategoryTree {
	return c.tree.snapshot()
}

// Leaves retorna as categorias folha de uma subcategoria, memoizadas
func (c *Controller) Leaves(ctx context.Context, subCategoryID int64) ([]models.Category, error) {
	leaves, err := c.tree.leavesOf(ctx, subCategoryID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar categorias da subcategoria %d: %w", subCategoryID, err)
	}
	return leaves, nil
}

// Close descarta o resultado mantido. Resoluções em andamento terminam como Stale.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	c.held = newProductSet()
	c.total = 0
	c.hasMore = false
}

func (c *Controller) normalize(q models.Query) (models.Query, error) {
	if err := c.validate.Struct(q); err != nil {
		return q, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if err := ValidatePriceFilter(q.PriceFilter); err != nil {
		return q, err
	}

	q.Sort = models.ParseSortOption(string(q.Sort))
	if q.Page < 1 {
		q.Page = 1
	}
	return q, nil
}

// ValidatePriceFilter rejeita limites negativos e mínimo maior que o máximo
func ValidatePriceFilter(f models.PriceFilter) error {
	if f.Min.Valid && f.Min.Decimal.IsNegative() {
		return fmt.Errorf("%w: preço mínimo negativo", ErrInvalidQuery)
	}
	if f.Max.Valid && f.Max.Decimal.IsNegative() {
		return fmt.Errorf("%w: preço máximo negativo", ErrInvalidQuery)
	}
	if f.Min.Valid && f.Max.Valid && f.Min.Decimal.GreaterThan(f.Max.Decimal) {
		return fmt.Errorf("%w: preço mínimo maior que o máximo", ErrInvalidQuery)
	}
	return nil
}

func (c *Controller) snapshotLocked() *models.ResultPage {
	return &models.ResultPage{
		Products:     c.priceFilter.Apply(c.held.items),
		HeldCount:    len(c.held.items),
		TotalResults: c.total,
		HasMore:      c.hasMore,
		Page:         c.page,
		Mode:         c.plan.mode,
		State:        string(c.state),
		Partial:      c.partial,
	}
}

func (c *Controller) stalePage(out outcome, mode models.ResultMode, page int, filter models.PriceFilter) *models.ResultPage {
	return &models.ResultPage{
		Products:     filter.Apply(out.products),
		HeldCount:    len(out.products),
		TotalResults: out.total,
		HasMore:      out.hasMore && mode.Paginated(),
		Page:         page,
		Mode:         mode,
		State:        string(c.state),
		Partial:      out.partial,
		Stale:        true,
	}
}

// finish registra o desfecho e notifica as transições finais
func (c *Controller) finish(mode models.ResultMode, partial bool) {
	if partial {
		c.metrics.ObserveResolve(string(mode), "partial")
		c.notify(StateErrorSoft, StateReady)
		return
	}
	c.metrics.ObserveResolve(string(mode), "ok")
	c.notify(StateReady)
}

func (c *Controller) notify(states ...State) {
	if c.observer == nil {
		return
	}
	for _, s := range states {
		c.observer(s)
	}
}

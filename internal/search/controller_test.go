package search

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestController(t *testing.T, f *fakeBackend, opts ...Option) *Controller {
	t.Helper()
	return NewController(context.Background(), f, zap.NewNop(), opts...)
}

func TestResolveMainCategoryFlattensAndDeduplicates(t *testing.T) {
	f := furnitureStore()
	ctrl := newTestController(t, f)

	page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, page.IDs())
	assert.Equal(t, 3, page.TotalResults)
	assert.False(t, page.HasMore)
	assert.Equal(t, models.ModeMainCategory, page.Mode)
	assert.False(t, page.Partial)
	assert.Equal(t, string(StateReady), page.State)

	req := f.lastRequest()
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultFullSetSize, req.Size)
}

func TestResolveOrderIgnoresCompletionOrder(t *testing.T) {
	for _, slow := range []string{"products:100", "products:101"} {
		t.Run(slow, func(t *testing.T) {
			f := furnitureStore()
			f.delay(slow, 40*time.Millisecond)
			ctrl := newTestController(t, f)

			page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2, 3}, page.IDs())
		})
	}
}

func TestResolveWithFanOutLimit(t *testing.T) {
	ctrl := newTestController(t, furnitureStore(), WithFanOutLimit(1))

	page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, page.IDs())
}

func TestResolveCategoryDisambiguation(t *testing.T) {
	tests := []struct {
		name       string
		categoryID int64
		wantMode   models.ResultMode
		wantIDs    []int64
		wantCall   string
	}{
		{name: "id de categoria principal", categoryID: 1, wantMode: models.ModeMainCategory, wantIDs: []int64{1, 2, 3}, wantCall: "subsByMain:1"},
		{name: "id de folha", categoryID: 101, wantMode: models.ModeLeafCategory, wantIDs: []int64{2, 3}, wantCall: "products:101"},
		{name: "id desconhecido vai para folha", categoryID: 999, wantMode: models.ModeLeafCategory, wantIDs: []int64{}, wantCall: "products:999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := furnitureStore()
			ctrl := newTestController(t, f)

			page, err := ctrl.Resolve(context.Background(), models.Query{CategoryID: ptr(tt.categoryID)})
			require.NoError(t, err)

			assert.Equal(t, tt.wantMode, page.Mode)
			assert.Equal(t, tt.wantIDs, page.IDs())
			assert.False(t, page.HasMore)
			assert.Equal(t, 1, f.callCount(tt.wantCall))
		})
	}
}

func TestResolveSearchAsNavigation(t *testing.T) {
	f := furnitureStore()
	ctrl := newTestController(t, f)

	byID, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)

	for _, text := range []string{"Furniture", "  FURNITURE ", "furniture"} {
		byText, err := ctrl.Resolve(context.Background(), models.Query{SearchText: text})
		require.NoError(t, err)
		assert.Equal(t, byID.IDs(), byText.IDs(), text)
		assert.Equal(t, models.ModeMainCategory, byText.Mode)
	}

	assert.Zero(t, f.callCount("search:furniture:1"))
	assert.Zero(t, f.callCount("search:Furniture:1"))
}

func TestResolveMainCategoryWinsOverCategory(t *testing.T) {
	ctrl := newTestController(t, furnitureStore())

	page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(2), CategoryID: ptr(100)})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, page.IDs())
}

func TestLoadMoreIsNoOpUnderCategoryPin(t *testing.T) {
	f := furnitureStore()
	ctrl := newTestController(t, f)

	first, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1), Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)

	more, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.IDs(), more.IDs())
	assert.False(t, more.HasMore)
	assert.Equal(t, 1, f.callCount("products:100"))
	assert.Equal(t, 1, f.callCount("products:101"))
}

func TestTextSearchMergesNameAndCategoryMatches(t *testing.T) {
	f := furnitureStore()
	f.searchResults["sofa"] = []models.Product{product(5, "80"), product(1, "100"), product(2, "200"), product(6, "90")}
	ctrl := newTestController(t, f, WithPageSize(2))

	page, err := ctrl.Resolve(context.Background(), models.Query{SearchText: "sofa"})
	require.NoError(t, err)

	// (a) página 1 = [5,1]; (b) Sofas -> [1,2]
	assert.Equal(t, []int64{5, 1, 2}, page.IDs())
	assert.Equal(t, 3, page.TotalResults)
	assert.True(t, page.HasMore)
	assert.Equal(t, models.ModeTextSearch, page.Mode)

	more, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)

	// (a) página 2 = [2,6]; 2 já estava
	assert.Equal(t, []int64{5, 1, 2, 6}, more.IDs())
	assert.Equal(t, 4, more.TotalResults)
	assert.Equal(t, 2, more.Page)
	assert.Equal(t, 1, f.callCount("products:100"), "busca por categoria só na primeira página")
}

func TestTextSearchHasMoreFollowsNameSearch(t *testing.T) {
	tests := []struct {
		name     string
		failing  string
		wantIDs  []int64
		wantMore bool
	}{
		{name: "falha na busca por categoria", failing: "products:100", wantIDs: []int64{5, 1}, wantMore: true},
		{name: "falha na busca por nome", failing: "search:sofa:1", wantIDs: []int64{1, 2}, wantMore: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := furnitureStore()
			f.searchResults["sofa"] = []models.Product{product(5, "80"), product(1, "100"), product(6, "90")}
			f.fail(tt.failing)
			ctrl := newTestController(t, f, WithPageSize(2))

			page, err := ctrl.Resolve(context.Background(), models.Query{SearchText: "sofa"})
			require.NoError(t, err)

			assert.Equal(t, tt.wantIDs, page.IDs())
			assert.True(t, page.Partial)
			assert.Equal(t, tt.wantMore, page.HasMore)
		})
	}
}

func TestTextSearchMatchesMainAndSubCategoryNames(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int64
	}{
		{name: "parte do nome da principal", text: "furn", want: []int64{1, 2, 3}},
		{name: "nome da subcategoria", text: "living", want: []int64{1, 2, 3}},
		{name: "nome da folha", text: "shovel", want: []int64{7}},
		{name: "nada casa", text: "piano", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(t, furnitureStore())

			page, err := ctrl.Resolve(context.Background(), models.Query{SearchText: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.IDs())
			assert.False(t, page.HasMore)
		})
	}
}

func TestTextSearchLaterPageSkipsCategoryPass(t *testing.T) {
	f := furnitureStore()
	f.searchResults["sofa"] = products(1, 2, 3, 4)
	ctrl := newTestController(t, f, WithPageSize(2))

	page, err := ctrl.Resolve(context.Background(), models.Query{SearchText: "sofa", Page: 2})
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 4}, page.IDs())
	assert.Equal(t, 2, page.Page)
	assert.Zero(t, f.callCount("leaves:10"))
	assert.Zero(t, f.callCount("products:100"))
}

func TestCategoryMatchesAreMemoized(t *testing.T) {
	f := furnitureStore()
	ctrl := newTestController(t, f)

	for i := 0; i < 3; i++ {
		_, err := ctrl.Resolve(context.Background(), models.Query{SearchText: "Sofá"})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, f.callCount("leaves:10"))
	assert.Equal(t, 1, f.callCount("leaves:20"))
	assert.Equal(t, 1, ctrl.matches.Len())
	_, ok := ctrl.matches.Get("sofa")
	assert.True(t, ok)
}

func TestBrowseAndLoadMore(t *testing.T) {
	f := furnitureStore()
	var pool []int64
	for i := int64(1); i <= 12; i++ {
		pool = append(pool, i)
	}
	pool = append(pool, 5)
	for i := int64(13); i <= 23; i++ {
		pool = append(pool, i)
	}
	f.all = products(pool...)
	ctrl := newTestController(t, f)

	page, err := ctrl.Resolve(context.Background(), models.Query{Sort: "price-desc"})
	require.NoError(t, err)

	assert.Equal(t, models.ModeBrowse, page.Mode)
	assert.Len(t, page.Products, 12)
	assert.Equal(t, 24, page.TotalResults)
	assert.True(t, page.HasMore)
	assert.Equal(t, models.SortPriceDesc, f.lastRequest().Sort)

	more, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23, more.HeldCount, "id 5 repetido não entra de novo")
	assert.False(t, more.HasMore)
	assert.Equal(t, 2, more.Page)
	assert.Equal(t, models.SortPriceDesc, f.lastRequest().Sort)

	again, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, more.IDs(), again.IDs())
	assert.Zero(t, f.callCount("browse:3"))
}

func TestUnknownSortFallsBackToDefault(t *testing.T) {
	f := furnitureStore()
	f.all = products(1, 2)
	ctrl := newTestController(t, f)

	_, err := ctrl.Resolve(context.Background(), models.Query{Sort: "mais-vendidos"})
	require.NoError(t, err)
	assert.Equal(t, models.SortDefault, f.lastRequest().Sort)
}

func TestLoadMoreSuppressesConcurrentLoad(t *testing.T) {
	f := furnitureStore()
	var pool []int64
	for i := int64(1); i <= 30; i++ {
		pool = append(pool, i)
	}
	f.all = products(pool...)
	ctrl := newTestController(t, f)

	_, err := ctrl.Resolve(context.Background(), models.Query{})
	require.NoError(t, err)

	g := f.block("browse:2")
	done := make(chan *models.ResultPage)
	go func() {
		page, _ := ctrl.LoadMore(context.Background())
		done <- page
	}()
	<-g.started

	second, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, second.HeldCount)
	assert.Equal(t, string(StateLoading), second.State)

	close(g.release)
	first := <-done

	assert.Equal(t, 24, first.HeldCount)
	assert.Equal(t, 1, f.callCount("browse:2"))
}

func TestPriceFilterIdempotentAndRestorable(t *testing.T) {
	ctrl := newTestController(t, furnitureStore())

	page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)
	original := page.IDs()

	filter := models.PriceFilter{Min: decimal.NewNullDecimal(decimal.NewFromInt(150))}
	once := ctrl.SetPriceFilter(filter)
	twice := ctrl.SetPriceFilter(filter)

	assert.Equal(t, []int64{2, 3}, once.IDs())
	assert.Equal(t, once.IDs(), twice.IDs())
	assert.Equal(t, 3, once.HeldCount)

	upper := ctrl.SetPriceFilter(models.PriceFilter{Max: decimal.NewNullDecimal(decimal.NewFromInt(260))})
	assert.Equal(t, []int64{1, 2}, upper.IDs())

	restored := ctrl.SetPriceFilter(models.PriceFilter{})
	assert.Equal(t, original, restored.IDs())
}

func TestResolveAppliesQueryPriceFilter(t *testing.T) {
	ctrl := newTestController(t, furnitureStore())

	page, err := ctrl.Resolve(context.Background(), models.Query{
		MainCategoryID: ptr(1),
		PriceFilter:    models.PriceFilter{Max: decimal.NewNullDecimal(decimal.NewFromInt(120))},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, page.IDs())
	assert.Equal(t, 3, page.TotalResults)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	f := furnitureStore()
	f.searchResults["sofa"] = products(1)
	g := f.block("search:sofa:1")
	ctrl := newTestController(t, f)

	done := make(chan *models.ResultPage)
	go func() {
		page, _ := ctrl.Resolve(context.Background(), models.Query{SearchText: "sofa"})
		done <- page
	}()
	<-g.started

	current, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(2)})
	require.NoError(t, err)
	assert.False(t, current.Stale)

	close(g.release)
	stale := <-done

	require.NotNil(t, stale)
	assert.True(t, stale.Stale)
	assert.Equal(t, []int64{1, 2}, stale.IDs())

	snapshot := ctrl.Snapshot()
	assert.Equal(t, []int64{7}, snapshot.IDs())
	assert.Equal(t, models.ModeMainCategory, snapshot.Mode)
}

func TestLoadMoreResultDiscardedAfterNewResolve(t *testing.T) {
	f := furnitureStore()
	var pool []int64
	for i := int64(1); i <= 30; i++ {
		pool = append(pool, i)
	}
	f.all = products(pool...)
	ctrl := newTestController(t, f)

	_, err := ctrl.Resolve(context.Background(), models.Query{})
	require.NoError(t, err)

	g := f.block("browse:2")
	done := make(chan *models.ResultPage)
	go func() {
		page, _ := ctrl.LoadMore(context.Background())
		done <- page
	}()
	<-g.started

	_, err = ctrl.Resolve(context.Background(), models.Query{CategoryID: ptr(200)})
	require.NoError(t, err)

	close(g.release)
	stale := <-done
	assert.True(t, stale.Stale)
	assert.Equal(t, []int64{7}, ctrl.Snapshot().IDs())
}

func TestPartialFailureDegradesToReady(t *testing.T) {
	f := furnitureStore()
	f.fail("products:101")

	var (
		mu     sync.Mutex
		states []State
	)
	ctrl := newTestController(t, f, WithStateObserver(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, s)
	}))

	page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, page.IDs())
	assert.True(t, page.Partial)
	assert.False(t, page.HasMore)
	assert.Equal(t, StateReady, ctrl.State())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateLoading, StateErrorSoft, StateReady}, states)
}

func TestFailuresNeverSurfaceAsErrors(t *testing.T) {
	tests := []struct {
		name    string
		failing string
		query   models.Query
		wantIDs []int64
	}{
		{name: "listagem", failing: "browse:1", query: models.Query{}, wantIDs: []int64{}},
		{name: "subcategorias da principal", failing: "subsByMain:1", query: models.Query{MainCategoryID: ptr(1)}, wantIDs: []int64{}},
		{name: "folhas", failing: "leaves:10", query: models.Query{MainCategoryID: ptr(1)}, wantIDs: []int64{}},
		{name: "busca por nome", failing: "search:sofa:1", query: models.Query{SearchText: "sofa"}, wantIDs: []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := furnitureStore()
			f.all = products(1, 2, 3)
			f.fail(tt.failing)
			ctrl := newTestController(t, f)

			page, err := ctrl.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, page.IDs())
			assert.True(t, page.Partial)
			assert.False(t, page.HasMore)
			assert.Equal(t, string(StateReady), page.State)
		})
	}
}

func TestFailedLeafFetchIsRetriedLater(t *testing.T) {
	f := furnitureStore()
	f.fail("leaves:10")
	ctrl := newTestController(t, f)

	_, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)

	f.mu.Lock()
	delete(f.failing, "leaves:10")
	f.mu.Unlock()

	page, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, page.IDs())
	assert.Equal(t, 2, f.callCount("leaves:10"))
}

func TestTreeLoadFailureLeavesLevelEmpty(t *testing.T) {
	f := furnitureStore()
	f.fail("mains")
	ctrl := newTestController(t, f)

	tree := ctrl.Tree()
	assert.Empty(t, tree.MainCategories)
	assert.Len(t, tree.SubCategories, 2)

	page, err := ctrl.Resolve(context.Background(), models.Query{CategoryID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.ModeLeafCategory, page.Mode)
}

func TestLeavesSharesInFlightRequest(t *testing.T) {
	f := furnitureStore()
	g := f.block("leaves:10")
	ctrl := newTestController(t, f)

	var wg sync.WaitGroup
	results := make([][]models.Category, 2)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			leaves, err := ctrl.Leaves(context.Background(), 10)
			assert.NoError(t, err)
			results[i] = leaves
		}()
	}

	<-g.started
	time.Sleep(20 * time.Millisecond)
	close(g.release)
	wg.Wait()

	assert.Equal(t, 1, f.callCount("leaves:10"))
	assert.Len(t, results[0], 2)
	assert.Equal(t, results[0], results[1])
}

func TestResolveRejectsInvalidQueries(t *testing.T) {
	tests := []struct {
		name  string
		query models.Query
	}{
		{name: "página negativa", query: models.Query{Page: -1}},
		{name: "categoria zero", query: models.Query{CategoryID: ptr(0)}},
		{name: "principal negativa", query: models.Query{MainCategoryID: ptr(-3)}},
		{name: "texto longo", query: models.Query{SearchText: strings.Repeat("a", 201)}},
		{name: "faixa invertida", query: models.Query{PriceFilter: models.PriceFilter{
			Min: decimal.NewNullDecimal(decimal.NewFromInt(10)),
			Max: decimal.NewNullDecimal(decimal.NewFromInt(5)),
		}}},
		{name: "preço negativo", query: models.Query{PriceFilter: models.PriceFilter{
			Min: decimal.NewNullDecimal(decimal.NewFromInt(-1)),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(t, furnitureStore())
			_, err := ctrl.Resolve(context.Background(), tt.query)
			assert.ErrorIs(t, err, ErrInvalidQuery)
			assert.Equal(t, StateIdle, ctrl.State())
		})
	}
}

func TestClosedController(t *testing.T) {
	f := furnitureStore()
	ctrl := newTestController(t, f)

	_, err := ctrl.Resolve(context.Background(), models.Query{MainCategoryID: ptr(1)})
	require.NoError(t, err)

	ctrl.Close()
	ctrl.Close()

	assert.Empty(t, ctrl.Snapshot().Products)

	_, err = ctrl.Resolve(context.Background(), models.Query{})
	assert.ErrorIs(t, err, ErrControllerClosed)

	_, err = ctrl.LoadMore(context.Background())
	assert.ErrorIs(t, err, ErrControllerClosed)
}

func TestIdleSnapshot(t *testing.T) {
	ctrl := newTestController(t, furnitureStore())

	snap := ctrl.Snapshot()
	assert.Equal(t, string(StateIdle), snap.State)
	assert.Empty(t, snap.Products)
	assert.Equal(t, models.ModeNone, snap.Mode)

	more, err := ctrl.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, snap, more)
}

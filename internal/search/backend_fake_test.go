package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/shopspring/decimal"
)

var errBackendDown = errors.New("backend fora do ar")

type gate struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

// fakeBackend serve um catálogo em memória com falhas, atrasos e bloqueios por chamada.
// Chaves: mains, subs, subsByMain:<id>, leaves:<id>, products:<id>, browse:<page>, search:<texto>:<page>
type fakeBackend struct {
	mu             sync.Mutex
	mains          []models.MainCategory
	subs           []models.SubCategory
	subsByMain     map[int64][]models.SubCategory
	leaves         map[int64][]models.Category
	productsByLeaf map[int64][]models.Product
	all            []models.Product
	searchResults  map[string][]models.Product
	failing        map[string]bool
	delays         map[string]time.Duration
	gates          map[string]*gate
	calls          map[string]int
	requests       []catalog.PageRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		subsByMain:     map[int64][]models.SubCategory{},
		leaves:         map[int64][]models.Category{},
		productsByLeaf: map[int64][]models.Product{},
		searchResults:  map[string][]models.Product{},
		failing:        map[string]bool{},
		delays:         map[string]time.Duration{},
		gates:          map[string]*gate{},
		calls:          map[string]int{},
	}
}

func product(id int64, minPrice string, maxPrice ...string) models.Product {
	p := models.Product{
		ID:       id,
		Name:     fmt.Sprintf("Produto %d", id),
		MinPrice: decimal.RequireFromString(minPrice),
	}
	if len(maxPrice) > 0 {
		p.MaxPrice = decimal.NewNullDecimal(decimal.RequireFromString(maxPrice[0]))
	}
	return p
}

func products(ids ...int64) []models.Product {
	out := make([]models.Product, len(ids))
	for i, id := range ids {
		out[i] = product(id, "10")
	}
	return out
}

func ptr(v int64) *int64 { return &v }

// furnitureStore monta: Furniture(1) -> Living Room(10) -> Sofas(100) [1,2], Tables(101) [2,3]
// e Garden(2) -> Tools(20) -> Shovels(200) [7]
func furnitureStore() *fakeBackend {
	f := newFakeBackend()

	furniture := models.MainCategory{ID: 1, Name: "Furniture"}
	garden := models.MainCategory{ID: 2, Name: "Garden"}
	living := models.SubCategory{ID: 10, Name: "Living Room", MainCategory: furniture}
	tools := models.SubCategory{ID: 20, Name: "Tools", MainCategory: garden}

	f.mains = []models.MainCategory{furniture, garden}
	f.subs = []models.SubCategory{living, tools}
	f.subsByMain[1] = []models.SubCategory{living}
	f.subsByMain[2] = []models.SubCategory{tools}
	f.leaves[10] = []models.Category{
		{ID: 100, Name: "Sofas", SubCategory: living},
		{ID: 101, Name: "Tables", SubCategory: living},
	}
	f.leaves[20] = []models.Category{{ID: 200, Name: "Shovels", SubCategory: tools}}
	f.productsByLeaf[100] = []models.Product{product(1, "100"), product(2, "200", "250")}
	f.productsByLeaf[101] = []models.Product{product(2, "200", "250"), product(3, "300")}
	f.productsByLeaf[200] = []models.Product{product(7, "50")}

	return f
}

func (f *fakeBackend) fail(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[key] = true
}

func (f *fakeBackend) delay(key string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[key] = d
}

func (f *fakeBackend) block(key string) *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{started: make(chan struct{}), release: make(chan struct{})}
	f.gates[key] = g
	return g
}

func (f *fakeBackend) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) lastRequest() catalog.PageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeBackend) enter(key string, req *catalog.PageRequest) error {
	f.mu.Lock()
	f.calls[key]++
	if req != nil {
		f.requests = append(f.requests, *req)
	}
	failing := f.failing[key]
	delay := f.delays[key]
	g := f.gates[key]
	f.mu.Unlock()

	if g != nil {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if failing {
		return errBackendDown
	}
	return nil
}

func pageOf(items []models.Product, req catalog.PageRequest) catalog.List[models.Product] {
	total := len(items)
	pages := (total + req.Size - 1) / req.Size
	start := (req.Page - 1) * req.Size
	if start > total {
		start = total
	}
	end := start + req.Size
	if end > total {
		end = total
	}
	return catalog.Ok(append([]models.Product(nil), items[start:end]...), catalog.Meta{Pages: pages, Total: total, Reported: true})
}

func (f *fakeBackend) MainCategories(ctx context.Context) (catalog.List[models.MainCategory], error) {
	if err := f.enter("mains", nil); err != nil {
		return catalog.List[models.MainCategory]{}, err
	}
	return catalog.Ok(f.mains, catalog.Meta{}), nil
}

func (f *fakeBackend) SubCategories(ctx context.Context) (catalog.List[models.SubCategory], error) {
	if err := f.enter("subs", nil); err != nil {
		return catalog.List[models.SubCategory]{}, err
	}
	return catalog.Ok(f.subs, catalog.Meta{}), nil
}

func (f *fakeBackend) SubCategoriesByMain(ctx context.Context, id int64) (catalog.List[models.SubCategory], error) {
	if err := f.enter(fmt.Sprintf("subsByMain:%d", id), nil); err != nil {
		return catalog.List[models.SubCategory]{}, err
	}
	return catalog.Ok(f.subsByMain[id], catalog.Meta{}), nil
}

func (f *fakeBackend) CategoriesBySub(ctx context.Context, id int64) (catalog.List[models.Category], error) {
	if err := f.enter(fmt.Sprintf("leaves:%d", id), nil); err != nil {
		return catalog.List[models.Category]{}, err
	}
	return catalog.Ok(f.leaves[id], catalog.Meta{}), nil
}

func (f *fakeBackend) ProductsByCategory(ctx context.Context, id int64, req catalog.PageRequest) (catalog.List[models.Product], error) {
	if err := f.enter(fmt.Sprintf("products:%d", id), &req); err != nil {
		return catalog.List[models.Product]{}, err
	}
	return pageOf(f.productsByLeaf[id], req), nil
}

func (f *fakeBackend) Products(ctx context.Context, req catalog.PageRequest) (catalog.List[models.Product], error) {
	if err := f.enter(fmt.Sprintf("browse:%d", req.Page), &req); err != nil {
		return catalog.List[models.Product]{}, err
	}
	return pageOf(f.all, req), nil
}

func (f *fakeBackend) SearchProducts(ctx context.Context, text string, req catalog.PageRequest) (catalog.List[models.Product], error) {
	if err := f.enter(fmt.Sprintf("search:%s:%d", text, req.Page), &req); err != nil {
		return catalog.List[models.Product]{}, err
	}
	return pageOf(f.searchResults[text], req), nil
}

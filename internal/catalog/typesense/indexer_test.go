package typesense

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/migration/schemas"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/v3/typesense"
	"go.uber.org/zap"
)

// fakeWriter simula a criação de collections e o upsert de documentos
type fakeWriter struct {
	mu       sync.Mutex
	existing map[string]bool
	created  []string
	docs     map[string][]map[string]any
	failIDs  map[string]bool
}

func newFakeWriter(existing ...string) *fakeWriter {
	f := &fakeWriter{
		existing: map[string]bool{},
		docs:     map[string][]map[string]any{},
		failIDs:  map[string]bool{},
	}
	for _, name := range existing {
		f.existing[name] = true
	}
	return f
}

func (f *fakeWriter) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		f.mu.Lock()
		defer f.mu.Unlock()

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case r.Method == http.MethodGet && len(parts) == 2:
			if !f.existing[parts[1]] {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
				return
			}
			_, _ = w.Write([]byte(`{"name":"` + parts[1] + `","fields":[],"num_documents":0,"created_at":1}`))

		case r.Method == http.MethodPost && len(parts) == 1:
			var schema map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&schema))
			name := schema["name"].(string)
			f.existing[name] = true
			f.created = append(f.created, name)
			schema["num_documents"] = 0
			schema["created_at"] = 1
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(schema)

		case r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "documents":
			assert.Equal(t, "upsert", r.URL.Query().Get("action"))
			body, _ := io.ReadAll(r.Body)
			var doc map[string]any
			require.NoError(t, json.Unmarshal(body, &doc))
			if f.failIDs[doc["id"].(string)] {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"campo inválido"}`))
				return
			}
			f.docs[parts[1]] = append(f.docs[parts[1]], doc)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(body)

		default:
			t.Errorf("rota inesperada: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func (f *fakeWriter) docsOf(collection string) map[string]map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	byID := map[string]map[string]any{}
	for _, d := range f.docs[collection] {
		byID[d["id"].(string)] = d
	}
	return byID
}

// treeSource é uma loja com duas folhas que compartilham um produto
type treeSource struct {
	catalog.Backend

	mu    sync.Mutex
	pages []catalog.PageRequest
}

var (
	shopMain   = models.MainCategory{ID: 1, Name: "Furniture"}
	shopSub    = models.SubCategory{ID: 10, Name: "Living", MainCategory: shopMain}
	shopSofas  = models.Category{ID: 100, Name: "Sofas", SubCategory: shopSub}
	shopChairs = models.Category{ID: 101, Name: "Chairs", SubCategory: shopSub}
)

func (s *treeSource) MainCategories(context.Context) (catalog.List[models.MainCategory], error) {
	return catalog.Ok([]models.MainCategory{shopMain}, catalog.Meta{}), nil
}

func (s *treeSource) SubCategoriesByMain(_ context.Context, id int64) (catalog.List[models.SubCategory], error) {
	if id != shopMain.ID {
		return catalog.Empty[models.SubCategory](), nil
	}
	return catalog.Ok([]models.SubCategory{shopSub}, catalog.Meta{}), nil
}

func (s *treeSource) CategoriesBySub(_ context.Context, id int64) (catalog.List[models.Category], error) {
	if id != shopSub.ID {
		return catalog.Empty[models.Category](), nil
	}
	return catalog.Ok([]models.Category{shopSofas, shopChairs}, catalog.Meta{}), nil
}

// ProductsByCategory pagina os produtos de cada folha pelo tamanho pedido.
// Só as cadeiras informam meta, as demais folhas param na página curta.
func (s *treeSource) ProductsByCategory(_ context.Context, id int64, req catalog.PageRequest) (catalog.List[models.Product], error) {
	s.mu.Lock()
	s.pages = append(s.pages, req)
	s.mu.Unlock()

	product := func(id int64, name string) models.Product {
		return models.Product{ID: id, Name: name, MinPrice: decimal.NewFromInt(id)}
	}

	var all []models.Product
	switch id {
	case shopSofas.ID:
		all = []models.Product{product(1, "Sofá"), product(2, "Puff"), product(3, "Sofá-cama")}
	case shopChairs.ID:
		all = []models.Product{product(2, "Puff"), product(4, "Cadeira")}
	}

	start := min((req.Page-1)*req.Size, len(all))
	end := min(start+req.Size, len(all))

	meta := catalog.Meta{}
	if id == shopChairs.ID {
		meta = catalog.Meta{Pages: (len(all) + req.Size - 1) / req.Size, Total: len(all), Reported: true}
	}
	return catalog.Ok(all[start:end], meta), nil
}

func newTestIndexer(t *testing.T, writer *fakeWriter, opts ...IndexerOption) *Indexer {
	t.Helper()
	server := httptest.NewServer(writer.handler(t))
	t.Cleanup(server.Close)

	client := typesense.NewClient(typesense.WithServer(server.URL), typesense.WithAPIKey("test"))
	return NewIndexer(client, "prods", "cats", schemas.NewRegistry(), zap.NewNop(), opts...)
}

func TestIndexerRunCreatesCollectionsAndMergesLeaves(t *testing.T) {
	writer := newFakeWriter()
	source := &treeSource{}
	ix := newTestIndexer(t, writer, WithBatchSize(2), WithWorkers(2))

	stats, err := ix.Run(context.Background(), source)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"cats", "prods"}, writer.created)
	assert.Equal(t, int64(4), stats.Categories, "1 principal, 1 sub e 2 folhas")
	assert.Equal(t, int64(4), stats.Products)
	assert.Zero(t, stats.Errors)

	cats := writer.docsOf("cats")
	require.Contains(t, cats, "leaf-101")
	assert.Equal(t, "leaf", cats["leaf-101"]["level"])
	assert.EqualValues(t, 10, cats["leaf-101"]["parent_id"])
	assert.EqualValues(t, 1, cats["leaf-101"]["main_id"])

	prods := writer.docsOf("prods")
	require.Contains(t, prods, "2")
	assert.ElementsMatch(t, []any{float64(100), float64(101)}, prods["2"]["category_ids"])
	assert.ElementsMatch(t, []any{float64(100)}, prods["3"]["category_ids"])
	assert.EqualValues(t, 0, prods["1"]["position"])
	assert.EqualValues(t, 3, prods["4"]["position"])
}

func TestIndexerPagesUntilShortPage(t *testing.T) {
	source := &treeSource{}
	ix := newTestIndexer(t, newFakeWriter(), WithBatchSize(2), WithDryRun(true))

	_, err := ix.Run(context.Background(), source)
	require.NoError(t, err)

	pagesByNumber := map[int]int{}
	for _, p := range source.pages {
		assert.Equal(t, 2, p.Size)
		pagesByNumber[p.Page]++
	}
	assert.Len(t, source.pages, 3, "sofás em 2 páginas, cadeiras param pela meta")
	assert.Equal(t, map[int]int{1: 2, 2: 1}, pagesByNumber)
}

func TestIndexerDryRunWritesNothing(t *testing.T) {
	writer := newFakeWriter()
	source := &treeSource{}
	ix := newTestIndexer(t, writer, WithDryRun(true))

	stats, err := ix.Run(context.Background(), source)
	require.NoError(t, err)

	assert.Empty(t, writer.created)
	assert.Empty(t, writer.docsOf("prods"))
	assert.Equal(t, int64(4), stats.Categories)
	assert.Equal(t, int64(4), stats.Products)
	assert.Len(t, source.pages, 2, "uma página por folha com o lote padrão")
}

func TestIndexerCountsFailedDocuments(t *testing.T) {
	writer := newFakeWriter("cats", "prods")
	writer.failIDs["3"] = true
	ix := newTestIndexer(t, writer, WithBatchSize(2))

	stats, err := ix.Run(context.Background(), &treeSource{})
	require.NoError(t, err)

	assert.Empty(t, writer.created, "collections existentes não são recriadas")
	assert.Equal(t, int64(3), stats.Products)
	assert.Equal(t, int64(1), stats.Errors)
}

type brokenSource struct{ treeSource }

func (s *brokenSource) CategoriesBySub(context.Context, int64) (catalog.List[models.Category], error) {
	return catalog.List[models.Category]{}, catalog.ErrBackendStatus
}

func TestIndexerStopsOnSourceError(t *testing.T) {
	writer := newFakeWriter()
	ix := newTestIndexer(t, writer)

	_, err := ix.Run(context.Background(), &brokenSource{})
	require.ErrorIs(t, err, catalog.ErrBackendStatus)
	assert.Empty(t, writer.docsOf("cats"))
}

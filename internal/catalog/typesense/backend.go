// Package typesense implementa catalog.Backend sobre as collections do
// índice do catálogo no Typesense.
package typesense

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/config"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"
	"go.uber.org/zap"
)

// maxPerPage é o limite de hits por busca do Typesense
const maxPerPage = 250

var sortBy = map[models.SortOption]string{
	models.SortDefault:   "position:asc",
	models.SortPriceAsc:  "min_price:asc",
	models.SortPriceDesc: "max_price:desc",
	models.SortNameAsc:   "name:asc",
	models.SortNameDesc:  "name:desc",
	models.SortNewest:    "product_id:desc",
}

// Backend lê categorias e produtos do Typesense
type Backend struct {
	client     *typesense.Client
	products   string
	categories string
	logger     *zap.Logger
}

// NewClient cria o cliente Typesense a partir da configuração
func NewClient(cfg config.TypesenseConfig) *typesense.Client {
	return typesense.NewClient(
		typesense.WithServer(cfg.ServerURL()),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
}

// NewBackend cria o backend sobre as collections informadas
func NewBackend(client *typesense.Client, productsCollection, categoriesCollection string, logger *zap.Logger) *Backend {
	return &Backend{
		client:     client,
		products:   productsCollection,
		categories: categoriesCollection,
		logger:     logger.Named("catalog.typesense"),
	}
}

func (b *Backend) MainCategories(ctx context.Context) (catalog.List[models.MainCategory], error) {
	docs, err := b.categoryDocs(ctx, fmt.Sprintf("level:=%s", LevelMain))
	if err != nil {
		return catalog.List[models.MainCategory]{}, err
	}
	return mapList(docs, CategoryDocument.main), nil
}

func (b *Backend) SubCategories(ctx context.Context) (catalog.List[models.SubCategory], error) {
	docs, err := b.categoryDocs(ctx, fmt.Sprintf("level:=%s", LevelSub))
	if err != nil {
		return catalog.List[models.SubCategory]{}, err
	}
	return mapList(docs, CategoryDocument.sub), nil
}

func (b *Backend) SubCategoriesByMain(ctx context.Context, mainCategoryID int64) (catalog.List[models.SubCategory], error) {
	docs, err := b.categoryDocs(ctx, fmt.Sprintf("level:=%s && parent_id:=%d", LevelSub, mainCategoryID))
	if err != nil {
		return catalog.List[models.SubCategory]{}, err
	}
	return mapList(docs, CategoryDocument.sub), nil
}

func (b *Backend) CategoriesBySub(ctx context.Context, subCategoryID int64) (catalog.List[models.Category], error) {
	docs, err := b.categoryDocs(ctx, fmt.Sprintf("level:=%s && parent_id:=%d", LevelLeaf, subCategoryID))
	if err != nil {
		return catalog.List[models.Category]{}, err
	}
	return mapList(docs, CategoryDocument.leaf), nil
}

func (b *Backend) ProductsByCategory(ctx context.Context, categoryID int64, req catalog.PageRequest) (catalog.List[models.Product], error) {
	return b.productPage(ctx, "*", fmt.Sprintf("category_ids:=%d", categoryID), req)
}

func (b *Backend) Products(ctx context.Context, req catalog.PageRequest) (catalog.List[models.Product], error) {
	return b.productPage(ctx, "*", "", req)
}

func (b *Backend) SearchProducts(ctx context.Context, text string, req catalog.PageRequest) (catalog.List[models.Product], error) {
	return b.productPage(ctx, text, "", req)
}

// Health verifica o endpoint de saúde do Typesense
func (b *Backend) Health(ctx context.Context) error {
	ok, err := b.client.Health(ctx, 2*time.Second)
	if err != nil {
		return fmt.Errorf("erro ao verificar typesense: %w", err)
	}
	if !ok {
		return fmt.Errorf("typesense não está saudável")
	}
	return nil
}

// categoryDocs busca todas as categorias de um filtro, em ordem de posição
func (b *Backend) categoryDocs(ctx context.Context, filterBy string) ([]CategoryDocument, error) {
	var docs []CategoryDocument

	for page := 1; ; page++ {
		params := &api.SearchCollectionParams{
			Q:        pointer.String("*"),
			QueryBy:  pointer.String("name"),
			FilterBy: pointer.String(filterBy),
			SortBy:   pointer.String("position:asc"),
			Page:     pointer.Int(page),
			PerPage:  pointer.Int(maxPerPage),
		}

		result, err := b.client.Collection(b.categories).Documents().Search(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("erro ao buscar categorias (%s): %w", filterBy, err)
		}

		batch, err := decodeHits[CategoryDocument](result)
		if err != nil {
			return nil, err
		}
		docs = append(docs, batch...)

		if len(batch) < maxPerPage || (result.Found != nil && len(docs) >= int(*result.Found)) {
			return docs, nil
		}
	}
}

// productPage busca uma página lógica de produtos. Páginas maiores que o
// limite do Typesense são montadas com offset/limit sucessivos.
func (b *Backend) productPage(ctx context.Context, q, filterBy string, req catalog.PageRequest) (catalog.List[models.Product], error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.Size
	if size < 1 {
		size = maxPerPage
	}

	sortOption := models.ParseSortOption(string(req.Sort))
	sort := sortBy[sortOption]
	if q != "*" && sortOption == models.SortDefault {
		sort = "_text_match:desc," + sort
	}

	var (
		products []models.Product
		found    int
	)
	offset := (page - 1) * size
	remaining := size

	for remaining > 0 {
		limit := min(remaining, maxPerPage)
		params := &api.SearchCollectionParams{
			Q:       pointer.String(q),
			QueryBy: pointer.String("name"),
			SortBy:  pointer.String(sort),
			Offset:  pointer.Int(offset),
			Limit:   pointer.Int(limit),
		}
		if filterBy != "" {
			params.FilterBy = pointer.String(filterBy)
		}

		result, err := b.client.Collection(b.products).Documents().Search(ctx, params)
		if err != nil {
			return catalog.List[models.Product]{}, fmt.Errorf("erro ao buscar produtos: %w", err)
		}
		if result.Found != nil {
			found = int(*result.Found)
		}

		docs, err := decodeHits[ProductDocument](result)
		if err != nil {
			return catalog.List[models.Product]{}, err
		}
		for _, d := range docs {
			products = append(products, d.product())
		}

		if len(docs) < limit {
			break
		}
		offset += limit
		remaining -= limit
	}

	meta := catalog.Meta{Total: found, Pages: (found + size - 1) / size, Reported: true}
	return catalog.Ok(products, meta), nil
}

// decodeHits converte os documentos dos hits para o tipo indexado
func decodeHits[T any](result *api.SearchResult) ([]T, error) {
	if result == nil || result.Hits == nil {
		return nil, nil
	}

	docs := make([]T, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}

		raw, err := json.Marshal(*hit.Document)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar documento: %w", err)
		}

		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", catalog.ErrUnexpectedShape, err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func mapList[D, T any](docs []D, convert func(D) T) catalog.List[T] {
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		items = append(items, convert(d))
	}
	return catalog.Ok(items, catalog.Meta{})
}

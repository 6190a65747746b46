// Package rest implementa catalog.Backend sobre a API REST da loja.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/catalog"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"go.uber.org/zap"
)

const (
	pathMainCategories      = "/main-categories"
	pathSubCategories       = "/sub-categories"
	pathSubCategoriesByMain = "/sub-categories/main-category/{id}"
	pathCategoriesBySub     = "/categories/sub-category/{id}"
	pathProductsByCategory  = "/products/category/{id}"
	pathProducts            = "/products"
	pathSearchProducts      = "/products/search"
	pathHealth              = "/main-categories"
)

// Client é o backend REST do catálogo
type Client struct {
	http         *resty.Client
	logger       *zap.Logger
	zeroBased    bool
	serviceToken string
}

// Option configura o Client
type Option func(*Client)

// WithTimeout define o timeout por requisição
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithRetryCount define tentativas extras em falhas de rede e respostas 5xx
func WithRetryCount(n int) Option {
	return func(c *Client) { c.http.SetRetryCount(n) }
}

// WithZeroBasedPages faz o cliente enviar page-1 ao backend
func WithZeroBasedPages(zeroBased bool) Option {
	return func(c *Client) { c.zeroBased = zeroBased }
}

// WithServiceToken define o token usado quando o contexto não traz um
func WithServiceToken(token string) Option {
	return func(c *Client) { c.serviceToken = token }
}

// NewClient cria um novo cliente REST do catálogo
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(100*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	c := &Client{
		http:   httpClient,
		logger: logger.Named("catalog.rest"),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)

	token := catalog.AccessTokenFrom(ctx)
	if token == "" {
		token = c.serviceToken
	}
	if token != "" {
		req.SetAuthToken(token)
	}

	return req
}

func (c *Client) pageParams(req catalog.PageRequest) map[string]string {
	page := req.Page
	if page < 1 {
		page = 1
	}
	if c.zeroBased {
		page--
	}

	params := map[string]string{
		"page": strconv.Itoa(page),
		"size": strconv.Itoa(req.Size),
	}
	if sort, ok := catalog.SortParam(req.Sort); ok {
		params["sort"] = sort
	}

	return params
}

func get[T any](c *Client, req *resty.Request, path string) (catalog.List[T], error) {
	resp, err := req.Get(path)
	if err != nil {
		return catalog.List[T]{}, fmt.Errorf("erro ao chamar %s: %w", path, err)
	}

	// 404 em listagem por id é lista vazia, não falha
	if resp.StatusCode() == http.StatusNotFound {
		c.logger.Debug("listagem não encontrada", zap.String("url", resp.Request.URL))
		return catalog.Empty[T](), nil
	}
	if resp.IsError() {
		return catalog.List[T]{}, fmt.Errorf("%w: %s retornou %d", catalog.ErrBackendStatus, path, resp.StatusCode())
	}

	list, err := catalog.DecodeList[T](resp.Body())
	if err != nil {
		return catalog.List[T]{}, fmt.Errorf("erro ao decodificar %s: %w", path, err)
	}

	return list, nil
}

func (c *Client) MainCategories(ctx context.Context) (catalog.List[models.MainCategory], error) {
	return get[models.MainCategory](c, c.request(ctx), pathMainCategories)
}

func (c *Client) SubCategories(ctx context.Context) (catalog.List[models.SubCategory], error) {
	return get[models.SubCategory](c, c.request(ctx), pathSubCategories)
}

func (c *Client) SubCategoriesByMain(ctx context.Context, mainCategoryID int64) (catalog.List[models.SubCategory], error) {
	req := c.request(ctx).SetPathParam("id", strconv.FormatInt(mainCategoryID, 10))
	return get[models.SubCategory](c, req, pathSubCategoriesByMain)
}

func (c *Client) CategoriesBySub(ctx context.Context, subCategoryID int64) (catalog.List[models.Category], error) {
	req := c.request(ctx).SetPathParam("id", strconv.FormatInt(subCategoryID, 10))
	return get[models.Category](c, req, pathCategoriesBySub)
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64, page catalog.PageRequest) (catalog.List[models.Product], error) {
	req := c.request(ctx).
		SetPathParam("id", strconv.FormatInt(categoryID, 10)).
		SetQueryParams(c.pageParams(page))
	return get[models.Product](c, req, pathProductsByCategory)
}

func (c *Client) Products(ctx context.Context, page catalog.PageRequest) (catalog.List[models.Product], error) {
	req := c.request(ctx).SetQueryParams(c.pageParams(page))
	return get[models.Product](c, req, pathProducts)
}

func (c *Client) SearchProducts(ctx context.Context, text string, page catalog.PageRequest) (catalog.List[models.Product], error) {
	req := c.request(ctx).
		SetQueryParams(c.pageParams(page)).
		SetQueryParam("query", text)
	return get[models.Product](c, req, pathSearchProducts)
}

// Health verifica se o backend responde à listagem de categorias principais
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(pathHealth)
	if err != nil {
		return fmt.Errorf("erro ao verificar backend: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: health retornou %d", catalog.ErrBackendStatus, resp.StatusCode())
	}
	return nil
}

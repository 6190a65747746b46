package catalog

import (
	"context"
	"time"

	"github.com/prefeitura-rio/app-vitrine-busca/internal/models"
	"github.com/prefeitura-rio/app-vitrine-busca/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Nomes das operações usados em métricas e spans
const (
	CallMainCategories      = "main_categories"
	CallSubCategories       = "sub_categories"
	CallSubCategoriesByMain = "sub_categories_by_main"
	CallCategoriesBySub     = "categories_by_sub"
	CallProductsByCategory  = "products_by_category"
	CallProducts            = "products"
	CallSearchProducts      = "search_products"
)

// Instrumented decora um Backend com spans e métricas por chamada
type Instrumented struct {
	next    Backend
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// NewInstrumented cria o decorator; metrics pode ser nil
func NewInstrumented(next Backend, metrics *observability.Metrics) *Instrumented {
	return &Instrumented{
		next:    next,
		metrics: metrics,
		tracer:  otel.Tracer("catalog"),
	}
}

func (b *Instrumented) Unwrap() Backend { return b.next }

func observe[T any](ctx context.Context, b *Instrumented, call string, attrs []attribute.KeyValue, fn func(context.Context) (List[T], error)) (List[T], error) {
	ctx, span := b.tracer.Start(ctx, "catalog."+call, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	list, err := fn(ctx)
	elapsed := time.Since(start)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case list.IsEmpty():
		outcome = "empty"
	}
	span.SetAttributes(attribute.Int("catalog.items", list.Len()))
	b.metrics.ObserveBackendCall(call, outcome, elapsed)

	return list, err
}

func pageAttrs(req PageRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("catalog.page", req.Page),
		attribute.Int("catalog.size", req.Size),
		attribute.String("catalog.sort", string(req.Sort)),
	}
}

func (b *Instrumented) MainCategories(ctx context.Context) (List[models.MainCategory], error) {
	return observe(ctx, b, CallMainCategories, nil, b.next.MainCategories)
}

func (b *Instrumented) SubCategories(ctx context.Context) (List[models.SubCategory], error) {
	return observe(ctx, b, CallSubCategories, nil, b.next.SubCategories)
}

func (b *Instrumented) SubCategoriesByMain(ctx context.Context, mainCategoryID int64) (List[models.SubCategory], error) {
	attrs := []attribute.KeyValue{attribute.Int64("catalog.main_category_id", mainCategoryID)}
	return observe(ctx, b, CallSubCategoriesByMain, attrs, func(ctx context.Context) (List[models.SubCategory], error) {
		return b.next.SubCategoriesByMain(ctx, mainCategoryID)
	})
}

func (b *Instrumented) CategoriesBySub(ctx context.Context, subCategoryID int64) (List[models.Category], error) {
	attrs := []attribute.KeyValue{attribute.Int64("catalog.sub_category_id", subCategoryID)}
	return observe(ctx, b, CallCategoriesBySub, attrs, func(ctx context.Context) (List[models.Category], error) {
		return b.next.CategoriesBySub(ctx, subCategoryID)
	})
}

func (b *Instrumented) ProductsByCategory(ctx context.Context, categoryID int64, req PageRequest) (List[models.Product], error) {
	attrs := append(pageAttrs(req), attribute.Int64("catalog.category_id", categoryID))
	return observe(ctx, b, CallProductsByCategory, attrs, func(ctx context.Context) (List[models.Product], error) {
		return b.next.ProductsByCategory(ctx, categoryID, req)
	})
}

func (b *Instrumented) Products(ctx context.Context, req PageRequest) (List[models.Product], error) {
	return observe(ctx, b, CallProducts, pageAttrs(req), func(ctx context.Context) (List[models.Product], error) {
		return b.next.Products(ctx, req)
	})
}

func (b *Instrumented) SearchProducts(ctx context.Context, text string, req PageRequest) (List[models.Product], error) {
	attrs := append(pageAttrs(req), attribute.String("catalog.query", text))
	return observe(ctx, b, CallSearchProducts, attrs, func(ctx context.Context) (List[models.Product], error) {
		return b.next.SearchProducts(ctx, text, req)
	})
}

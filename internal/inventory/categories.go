package inventory

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/erazemk/shramba/internal/model"
)

// CategoryAggregator builds a tenant's sorted category list with item counts.
type CategoryAggregator struct {
	store CategoryReader
	opts  options
}

// NewCategoryAggregator returns a CategoryAggregator reading from store.
func NewCategoryAggregator(store CategoryReader, opts ...Option) *CategoryAggregator {
	return &CategoryAggregator{store: store, opts: newOptions(opts)}
}

// ListCategories returns all of the tenant's categories with their item
// counts, ordered by key and order with ties broken by ascending id. Name
// ordering is by the bytes of the stored name. The result is complete or an
// error is returned; there is no partial list.
func (a *CategoryAggregator) ListCategories(ctx context.Context, tenant model.TenantID, key model.SortKey, order model.SortOrder) ([]model.CategorySummary, error) {
	ctx, span := a.opts.tracer.Start(ctx, "inventory.ListCategories")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenant.String()),
		attribute.String("sort.key", string(key)),
		attribute.String("sort.order", string(order)),
	)

	categories, err := call(ctx, a.opts.timeout, func(ctx context.Context) ([]model.CategorySummary, error) {
		return a.store.ListCategoriesWithCounts(ctx, tenant, key, order)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("listing categories: %w", err))
	}
	if categories == nil {
		categories = []model.CategorySummary{}
	}

	span.SetAttributes(attribute.Int("categories.count", len(categories)))
	return categories, nil
}

// CategoryWriter creates categories. Names are unique per tenant after
// trimming, compared under case folding.
type CategoryWriter struct {
	store CategoryStore
	opts  options
}

// NewCategoryWriter returns a CategoryWriter persisting to store.
func NewCategoryWriter(store CategoryStore, opts ...Option) *CategoryWriter {
	return &CategoryWriter{store: store, opts: newOptions(opts)}
}

// CreateCategory trims rawName and creates a category with it. It fails with
// model.ErrValidationFailed for an invalid name and model.ErrConflict when the
// tenant already has a category of the same folded name. Of any number of
// concurrent calls with the same folded name exactly one succeeds.
func (w *CategoryWriter) CreateCategory(ctx context.Context, tenant model.TenantID, rawName string) (*model.Category, error) {
	ctx, span := w.opts.tracer.Start(ctx, "inventory.CreateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("tenant.id", tenant.String()))

	name, err := model.NormalizeCategoryName(rawName)
	if err != nil {
		return nil, fail(span, err)
	}
	nameKey := model.FoldName(name)

	// Fast path only. The insert below is what enforces uniqueness.
	exists, err := call(ctx, w.opts.timeout, func(ctx context.Context) (bool, error) {
		return w.store.CategoryNameExists(ctx, tenant, nameKey)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("checking category name: %w", err))
	}
	if exists {
		return nil, fail(span, fmt.Errorf("category %q: %w", name, model.ErrConflict))
	}

	c := &model.Category{TenantID: tenant, Name: name}
	inserted, err := call(ctx, w.opts.timeout, func(ctx context.Context) (bool, error) {
		return w.store.InsertCategoryIfAbsent(ctx, c)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("creating category: %w", err))
	}
	if !inserted {
		return nil, fail(span, fmt.Errorf("category %q: %w", name, model.ErrConflict))
	}

	span.SetAttributes(attribute.String("category.id", c.ID.String()))
	w.opts.logger.Debugw("category created", "tenant", tenant, "category", c.ID)
	return c, nil
}

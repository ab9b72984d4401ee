// Package inventory computes the tenant-scoped read models of the inventory
// (category lists with item counts, dashboard snapshots) and creates
// categories under a per-tenant case-insensitive uniqueness rule.
//
// Components talk only to the store interfaces declared here. Every store call
// is bounded by a timeout; a call that times out or fails with an error
// outside the model taxonomy is reported as model.ErrStoreUnavailable.
package inventory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/model"
)

// DefaultTimeout bounds each store call unless WithTimeout overrides it.
const DefaultTimeout = 5 * time.Second

const tracerName = "github.com/erazemk/shramba/internal/inventory"

// CategoryReader lists categories with their item counts.
type CategoryReader interface {
	ListCategoriesWithCounts(ctx context.Context, tenant model.TenantID, key model.SortKey, order model.SortOrder) ([]model.CategorySummary, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	// CategoryNameExists reports whether the tenant has a category with the
	// given folded name.
	CategoryNameExists(ctx context.Context, tenant model.TenantID, nameKey string) (bool, error)
	// InsertCategoryIfAbsent inserts c unless its folded name is taken for
	// c.TenantID, atomically with respect to other inserts.
	InsertCategoryIfAbsent(ctx context.Context, c *model.Category) (bool, error)
}

// DashboardStore provides the reads behind a dashboard snapshot.
type DashboardStore interface {
	CountItems(ctx context.Context, tenant model.TenantID) (int64, error)
	CountContainers(ctx context.Context, tenant model.TenantID) (int64, error)
	CountCategories(ctx context.Context, tenant model.TenantID) (int64, error)
	CountItemsNotIn(ctx context.Context, tenant model.TenantID) (int64, error)
	FindRecentItemsEnriched(ctx context.Context, tenant model.TenantID, limit int) ([]model.EnrichedItem, error)
}

// DataStore is everything the inventory core reads and writes.
type DataStore interface {
	CategoryReader
	CategoryStore
	DashboardStore
}

// ThumbnailResolver turns a stored image path into a URL a client can fetch.
type ThumbnailResolver interface {
	ResolveThumbnailURL(ctx context.Context, storagePath string) (string, error)
}

type options struct {
	timeout time.Duration
	logger  *zap.SugaredLogger
	tracer  trace.Tracer
}

// Option configures a component.
type Option func(*options)

// WithTimeout sets the bound on each individual store call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp.Tracer(tracerName) }
}

func newOptions(opts []Option) options {
	o := options{
		timeout: DefaultTimeout,
		logger:  zap.NewNop().Sugar(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// call runs fn with the per-call timeout. It returns once fn returns or the
// timeout expires, whichever is first.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	var zero T
	select {
	case r := <-done:
		if r.err != nil {
			return zero, classify(r.err)
		}
		return r.v, nil
	case <-ctx.Done():
		return zero, classify(ctx.Err())
	}
}

// classify maps errors outside the model taxonomy to ErrStoreUnavailable.
func classify(err error) error {
	if err == nil || model.IsKnown(err) {
		return err
	}
	return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
}

// fail records err on span and returns it.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

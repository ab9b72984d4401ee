package inventory

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/shramba/internal/model"
)

// DashboardAggregator assembles dashboard snapshots.
type DashboardAggregator struct {
	store    DashboardStore
	resolver ThumbnailResolver
	opts     options
}

// NewDashboardAggregator returns a DashboardAggregator. A nil resolver leaves
// every thumbnail empty.
func NewDashboardAggregator(store DashboardStore, resolver ThumbnailResolver, opts ...Option) *DashboardAggregator {
	return &DashboardAggregator{store: store, resolver: resolver, opts: newOptions(opts)}
}

// Snapshot computes the tenant's dashboard. The four counts and the recent
// items are read concurrently.
//
// A failed count fails the snapshot. A failed recent items read leaves
// RecentItems empty, and a thumbnail that cannot be resolved is nil for that
// item only.
func (d *DashboardAggregator) Snapshot(ctx context.Context, tenant model.TenantID) (*model.DashboardSnapshot, error) {
	ctx, span := d.opts.tracer.Start(ctx, "inventory.Snapshot")
	defer span.End()
	span.SetAttributes(attribute.String("tenant.id", tenant.String()))

	snap := &model.DashboardSnapshot{RecentItems: []model.RecentItem{}}

	counts := []struct {
		name  string
		count func(context.Context, model.TenantID) (int64, error)
		dst   *int64
	}{
		{"items", d.store.CountItems, &snap.TotalItems},
		{"containers", d.store.CountContainers, &snap.TotalContainers},
		{"categories", d.store.CountCategories, &snap.TotalCategories},
		{"items_out", d.store.CountItemsNotIn, &snap.ItemsOut},
	}

	// A plain Group: one failure must not cancel the other reads.
	var g errgroup.Group
	for _, c := range counts {
		g.Go(func() error {
			ctx, span := d.opts.tracer.Start(ctx, "inventory.Snapshot.count_"+c.name)
			defer span.End()

			n, err := call(ctx, d.opts.timeout, func(ctx context.Context) (int64, error) {
				return c.count(ctx, tenant)
			})
			if err != nil {
				return fail(span, fmt.Errorf("counting %s: %w", c.name, err))
			}
			*c.dst = n
			return nil
		})
	}

	var (
		recent    []model.EnrichedItem
		recentErr error
	)
	g.Go(func() error {
		ctx, span := d.opts.tracer.Start(ctx, "inventory.Snapshot.recent_items")
		defer span.End()

		recent, recentErr = call(ctx, d.opts.timeout, func(ctx context.Context) ([]model.EnrichedItem, error) {
			return d.store.FindRecentItemsEnriched(ctx, tenant, model.RecentItemsLimit)
		})
		if recentErr != nil {
			fail(span, recentErr)
		}
		// Best effort: never fails the group.
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fail(span, err)
	}

	if recentErr != nil {
		d.opts.logger.Warnw("recent items unavailable, returning snapshot without them",
			"tenant", tenant, "error", recentErr)
		return snap, nil
	}

	if len(recent) > model.RecentItemsLimit {
		recent = recent[:model.RecentItemsLimit]
	}
	snap.RecentItems = d.enrich(ctx, tenant, recent)
	span.SetAttributes(attribute.Int("recent_items.count", len(snap.RecentItems)))
	return snap, nil
}

// enrich flattens the joined rows and resolves their thumbnails concurrently.
func (d *DashboardAggregator) enrich(ctx context.Context, tenant model.TenantID, rows []model.EnrichedItem) []model.RecentItem {
	items := make([]model.RecentItem, len(rows))

	var g errgroup.Group
	for i, row := range rows {
		items[i] = model.RecentItem{
			ID:            row.ID,
			Name:          row.Name,
			IsIn:          row.IsIn,
			CreatedAt:     row.CreatedAt,
			CategoryName:  row.CategoryName,
			ContainerName: row.ContainerName,
		}
		if row.ThumbnailPath == nil || d.resolver == nil {
			continue
		}
		path := *row.ThumbnailPath
		g.Go(func() error {
			url, err := call(ctx, d.opts.timeout, func(ctx context.Context) (string, error) {
				return d.resolver.ResolveThumbnailURL(ctx, path)
			})
			if err != nil {
				d.opts.logger.Debugw("thumbnail unavailable", "tenant", tenant, "item", row.ID, "error", err)
				return nil
			}
			items[i].Thumbnail = &url
			return nil
		})
	}
	_ = g.Wait()

	return items
}

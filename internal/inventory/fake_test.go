package inventory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erazemk/shramba/internal/model"
)

var errInjected = errors.New("injected failure")

// fakeStore serves fixed results and counts concurrent calls.
type fakeStore struct {
	items, containers, categories, itemsOut int64
	recent                                  []model.EnrichedItem
	categoryList                            []model.CategorySummary

	// fail names the operations that return errInjected.
	fail map[string]bool
	// hang names the operations that block until their context is done.
	hang map[string]bool
	// ignoreCtx makes hanging operations ignore cancellation.
	ignoreCtx bool
	// delay is added to every dashboard read.
	delay time.Duration

	inFlight, maxInFlight atomic.Int32

	mu       sync.Mutex
	exists   map[string]bool
	inserted []*model.Category
}

func (f *fakeStore) enter(ctx context.Context, op string) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.hang[op] {
		if f.ignoreCtx {
			time.Sleep(time.Hour)
		}
		<-ctx.Done()
		return ctx.Err()
	}
	if f.fail[op] {
		return errInjected
	}
	return nil
}

func (f *fakeStore) CountItems(ctx context.Context, _ model.TenantID) (int64, error) {
	return f.items, f.enter(ctx, "items")
}

func (f *fakeStore) CountContainers(ctx context.Context, _ model.TenantID) (int64, error) {
	return f.containers, f.enter(ctx, "containers")
}

func (f *fakeStore) CountCategories(ctx context.Context, _ model.TenantID) (int64, error) {
	return f.categories, f.enter(ctx, "categories")
}

func (f *fakeStore) CountItemsNotIn(ctx context.Context, _ model.TenantID) (int64, error) {
	return f.itemsOut, f.enter(ctx, "items_out")
}

func (f *fakeStore) FindRecentItemsEnriched(ctx context.Context, _ model.TenantID, limit int) ([]model.EnrichedItem, error) {
	if err := f.enter(ctx, "recent"); err != nil {
		return nil, err
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeStore) ListCategoriesWithCounts(ctx context.Context, _ model.TenantID, _ model.SortKey, _ model.SortOrder) ([]model.CategorySummary, error) {
	if err := f.enter(ctx, "list"); err != nil {
		return nil, err
	}
	return f.categoryList, nil
}

func (f *fakeStore) CategoryNameExists(ctx context.Context, _ model.TenantID, nameKey string) (bool, error) {
	if err := f.enter(ctx, "exists"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists[nameKey], nil
}

func (f *fakeStore) InsertCategoryIfAbsent(ctx context.Context, c *model.Category) (bool, error) {
	if err := f.enter(ctx, "insert"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, c)
	return true, nil
}

// fakeResolver maps storage paths to URLs; paths in fail return an error.
type fakeResolver struct {
	fail map[string]bool
}

func (r *fakeResolver) ResolveThumbnailURL(_ context.Context, path string) (string, error) {
	if r.fail[path] {
		return "", errInjected
	}
	return "https://files.example/" + path, nil
}

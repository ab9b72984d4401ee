package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

func createCategory(t *testing.T, s *Store, tenant model.TenantID, name string) *model.Category {
	t.Helper()
	c := &model.Category{TenantID: tenant, Name: name}
	inserted, err := s.InsertCategoryIfAbsent(context.Background(), c)
	if err != nil {
		t.Fatalf("InsertCategoryIfAbsent(%q): %v", name, err)
	}
	if !inserted {
		t.Fatalf("InsertCategoryIfAbsent(%q): not inserted", name)
	}
	return c
}

func createItem(t *testing.T, s *Store, tenant model.TenantID, name string, category, container *uuid.UUID) *model.Item {
	t.Helper()
	item := &model.Item{TenantID: tenant, Name: name, CategoryID: category, ContainerID: container, IsIn: true}
	if err := s.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("CreateItem(%q): %v", name, err)
	}
	return item
}

func names(categories []model.CategorySummary) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListCategoriesWithCounts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	empty := createCategory(t, s, tenant, "Empty")
	one := createCategory(t, s, tenant, "One")
	many := createCategory(t, s, tenant, "Many")

	createItem(t, s, tenant, "Lamp", &one.ID, nil)
	for _, name := range []string{"Tent", "Stove", "Rope"} {
		createItem(t, s, tenant, name, &many.ID, nil)
	}
	createItem(t, s, tenant, "Uncategorized", nil, nil)

	got, err := s.ListCategoriesWithCounts(ctx, tenant, model.SortByName, model.SortAsc)
	if err != nil {
		t.Fatalf("ListCategoriesWithCounts: %v", err)
	}

	counts := map[uuid.UUID]int64{}
	for _, c := range got {
		counts[c.ID] = c.ItemCount
	}
	want := map[uuid.UUID]int64{empty.ID: 0, one.ID: 1, many.ID: 3}
	if len(counts) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(counts))
	}
	for id, n := range want {
		if counts[id] != n {
			t.Errorf("category %s: expected %d items, got %d", id, n, counts[id])
		}
	}
}

func TestListCategoriesSorting(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	for _, name := range []string{"beta", "Alpha", "gamma", "Zeta"} {
		createCategory(t, s, tenant, name)
	}

	tests := []struct {
		key   model.SortKey
		order model.SortOrder
		want  []string
	}{
		// Byte order: upper case sorts before lower case.
		{model.SortByName, model.SortAsc, []string{"Alpha", "Zeta", "beta", "gamma"}},
		{model.SortByName, model.SortDesc, []string{"gamma", "beta", "Zeta", "Alpha"}},
		{model.SortByCreatedAt, model.SortAsc, []string{"beta", "Alpha", "gamma", "Zeta"}},
		{model.SortByCreatedAt, model.SortDesc, []string{"Zeta", "gamma", "Alpha", "beta"}},
	}

	for _, tt := range tests {
		got, err := s.ListCategoriesWithCounts(ctx, tenant, tt.key, tt.order)
		if err != nil {
			t.Fatalf("ListCategoriesWithCounts(%s, %s): %v", tt.key, tt.order, err)
		}
		if !equalStrings(names(got), tt.want) {
			t.Errorf("ListCategoriesWithCounts(%s, %s) = %v, want %v", tt.key, tt.order, names(got), tt.want)
		}
	}
}

func TestListCategoriesTieBreaksOnID(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	same := clock.Now()
	for _, name := range []string{"a", "b", "c", "d"} {
		clock.Set(same)
		createCategory(t, s, tenant, name)
	}

	first, err := s.ListCategoriesWithCounts(ctx, tenant, model.SortByCreatedAt, model.SortDesc)
	if err != nil {
		t.Fatalf("ListCategoriesWithCounts: %v", err)
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].ID.String() > first[i].ID.String() {
			t.Errorf("equal timestamps not ordered by id: %s before %s", first[i-1].ID, first[i].ID)
		}
	}

	for range 5 {
		again, err := s.ListCategoriesWithCounts(ctx, tenant, model.SortByCreatedAt, model.SortDesc)
		if err != nil {
			t.Fatalf("ListCategoriesWithCounts: %v", err)
		}
		if !equalStrings(names(again), names(first)) {
			t.Fatalf("order changed between calls: %v then %v", names(first), names(again))
		}
	}
}

func TestListCategoriesTenantIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := newTenant(t, s, "alice")
	bob := newTenant(t, s, "bob")

	aliceCat := createCategory(t, s, alice, "Tools")
	createCategory(t, s, bob, "Books")

	// An item of bob's pointing at alice's category must not count.
	createItem(t, s, bob, "Hammer", nil, nil)
	if _, err := s.db.ExecContext(ctx, `UPDATE items SET category_id = ? WHERE tenant_id = ?`, aliceCat.ID, bob); err != nil {
		t.Fatalf("forging cross-tenant reference: %v", err)
	}

	got, err := s.ListCategoriesWithCounts(ctx, alice, model.SortByName, model.SortAsc)
	if err != nil {
		t.Fatalf("ListCategoriesWithCounts: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Tools" {
		t.Fatalf("expected only alice's category, got %v", names(got))
	}
	if got[0].ItemCount != 0 {
		t.Errorf("expected 0 items, got %d", got[0].ItemCount)
	}
}

func TestListCategoriesEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	tenant := newTenant(t, s, "alice")

	got, err := s.ListCategoriesWithCounts(context.Background(), tenant, model.SortByName, model.SortAsc)
	if err != nil {
		t.Fatalf("ListCategoriesWithCounts: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestInsertCategoryIfAbsent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := newTenant(t, s, "alice")
	bob := newTenant(t, s, "bob")

	c := createCategory(t, s, alice, "Outdoor Gear")
	if c.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if !c.UpdatedAt.Equal(c.CreatedAt) {
		t.Errorf("expected updated_at == created_at, got %v and %v", c.UpdatedAt, c.CreatedAt)
	}

	inserted, err := s.InsertCategoryIfAbsent(ctx, &model.Category{TenantID: alice, Name: "outdoor gear"})
	if err != nil {
		t.Fatalf("InsertCategoryIfAbsent: %v", err)
	}
	if inserted {
		t.Error("expected case-insensitive duplicate to be rejected")
	}

	exists, err := s.CategoryNameExists(ctx, alice, model.FoldName("OUTDOOR GEAR"))
	if err != nil {
		t.Fatalf("CategoryNameExists: %v", err)
	}
	if !exists {
		t.Error("expected folded name to exist")
	}

	// Another tenant may use the same name.
	createCategory(t, s, bob, "Outdoor Gear")

	got, err := s.GetCategory(ctx, alice, c.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Name != "Outdoor Gear" || !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("GetCategory = %+v, want %+v", got, c)
	}
}

func TestInsertCategoryIfAbsentConcurrent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan bool, workers)
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := s.InsertCategoryIfAbsent(ctx, &model.Category{TenantID: tenant, Name: "Camping"})
			if err != nil {
				errs <- err
				return
			}
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("InsertCategoryIfAbsent: %v", err)
	}
	var wins int
	for inserted := range results {
		if inserted {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("expected exactly 1 insert, got %d", wins)
	}

	n, err := s.CountCategories(ctx, tenant)
	if err != nil {
		t.Fatalf("CountCategories: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 category, got %d", n)
	}
}

func TestGetCategoryOtherTenant(t *testing.T) {
	s, _ := newTestStore(t)
	alice := newTenant(t, s, "alice")
	bob := newTenant(t, s, "bob")
	c := createCategory(t, s, alice, "Tools")

	_, err := s.GetCategory(context.Background(), bob, c.ID)
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

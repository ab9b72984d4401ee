package store

import (
	"context"
	"testing"

	"github.com/erazemk/shramba/internal/model"
)

func TestFindRecentItemsEnriched(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")
	other := newTenant(t, s, "bob")

	cat := createCategory(t, s, tenant, "Camping")
	box := createContainer(t, s, tenant, "Box")

	var created []*model.Item
	for _, name := range []string{"1", "2", "3", "4", "5", "6", "7"} {
		created = append(created, createItem(t, s, tenant, name, &cat.ID, &box.ID))
	}
	createItem(t, s, other, "foreign", nil, nil)
	addImage(t, s, tenant, model.EntityRef{Type: model.EntityItem, ID: created[6].ID}, "p/7.jpg")

	got, err := s.FindRecentItemsEnriched(ctx, tenant, model.RecentItemsLimit)
	if err != nil {
		t.Fatalf("FindRecentItemsEnriched: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i, want := range []string{"7", "6", "5", "4", "3"} {
		if got[i].Name != want {
			t.Errorf("position %d: expected %q, got %q", i, want, got[i].Name)
		}
		if got[i].CategoryName == nil || *got[i].CategoryName != "Camping" {
			t.Errorf("position %d: expected category name, got %v", i, got[i].CategoryName)
		}
		if got[i].ContainerName == nil || *got[i].ContainerName != "Box" {
			t.Errorf("position %d: expected container name, got %v", i, got[i].ContainerName)
		}
	}

	if got[0].ThumbnailPath == nil || *got[0].ThumbnailPath != "p/7.jpg.thumb.jpg" {
		t.Errorf("expected thumbnail path, got %v", got[0].ThumbnailPath)
	}
	if got[1].ThumbnailPath != nil {
		t.Errorf("expected no thumbnail, got %q", *got[1].ThumbnailPath)
	}
}

func TestFindRecentItemsTieBreak(t *testing.T) {
	s, clock := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	same := clock.Now()
	for _, name := range []string{"a", "b", "c"} {
		clock.Set(same)
		createItem(t, s, tenant, name, nil, nil)
	}

	got, err := s.FindRecentItemsEnriched(ctx, tenant, model.RecentItemsLimit)
	if err != nil {
		t.Fatalf("FindRecentItemsEnriched: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].ID.String() > got[i].ID.String() {
			t.Errorf("equal timestamps not ordered by id: %s before %s", got[i-1].ID, got[i].ID)
		}
	}
}

func TestFindRecentItemsDanglingReferences(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	box := createContainer(t, s, tenant, "Box")
	createItem(t, s, tenant, "Tent", nil, &box.ID)
	if err := s.DeleteContainer(ctx, tenant, box.ID); err != nil {
		t.Fatalf("DeleteContainer: %v", err)
	}

	got, err := s.FindRecentItemsEnriched(ctx, tenant, model.RecentItemsLimit)
	if err != nil {
		t.Fatalf("FindRecentItemsEnriched: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].ContainerName != nil || got[0].CategoryName != nil {
		t.Errorf("expected nil names, got %v and %v", got[0].ContainerName, got[0].CategoryName)
	}
}

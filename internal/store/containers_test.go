package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/shramba/internal/model"
)

func createContainer(t *testing.T, s *Store, tenant model.TenantID, name string) *model.Container {
	t.Helper()
	c := &model.Container{TenantID: tenant, Name: name}
	if err := s.CreateContainer(context.Background(), c); err != nil {
		t.Fatalf("CreateContainer(%q): %v", name, err)
	}
	return c
}

func TestCreateAndGetContainer(t *testing.T) {
	s, _ := newTestStore(t)
	tenant := newTenant(t, s, "alice")

	c := createContainer(t, s, tenant, "Garage Shelf")

	got, err := s.GetContainer(context.Background(), tenant, c.ID)
	if err != nil {
		t.Fatalf("GetContainer: %v", err)
	}
	if got.Name != "Garage Shelf" {
		t.Errorf("expected name 'Garage Shelf', got %q", got.Name)
	}
}

func TestListContainers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	alice := newTenant(t, s, "alice")
	bob := newTenant(t, s, "bob")

	createContainer(t, s, alice, "Box B")
	createContainer(t, s, alice, "Box A")
	createContainer(t, s, bob, "Attic")

	got, err := s.ListContainers(ctx, alice)
	if err != nil {
		t.Fatalf("ListContainers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(got))
	}
	if got[0].Name != "Box A" || got[1].Name != "Box B" {
		t.Errorf("expected [Box A, Box B], got [%s, %s]", got[0].Name, got[1].Name)
	}

	n, err := s.CountContainers(ctx, alice)
	if err != nil {
		t.Fatalf("CountContainers: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
}

func TestDeleteContainerKeepsItems(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")

	c := createContainer(t, s, tenant, "Box")
	item := createItem(t, s, tenant, "Tent", nil, &c.ID)

	if err := s.DeleteContainer(ctx, tenant, c.ID); err != nil {
		t.Fatalf("DeleteContainer: %v", err)
	}
	if err := s.DeleteContainer(ctx, tenant, c.ID); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}

	got, err := s.GetItem(ctx, tenant, item.ID)
	if err != nil {
		t.Fatalf("GetItem after container delete: %v", err)
	}
	if got.ContainerID == nil || *got.ContainerID != c.ID {
		t.Errorf("expected dangling container reference to remain, got %v", got.ContainerID)
	}
}

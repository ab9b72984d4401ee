package store

import (
	"context"
	"testing"

	"github.com/erazemk/shramba/internal/model"
)

func addImage(t *testing.T, s *Store, tenant model.TenantID, ref model.EntityRef, path string) *model.Image {
	t.Helper()
	thumb := path + ".thumb.jpg"
	img := &model.Image{
		TenantID:    tenant,
		EntityType:  ref.Type,
		EntityID:    ref.ID,
		StoragePath: path,
		ThumbPath:   &thumb,
		MIME:        "image/jpeg",
	}
	if err := s.AddImage(context.Background(), img); err != nil {
		t.Fatalf("AddImage(%q): %v", path, err)
	}
	return img
}

func TestAddImageAssignsDisplayOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	tenant := newTenant(t, s, "alice")
	item := createItem(t, s, tenant, "Tent", nil, nil)
	other := createItem(t, s, tenant, "Stove", nil, nil)
	ref := model.EntityRef{Type: model.EntityItem, ID: item.ID}

	first := addImage(t, s, tenant, ref, "a/1.jpg")
	second := addImage(t, s, tenant, ref, "a/2.jpg")
	otherFirst := addImage(t, s, tenant, model.EntityRef{Type: model.EntityItem, ID: other.ID}, "b/1.jpg")

	if first.DisplayOrder != model.ThumbnailOrder {
		t.Errorf("expected first image order %d, got %d", model.ThumbnailOrder, first.DisplayOrder)
	}
	if second.DisplayOrder != 2 {
		t.Errorf("expected second image order 2, got %d", second.DisplayOrder)
	}
	if otherFirst.DisplayOrder != model.ThumbnailOrder {
		t.Errorf("expected other entity's first image order %d, got %d", model.ThumbnailOrder, otherFirst.DisplayOrder)
	}

	images, err := s.ListImages(ctx, tenant, ref)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if len(images) != 2 || images[0].StoragePath != "a/1.jpg" || images[1].StoragePath != "a/2.jpg" {
		t.Errorf("unexpected images: %+v", images)
	}
	if images[0].Ref() != ref {
		t.Errorf("expected ref %+v, got %+v", ref, images[0].Ref())
	}
}

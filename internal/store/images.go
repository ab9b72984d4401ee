package store

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

// maxOrderAttempts bounds retries when two uploads race for the same
// display order.
const maxOrderAttempts = 3

// insertImage appends an image after the entity's existing images in one
// statement.
const insertImage = `
INSERT INTO images (id, tenant_id, entity_type, entity_id, storage_path, thumb_path, mime, display_order, created_at)
SELECT ?, ?, ?, ?, ?, ?, ?, COALESCE(MAX(display_order), 0) + 1, ?
FROM images
WHERE tenant_id = ? AND entity_type = ? AND entity_id = ?`

// insertImagePostgres is insertImage with the select list typed, since
// PostgreSQL does not infer parameter types there.
const insertImagePostgres = `
INSERT INTO images (id, tenant_id, entity_type, entity_id, storage_path, thumb_path, mime, display_order, created_at)
SELECT $1::uuid, $2::uuid, $3, $4::uuid, $5, $6, $7, COALESCE(MAX(display_order), 0) + 1, $8::timestamptz
FROM images
WHERE tenant_id = $9 AND entity_type = $10 AND entity_id = $11`

// AddImage attaches an image to an entity as its last image and fills in the
// image's ID, display order and creation time. The first image of an entity
// gets ThumbnailOrder.
func (s *Store) AddImage(ctx context.Context, img *model.Image) error {
	query := insertImage
	if s.postgres {
		query = insertImagePostgres
	}

	var err error
	for attempt := 0; attempt < maxOrderAttempts; attempt++ {
		id := uuid.New()
		now := s.timestamp()
		_, err = s.db.ExecContext(ctx, query,
			id, img.TenantID, img.EntityType, img.EntityID, img.StoragePath, img.ThumbPath, img.MIME, now,
			img.TenantID, img.EntityType, img.EntityID,
		)
		if err == nil {
			img.ID = id
			img.CreatedAt = now
			return s.loadDisplayOrder(ctx, img)
		}
		err = wrap("adding image", err)
		if !errors.Is(err, model.ErrConflict) {
			return err
		}
	}
	return err
}

func (s *Store) loadDisplayOrder(ctx context.Context, img *model.Image) error {
	query, args, err := s.sb.
		Select("display_order").
		From("images").
		Where(sq.Eq{"tenant_id": img.TenantID, "id": img.ID}).
		ToSql()
	if err != nil {
		return wrap("building image query", err)
	}
	if err := s.db.GetContext(ctx, &img.DisplayOrder, query, args...); err != nil {
		return wrap("reading image order", err)
	}
	return nil
}

// ListImages returns the images of an entity in display order.
func (s *Store) ListImages(ctx context.Context, tenant model.TenantID, ref model.EntityRef) ([]model.Image, error) {
	query, args, err := s.sb.
		Select("id", "tenant_id", "entity_type", "entity_id", "storage_path", "thumb_path", "mime", "display_order", "created_at").
		From("images").
		Where(sq.Eq{"tenant_id": tenant, "entity_type": ref.Type, "entity_id": ref.ID}).
		OrderBy("display_order").
		ToSql()
	if err != nil {
		return nil, wrap("building image list query", err)
	}

	images := []model.Image{}
	if err := s.db.SelectContext(ctx, &images, query, args...); err != nil {
		return nil, wrap("listing images", err)
	}
	return images, nil
}

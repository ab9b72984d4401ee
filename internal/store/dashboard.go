package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/shramba/internal/model"
)

// FindRecentItemsEnriched returns the tenant's newest items, newest first with
// ties broken by ascending id, each joined with its category name, container
// name and thumbnail path. A dangling reference yields a nil name.
func (s *Store) FindRecentItemsEnriched(ctx context.Context, tenant model.TenantID, limit int) ([]model.EnrichedItem, error) {
	query, args, err := s.sb.
		Select(
			"i.id", "i.tenant_id", "i.name", "i.category_id", "i.container_id", "i.is_in", "i.created_at",
			"c.name AS category_name",
			"k.name AS container_name",
			"COALESCE(img.thumb_path, img.storage_path) AS thumbnail_path",
		).
		From("items i").
		LeftJoin("categories c ON c.id = i.category_id AND c.tenant_id = i.tenant_id").
		LeftJoin("containers k ON k.id = i.container_id AND k.tenant_id = i.tenant_id").
		LeftJoin("images img ON img.tenant_id = i.tenant_id AND img.entity_type = ? AND img.entity_id = i.id AND img.display_order = ?",
			model.EntityItem, model.ThumbnailOrder).
		Where(sq.Eq{"i.tenant_id": tenant}).
		OrderBy("i.created_at DESC", "i.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, wrap("building recent items query", err)
	}

	items := []model.EnrichedItem{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, wrap("listing recent items", err)
	}
	return items, nil
}

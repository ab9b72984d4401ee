package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/shramba/internal/model"
)

// CreateItem creates an item for item.TenantID and fills in its ID and
// creation time. A category or container reference must name an entity of the
// same tenant.
func (s *Store) CreateItem(ctx context.Context, item *model.Item) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap("beginning transaction", err)
	}
	defer tx.Rollback()

	if item.CategoryID != nil {
		if err := s.requireRef(ctx, tx, "categories", item.TenantID, *item.CategoryID); err != nil {
			return fmt.Errorf("checking category: %w", err)
		}
	}
	if item.ContainerID != nil {
		if err := s.requireRef(ctx, tx, "containers", item.TenantID, *item.ContainerID); err != nil {
			return fmt.Errorf("checking container: %w", err)
		}
	}

	id := uuid.New()
	now := s.timestamp()
	query, args, err := s.sb.
		Insert("items").
		Columns("id", "tenant_id", "name", "category_id", "container_id", "is_in", "created_at").
		Values(id, item.TenantID, item.Name, item.CategoryID, item.ContainerID, item.IsIn, now).
		ToSql()
	if err != nil {
		return wrap("building item insert", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return wrap("creating item", err)
	}
	if err := tx.Commit(); err != nil {
		return wrap("committing item", err)
	}

	item.ID = id
	item.CreatedAt = now
	return nil
}

// requireRef returns ErrNotFound unless table has a row with the given id for
// the tenant.
func (s *Store) requireRef(ctx context.Context, tx *sqlx.Tx, table string, tenant model.TenantID, id uuid.UUID) error {
	query, args, err := s.sb.
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"tenant_id": tenant, "id": id}).
		ToSql()
	if err != nil {
		return wrap("building reference query", err)
	}

	var n int64
	if err := tx.GetContext(ctx, &n, query, args...); err != nil {
		return wrap("looking up reference", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, model.ErrNotFound)
	}
	return nil
}

// GetItem returns one of the tenant's items.
func (s *Store) GetItem(ctx context.Context, tenant model.TenantID, id uuid.UUID) (*model.Item, error) {
	query, args, err := s.sb.
		Select("id", "tenant_id", "name", "category_id", "container_id", "is_in", "created_at").
		From("items").
		Where(sq.Eq{"tenant_id": tenant, "id": id}).
		ToSql()
	if err != nil {
		return nil, wrap("building item query", err)
	}

	item := &model.Item{}
	if err := s.db.GetContext(ctx, item, query, args...); err != nil {
		return nil, wrap("getting item", err)
	}
	return item, nil
}

// SetItemIn records whether an item is currently in storage.
func (s *Store) SetItemIn(ctx context.Context, tenant model.TenantID, id uuid.UUID, in bool) error {
	query, args, err := s.sb.
		Update("items").
		Set("is_in", in).
		Where(sq.Eq{"tenant_id": tenant, "id": id}).
		ToSql()
	if err != nil {
		return wrap("building item update", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap("updating item status", err)
	}
	return requireAffected("updating item status", result)
}

// CountItems returns the number of items the tenant has.
func (s *Store) CountItems(ctx context.Context, tenant model.TenantID) (int64, error) {
	return s.count(ctx, "counting items", "items", sq.Eq{"tenant_id": tenant})
}

// CountItemsNotIn returns the number of the tenant's items that are currently
// taken out of storage.
func (s *Store) CountItemsNotIn(ctx context.Context, tenant model.TenantID) (int64, error) {
	return s.count(ctx, "counting items out", "items", sq.Eq{"tenant_id": tenant, "is_in": false})
}

package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

// ListCategoriesWithCounts returns all of a tenant's categories with the
// number of items referencing each, in one grouped query. Ties on the sort key
// are broken by ascending id.
func (s *Store) ListCategoriesWithCounts(ctx context.Context, tenant model.TenantID, key model.SortKey, order model.SortOrder) ([]model.CategorySummary, error) {
	sortExpr := s.nameOrdering("c.name")
	if key == model.SortByCreatedAt {
		sortExpr = "c.created_at"
	}
	dir := "ASC"
	if order == model.SortDesc {
		dir = "DESC"
	}

	query, args, err := s.sb.
		Select("c.id", "c.tenant_id", "c.name", "c.created_at", "c.updated_at", "COUNT(i.id) AS item_count").
		From("categories c").
		LeftJoin("items i ON i.category_id = c.id AND i.tenant_id = c.tenant_id").
		Where(sq.Eq{"c.tenant_id": tenant}).
		GroupBy("c.id", "c.tenant_id", "c.name", "c.created_at", "c.updated_at").
		OrderBy(sortExpr+" "+dir, "c.id ASC").
		ToSql()
	if err != nil {
		return nil, wrap("building category list query", err)
	}

	categories := []model.CategorySummary{}
	if err := s.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, wrap("listing categories", err)
	}
	return categories, nil
}

// CategoryNameExists reports whether the tenant has a category whose folded
// name equals nameKey.
func (s *Store) CategoryNameExists(ctx context.Context, tenant model.TenantID, nameKey string) (bool, error) {
	query, args, err := s.sb.
		Select("COUNT(*)").
		From("categories").
		Where(sq.Eq{"tenant_id": tenant, "name_key": nameKey}).
		ToSql()
	if err != nil {
		return false, wrap("building category lookup query", err)
	}

	var n int64
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, wrap("checking category name", err)
	}
	return n > 0, nil
}

// InsertCategoryIfAbsent atomically inserts a category unless the tenant
// already has one with the same folded name. It fills in ID and timestamps
// and reports whether the row was inserted. Concurrent callers with the same
// name see exactly one true.
func (s *Store) InsertCategoryIfAbsent(ctx context.Context, c *model.Category) (bool, error) {
	now := s.timestamp()
	id := uuid.New()

	query, args, err := s.sb.
		Insert("categories").
		Columns("id", "tenant_id", "name", "name_key", "created_at", "updated_at").
		Values(id, c.TenantID, c.Name, model.FoldName(c.Name), now, now).
		Suffix("ON CONFLICT (tenant_id, name_key) DO NOTHING").
		ToSql()
	if err != nil {
		return false, wrap("building category insert", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, wrap("creating category", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, wrap("creating category", err)
	}
	if n == 0 {
		return false, nil
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return true, nil
}

// GetCategory returns one of the tenant's categories.
func (s *Store) GetCategory(ctx context.Context, tenant model.TenantID, id uuid.UUID) (*model.Category, error) {
	query, args, err := s.sb.
		Select("id", "tenant_id", "name", "created_at", "updated_at").
		From("categories").
		Where(sq.Eq{"tenant_id": tenant, "id": id}).
		ToSql()
	if err != nil {
		return nil, wrap("building category query", err)
	}

	c := &model.Category{}
	if err := s.db.GetContext(ctx, c, query, args...); err != nil {
		return nil, wrap("getting category", err)
	}
	return c, nil
}

// CountCategories returns the number of categories the tenant has.
func (s *Store) CountCategories(ctx context.Context, tenant model.TenantID) (int64, error) {
	return s.count(ctx, "counting categories", "categories", sq.Eq{"tenant_id": tenant})
}

// count runs SELECT COUNT(*) over a table.
func (s *Store) count(ctx context.Context, op, table string, where sq.Sqlizer) (int64, error) {
	query, args, err := s.sb.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, wrap(op, err)
	}

	var n int64
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/erazemk/shramba/internal/model"
)

// CreateContainer creates a container for c.TenantID and fills in its ID and
// creation time.
func (s *Store) CreateContainer(ctx context.Context, c *model.Container) error {
	c.ID = uuid.New()
	c.CreatedAt = s.timestamp()

	query, args, err := s.sb.
		Insert("containers").
		Columns("id", "tenant_id", "name", "created_at").
		Values(c.ID, c.TenantID, c.Name, c.CreatedAt).
		ToSql()
	if err != nil {
		return wrap("building container insert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return wrap("creating container", err)
	}
	return nil
}

// GetContainer returns one of the tenant's containers.
func (s *Store) GetContainer(ctx context.Context, tenant model.TenantID, id uuid.UUID) (*model.Container, error) {
	query, args, err := s.sb.
		Select("id", "tenant_id", "name", "created_at").
		From("containers").
		Where(sq.Eq{"tenant_id": tenant, "id": id}).
		ToSql()
	if err != nil {
		return nil, wrap("building container query", err)
	}

	c := &model.Container{}
	if err := s.db.GetContext(ctx, c, query, args...); err != nil {
		return nil, wrap("getting container", err)
	}
	return c, nil
}

// ListContainers returns the tenant's containers ordered by name.
func (s *Store) ListContainers(ctx context.Context, tenant model.TenantID) ([]model.Container, error) {
	query, args, err := s.sb.
		Select("id", "tenant_id", "name", "created_at").
		From("containers").
		Where(sq.Eq{"tenant_id": tenant}).
		OrderBy(s.nameOrdering("name"), "id").
		ToSql()
	if err != nil {
		return nil, wrap("building container list query", err)
	}

	containers := []model.Container{}
	if err := s.db.SelectContext(ctx, &containers, query, args...); err != nil {
		return nil, wrap("listing containers", err)
	}
	return containers, nil
}

// DeleteContainer removes a container. Items that were in it keep their
// container reference, which from then on resolves to nothing.
func (s *Store) DeleteContainer(ctx context.Context, tenant model.TenantID, id uuid.UUID) error {
	query, args, err := s.sb.
		Delete("containers").
		Where(sq.Eq{"tenant_id": tenant, "id": id}).
		ToSql()
	if err != nil {
		return wrap("building container delete", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap("deleting container", err)
	}
	return requireAffected("deleting container", result)
}

// CountContainers returns the number of containers the tenant has.
func (s *Store) CountContainers(ctx context.Context, tenant model.TenantID) (int64, error) {
	return s.count(ctx, "counting containers", "containers", sq.Eq{"tenant_id": tenant})
}

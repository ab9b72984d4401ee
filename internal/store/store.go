package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/shramba/internal/db"
)

// Store reads and writes tenant data. Every query filters on the tenant it is
// given; no method ever returns rows belonging to another tenant.
type Store struct {
	db       *sqlx.DB
	sb       sq.StatementBuilderType
	postgres bool
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store over an open database.
func New(database *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:  database,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now: time.Now,
	}
	if database.DriverName() == db.DriverPostgres {
		s.postgres = true
		s.sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying database handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// timestamp returns the current time in the precision both dialects keep.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// nameOrdering is the expression categories are sorted by when sorting by
// name: byte order of the stored name, identical across dialects.
func (s *Store) nameOrdering(column string) string {
	if s.postgres {
		return column + ` COLLATE "C"`
	}
	return column + " COLLATE BINARY"
}

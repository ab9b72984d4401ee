package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// sqliteSchema is the full SQLite schema.
//
// tenant_id columns reference users: every user is a tenant. Items reference
// categories and containers without foreign keys, so removing either never
// removes items.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id         TEXT PRIMARY KEY,
    tenant_id  TEXT NOT NULL REFERENCES users(id),
    name       TEXT NOT NULL CHECK (length(name) BETWEEN 1 AND 255),
    name_key   TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL CHECK (updated_at >= created_at)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_tenant_name_key
    ON categories(tenant_id, name_key);

CREATE TABLE IF NOT EXISTS containers (
    id         TEXT PRIMARY KEY,
    tenant_id  TEXT NOT NULL REFERENCES users(id),
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_containers_tenant ON containers(tenant_id);

CREATE TABLE IF NOT EXISTS items (
    id           TEXT PRIMARY KEY,
    tenant_id    TEXT NOT NULL REFERENCES users(id),
    name         TEXT NOT NULL,
    category_id  TEXT,
    container_id TEXT,
    is_in        BOOLEAN NOT NULL DEFAULT 1,
    created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_tenant ON items(tenant_id);
CREATE INDEX IF NOT EXISTS idx_items_tenant_is_in ON items(tenant_id, is_in);
CREATE INDEX IF NOT EXISTS idx_items_tenant_created ON items(tenant_id, created_at);
CREATE INDEX IF NOT EXISTS idx_items_tenant_category ON items(tenant_id, category_id);

CREATE TABLE IF NOT EXISTS images (
    id            TEXT PRIMARY KEY,
    tenant_id     TEXT NOT NULL REFERENCES users(id),
    entity_type   TEXT NOT NULL CHECK (entity_type IN ('item', 'container')),
    entity_id     TEXT NOT NULL,
    storage_path  TEXT NOT NULL UNIQUE,
    thumb_path    TEXT,
    mime          TEXT NOT NULL,
    display_order INTEGER NOT NULL CHECK (display_order > 0),
    created_at    DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_images_entity_order
    ON images(tenant_id, entity_type, entity_id, display_order);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// postgresSchema mirrors sqliteSchema with native types.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id         UUID PRIMARY KEY,
    tenant_id  UUID NOT NULL REFERENCES users(id),
    name       TEXT NOT NULL CHECK (char_length(name) BETWEEN 1 AND 255),
    name_key   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL CHECK (updated_at >= created_at)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_tenant_name_key
    ON categories(tenant_id, name_key);

CREATE TABLE IF NOT EXISTS containers (
    id         UUID PRIMARY KEY,
    tenant_id  UUID NOT NULL REFERENCES users(id),
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_containers_tenant ON containers(tenant_id);

CREATE TABLE IF NOT EXISTS items (
    id           UUID PRIMARY KEY,
    tenant_id    UUID NOT NULL REFERENCES users(id),
    name         TEXT NOT NULL,
    category_id  UUID,
    container_id UUID,
    is_in        BOOLEAN NOT NULL DEFAULT TRUE,
    created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_tenant ON items(tenant_id);
CREATE INDEX IF NOT EXISTS idx_items_tenant_is_in ON items(tenant_id, is_in);
CREATE INDEX IF NOT EXISTS idx_items_tenant_created ON items(tenant_id, created_at);
CREATE INDEX IF NOT EXISTS idx_items_tenant_category ON items(tenant_id, category_id);

CREATE TABLE IF NOT EXISTS images (
    id            UUID PRIMARY KEY,
    tenant_id     UUID NOT NULL REFERENCES users(id),
    entity_type   TEXT NOT NULL CHECK (entity_type IN ('item', 'container')),
    entity_id     UUID NOT NULL,
    storage_path  TEXT NOT NULL UNIQUE,
    thumb_path    TEXT,
    mime          TEXT NOT NULL,
    display_order INTEGER NOT NULL CHECK (display_order > 0),
    created_at    TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_images_entity_order
    ON images(tenant_id, entity_type, entity_id, display_order);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single physical thing being tracked. Category and container are
// weak references: deleting either leaves the item in place.
type Item struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	TenantID    TenantID   `json:"-" db:"tenant_id"`
	Name        string     `json:"name" db:"name"`
	CategoryID  *uuid.UUID `json:"category_id" db:"category_id"`
	ContainerID *uuid.UUID `json:"container_id" db:"container_id"`
	IsIn        bool       `json:"is_in" db:"is_in"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// EnrichedItem is an item joined with the names of its category and container
// and the storage path of its thumbnail image. Any of the joined values is nil
// when the reference is unset or dangling.
type EnrichedItem struct {
	Item
	CategoryName  *string `db:"category_name"`
	ContainerName *string `db:"container_name"`
	ThumbnailPath *string `db:"thumbnail_path"`
}

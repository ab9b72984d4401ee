package model

import (
	"time"

	"github.com/google/uuid"
)

// EntityType tags the kind of entity an image is attached to.
type EntityType string

// Entity types that can carry images.
const (
	EntityItem      EntityType = "item"
	EntityContainer EntityType = "container"
)

// ThumbnailOrder is the display order of the image used as an entity's thumbnail.
const ThumbnailOrder = 1

// EntityRef is a weak reference to an image owner. It is resolved by lookup
// and never implies ownership of the image row.
type EntityRef struct {
	Type EntityType
	ID   uuid.UUID
}

// Image is a stored picture of an item or container.
type Image struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TenantID     TenantID   `json:"-" db:"tenant_id"`
	EntityType   EntityType `json:"entity_type" db:"entity_type"`
	EntityID     uuid.UUID  `json:"entity_id" db:"entity_id"`
	StoragePath  string     `json:"storage_path" db:"storage_path"`
	ThumbPath    *string    `json:"thumb_path,omitempty" db:"thumb_path"`
	MIME         string     `json:"mime" db:"mime"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Ref returns the weak reference to the image's owner.
func (i *Image) Ref() EntityRef {
	return EntityRef{Type: i.EntityType, ID: i.EntityID}
}

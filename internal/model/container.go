package model

import (
	"time"

	"github.com/google/uuid"
)

// Container is a storage location (box, shelf, drawer) that can hold items.
type Container struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  TenantID  `json:"-" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

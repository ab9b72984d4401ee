package model

import "github.com/google/uuid"

// TenantID identifies the account whose data an operation is scoped to.
// Every user is its own tenant.
type TenantID = uuid.UUID

package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// MaxCategoryNameLength is the maximum category name length in characters.
const MaxCategoryNameLength = 255

// Category groups items. Names are unique per tenant under case folding.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  TenantID  `json:"-" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CategorySummary is a category with the number of items referencing it.
type CategorySummary struct {
	Category
	ItemCount int64 `json:"item_count" db:"item_count"`
}

// SortKey selects the field categories are ordered by.
type SortKey string

// Category sort keys.
const (
	SortByName      SortKey = "name"
	SortByCreatedAt SortKey = "createdAt"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortKey validates a sort key. An empty string selects SortByName.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByName, nil
	case SortByName, SortByCreatedAt:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: sort must be one of: name, createdAt", ErrValidationFailed)
}

// ParseSortOrder validates a sort direction. An empty string selects SortAsc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case "":
		return SortAsc, nil
	case SortAsc, SortDesc:
		return SortOrder(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("%w: order must be one of: asc, desc", ErrValidationFailed)
}

// NormalizeCategoryName trims surrounding whitespace and checks the result is
// 1 to MaxCategoryNameLength printable characters. The returned name is the
// form that is stored.
func NormalizeCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name required", ErrValidationFailed)
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", fmt.Errorf("%w: name longer than %d characters", ErrValidationFailed, MaxCategoryNameLength)
	}
	for _, r := range name {
		if r == utf8.RuneError || !unicode.IsPrint(r) {
			return "", fmt.Errorf("%w: name contains non-printable characters", ErrValidationFailed)
		}
	}
	return name, nil
}

// FoldName returns the uniqueness key of a category name: the trimmed name
// under Unicode full case folding. It does not depend on locale.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

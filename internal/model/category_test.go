package model

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"Outdoor Gear", "Outdoor Gear", false},
		{"  outdoor gear ", "outdoor gear", false},
		{"\tTools\n", "Tools", false},
		{"", "", true},
		{"   ", "", true},
		{strings.Repeat("a", MaxCategoryNameLength), strings.Repeat("a", MaxCategoryNameLength), false},
		{strings.Repeat("a", MaxCategoryNameLength+1), "", true},
		// Length is measured in characters.
		{strings.Repeat("ž", MaxCategoryNameLength), strings.Repeat("ž", MaxCategoryNameLength), false},
		{"bad\x00name", "", true},
		{"bad\u200bname", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeCategoryName(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("NormalizeCategoryName(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("NormalizeCategoryName(%q) error = %v, want ErrValidationFailed", tt.raw, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeCategoryName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct {
		a, b  string
		equal bool
	}{
		{"Outdoor Gear", "outdoor gear ", true},
		{"CAMPING", "camping", true},
		{"Škatle", "škatle", true},
		{"Camping", "Camping 2", false},
	}

	for _, tt := range tests {
		got := FoldName(tt.a) == FoldName(tt.b)
		if got != tt.equal {
			t.Errorf("FoldName(%q) == FoldName(%q) is %v, want %v", tt.a, tt.b, got, tt.equal)
		}
	}
}

func TestParseSort(t *testing.T) {
	key, err := ParseSortKey("")
	if err != nil || key != SortByName {
		t.Errorf("ParseSortKey(\"\") = %q, %v; want name", key, err)
	}
	key, err = ParseSortKey("createdAt")
	if err != nil || key != SortByCreatedAt {
		t.Errorf("ParseSortKey(createdAt) = %q, %v", key, err)
	}
	if _, err := ParseSortKey("item_count"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("ParseSortKey(item_count) error = %v, want ErrValidationFailed", err)
	}

	order, err := ParseSortOrder("DESC")
	if err != nil || order != SortDesc {
		t.Errorf("ParseSortOrder(DESC) = %q, %v", order, err)
	}
	order, err = ParseSortOrder("")
	if err != nil || order != SortAsc {
		t.Errorf("ParseSortOrder(\"\") = %q, %v", order, err)
	}
	if _, err := ParseSortOrder("up"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("ParseSortOrder(up) error = %v, want ErrValidationFailed", err)
	}
}

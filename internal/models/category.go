package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyName = errors.New("category name is required")

// Uncategorized is the display fallback for a missing category.
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#CBD5E1"
)

// Category labels transactions of one type.
type Category struct {
	ID string `json:"id"`

	Name string `json:"name"`

	// Color and Icon are display hints only.
	Color string `json:"color"`
	Icon  string `json:"icon"`

	// Type constrains which transactions may reference this category.
	Type TransactionType `json:"type"`

	UserID string `json:"userId"`
}

// NewCategory holds the user-supplied fields of a category to add.
type NewCategory struct {
	Name  string
	Color string
	Icon  string
	Type  TransactionType
}

// CategoryPatch is a partial update. Nil fields keep their current value.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
	Type  *TransactionType
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil && p.Icon == nil && p.Type == nil
}

func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	return c
}

func (c Category) Fields() NewCategory {
	return NewCategory{Name: c.Name, Color: c.Color, Icon: c.Icon, Type: c.Type}
}

func (n NewCategory) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return ErrEmptyName
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	return nil
}

package domain

import "errors"

// MenuCategory groups menu items. Names are unique across the catalog.
type MenuCategory struct {
	ID        int64
	Name      string
	SortOrder int
	Items     []MenuItem
}

// MenuItem is one sellable entry. Its price is stored as a whole integer
// currency unit (no cents); names are unique within a category.
type MenuItem struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	PriceEGP    int64
	Sizes       []MenuSize
	IsAvailable bool
	SortOrder   int
}

// MenuSize is an optional structured size/price variant of a menu item.
type MenuSize struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrNegativePrice    = errors.New("price must be zero or positive")
)

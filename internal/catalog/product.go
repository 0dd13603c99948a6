// Package catalog holds the product catalog: the Product domain type,
// its validation rules, and the Store implementations backing it.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned by RemoveStock when the
	// conditional decrement would take stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Category is the fixed product taxonomy.
type Category string

const (
	CategoryGhee    Category = "ghee"
	CategoryDairy   Category = "dairy"
	CategoryOrganic Category = "organic"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGhee, CategoryDairy, CategoryOrganic:
		return true
	}
	return false
}

// Badge is an optional promotional label.
type Badge string

const (
	BadgeBestseller Badge = "Bestseller"
	BadgeValuePack  Badge = "Value Pack"
	BadgeFamilyPack Badge = "Family Pack"
	BadgeNew        Badge = "New"
	BadgeLimited    Badge = "Limited"
)

func (b Badge) Valid() bool {
	switch b {
	case "", BadgeBestseller, BadgeValuePack, BadgeFamilyPack, BadgeNew, BadgeLimited:
		return true
	}
	return false
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Size          string    `json:"size"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice,omitempty"`
	Image         string    `json:"image"`
	Category      Category  `json:"category"`
	Stock         int       `json:"stock"`
	// InStock is derived: it must equal Stock > 0 after every stock
	// mutation. Stores recompute it, callers never set it directly.
	InStock   bool      `json:"inStock"`
	Rating    float64   `json:"rating"`
	Reviews   int       `json:"reviews"`
	Badge     Badge     `json:"badge,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the invariants a product must satisfy before it is
// persisted. Field errors are reported one at a time, mirroring the
// store's single-message error envelope.
func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("price must not be negative")
	}
	if p.Stock < 0 {
		return errors.New("stock must not be negative")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("invalid category: %s", p.Category)
	}
	if !p.Badge.Valid() {
		return fmt.Errorf("invalid badge: %s", p.Badge)
	}
	return nil
}

// Update carries the mutable fields of a product. Nil pointers leave the
// corresponding field untouched.
type Update struct {
	Name          *string
	Description   *string
	Size          *string
	Price         *float64
	OriginalPrice *float64
	Image         *string
	Category      *Category
	Rating        *float64
	Reviews       *int
	Badge         *Badge
}

// Sort keys accepted by List. Anything else falls back to SortName.
const (
	SortName      = ""
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// ListOptions filters and orders the active catalog.
type ListOptions struct {
	Category Category
	InStock  bool // when true, only products with stock on hand
	SortBy   string
	Limit    int // zero means the default page size of 50, negative means no limit
}

// DefaultListLimit bounds unpaginated catalog reads.
const DefaultListLimit = 50

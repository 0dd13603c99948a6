// Package customer holds customer identity, addresses, and the aggregate
// spend counters maintained by the checkout workflow.
package customer

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("customer not found")

// AddressType tags a saved address.
type AddressType string

const (
	AddressHome  AddressType = "home"
	AddressWork  AddressType = "work"
	AddressOther AddressType = "other"
)

type Address struct {
	Type      AddressType `json:"type"`
	Address   string      `json:"address"`
	City      string      `json:"city,omitempty"`
	State     string      `json:"state,omitempty"`
	Pincode   string      `json:"pincode,omitempty"`
	IsDefault bool        `json:"isDefault"`
}

// Status is the account standing of a customer.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusBlocked  Status = "blocked"
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses"`
	// Orders holds the ids of orders placed under this email,
	// oldest first.
	Orders        []string  `json:"orders"`
	TotalOrders   int       `json:"totalOrders"`
	TotalSpent    float64   `json:"totalSpent"`
	LoyaltyPoints int       `json:"loyaltyPoints"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Contact is the frozen contact block a checkout request carries. The
// upsert seeds new customer records from it.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NormalizeEmail is applied at every store entry point so the unique
// email key is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Update carries the mutable profile fields. Nil pointers are untouched.
type Update struct {
	Name          *string
	Phone         *string
	Status        *Status
	LoyaltyPoints *int
}

// ListOptions filters the customer list. Search matches a
// case-insensitive substring of name, email, or phone.
type ListOptions struct {
	Search string
	Limit  int
	Page   int
}

// TopCustomer is a stats-overview row.
type TopCustomer struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TotalSpent  float64 `json:"totalSpent"`
	TotalOrders int     `json:"totalOrders"`
}

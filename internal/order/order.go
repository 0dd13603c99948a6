// Package order holds placed orders: embedded line items, the frozen
// customer contact snapshot, and the human-readable order number.
package order

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("order not found")

// NumberPrefix is the fixed business code on every order number.
const NumberPrefix = "SRR"

// FormatNumber renders the nth order number, e.g. SRR000042.
func FormatNumber(n int64) string {
	return fmt.Sprintf("%s%06d", NumberPrefix, n)
}

// Status is the fulfillment state. Transitions are admin-driven and
// unordered; only membership is validated.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentUPI          PaymentMethod = "upi"
	PaymentCard         PaymentMethod = "card"
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Contact is the customer block frozen onto an order at creation time.
// Later customer profile edits never change past orders.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Item is one order line. Price is the unit price at order time and
// Total the line total; Name snapshots the product name.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	Customer      Contact       `json:"customer"`
	Items         []Item        `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Shipping      float64       `json:"shipping"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes,omitempty"`
	TrackingNumber string       `json:"trackingNumber,omitempty"`
	DeliveredAt   *time.Time    `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RecomputeTotals rebuilds the money fields from the line items. It runs
// synchronously before the order is durably stored, so total ==
// subtotal + shipping + tax always holds for persisted orders.
func (o *Order) RecomputeTotals() {
	subtotal := 0.0
	for _, it := range o.Items {
		subtotal += it.Total
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal + o.Shipping + o.Tax
}

// ListOptions filters the admin order list.
type ListOptions struct {
	Status Status
	Limit  int
	Page   int
}

// ProductSales is a top-products aggregation row.
type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitsSold int     `json:"totalSold"`
	Revenue   float64 `json:"revenue"`
}

// DailySales is one calendar-day bucket of the sales time series.
type DailySales struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

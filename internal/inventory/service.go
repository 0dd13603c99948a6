// Package inventory is the admin view over catalog stock: the summary
// overview, restocks, and low-stock alerts.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/srrfarms/storefront/internal/catalog"
)

// Summary is the aggregate block of the inventory overview. TotalValue
// is stock on hand priced at the current selling price.
type Summary struct {
	TotalProducts   int     `json:"totalProducts"`
	LowStockCount   int     `json:"lowStockCount"`
	OutOfStockCount int     `json:"outOfStockCount"`
	TotalValue      float64 `json:"totalValue"`
}

// Overview lists every active product scarcest first, the summary, and
// the low and out-of-stock subsets. The low-stock list includes
// products that are fully out of stock.
type Overview struct {
	Products           []catalog.Product `json:"products"`
	Summary            Summary           `json:"summary"`
	LowStockProducts   []catalog.Product `json:"lowStockProducts"`
	OutOfStockProducts []catalog.Product `json:"outOfStockProducts"`
}

// Alert flags one product at or under the low-stock threshold.
type Alert struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

type Service struct {
	Catalog catalog.Store
}

// Overview builds the stock report over all active products, sorted by
// stock ascending so the scarcest items surface first.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	products, err := s.Catalog.List(ctx, catalog.ListOptions{Limit: -1})
	if err != nil {
		return nil, fmt.Errorf("inventory: list products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Stock < products[j].Stock
	})

	ov := &Overview{
		Products:           products,
		LowStockProducts:   []catalog.Product{},
		OutOfStockProducts: []catalog.Product{},
	}
	ov.Summary.TotalProducts = len(products)
	for _, p := range products {
		ov.Summary.TotalValue += float64(p.Stock) * p.Price
		if p.Stock <= catalog.LowStockThreshold {
			ov.LowStockProducts = append(ov.LowStockProducts, p)
		}
		if p.Stock == 0 {
			ov.OutOfStockProducts = append(ov.OutOfStockProducts, p)
		}
	}
	ov.Summary.LowStockCount = len(ov.LowStockProducts)
	ov.Summary.OutOfStockCount = len(ov.OutOfStockProducts)

	return ov, nil
}

// Restock adds quantity to a product. Quantity must be positive; stock
// corrections downward go through the catalog update endpoint instead.
func (s *Service) Restock(ctx context.Context, productID string, quantity int) (*catalog.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("inventory: restock quantity must be positive")
	}
	p, err := s.Catalog.AddStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Alerts lists active products at or below the low-stock threshold,
// out-of-stock ones included.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	products, err := s.Catalog.LowStock(ctx, catalog.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("inventory: low stock: %w", err)
	}
	alerts := make([]Alert, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, Alert{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			Threshold: catalog.LowStockThreshold,
		})
	}
	return alerts, nil
}

// Package analytics aggregates admin dashboard numbers over the
// catalog, customer, and order stores.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/order"
)

// Period selects the sales report window.
type Period string

const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"

	DefaultPeriod = Period30d
)

func (p Period) days() (int, bool) {
	switch p {
	case Period7d:
		return 7, true
	case Period30d:
		return 30, true
	case Period90d:
		return 90, true
	}
	return 0, false
}

// Overview is the headline block of the dashboard.
type Overview struct {
	TotalOrders           int     `json:"totalOrders"`
	MonthlyOrders         int     `json:"monthlyOrders"`
	OrderGrowth           float64 `json:"orderGrowth"`
	TotalRevenue          float64 `json:"totalRevenue"`
	MonthlyRevenue        float64 `json:"monthlyRevenue"`
	TotalCustomers        int     `json:"totalCustomers"`
	NewCustomersThisMonth int     `json:"newCustomersThisMonth"`
	TotalProducts         int     `json:"totalProducts"`
	LowStockProducts      int     `json:"lowStockProducts"`
}

// Dashboard is the full admin dashboard payload.
type Dashboard struct {
	Overview     Overview             `json:"overview"`
	TopProducts  []order.ProductSales `json:"topProducts"`
	RecentOrders []order.Order        `json:"recentOrders"`
}

// SalesReport is the per-day sales series for one period.
type SalesReport struct {
	Period Period             `json:"period"`
	Sales  []order.DailySales `json:"sales"`
}

// Service computes reports on demand; nothing is cached or
// materialized, every call reads the stores.
type Service struct {
	Catalog   catalog.Store
	Customers customer.Store
	Orders    order.Store
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Dashboard builds the admin overview. Growth compares this calendar
// month's order count against last month's and is 0 when last month had
// no orders at all.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	totalOrders, err := s.Orders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: count orders: %w", err)
	}
	monthlyOrders, err := s.Orders.CountBetween(ctx, monthStart, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("analytics: count monthly orders: %w", err)
	}
	prevMonthOrders, err := s.Orders.CountBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, fmt.Errorf("analytics: count prior month orders: %w", err)
	}

	totalRevenue, err := s.Orders.Revenue(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("analytics: total revenue: %w", err)
	}
	monthlyRevenue, err := s.Orders.Revenue(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("analytics: monthly revenue: %w", err)
	}

	totalCustomers, err := s.Customers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: count customers: %w", err)
	}
	newCustomers, err := s.Customers.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("analytics: count new customers: %w", err)
	}

	totalProducts, err := s.Catalog.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: count products: %w", err)
	}
	lowStock, err := s.Catalog.CountLowStock(ctx, catalog.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("analytics: count low stock: %w", err)
	}

	topProducts, err := s.Orders.TopProducts(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("analytics: top products: %w", err)
	}
	recent, err := s.Orders.Recent(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("analytics: recent orders: %w", err)
	}

	return &Dashboard{
		Overview: Overview{
			TotalOrders:           totalOrders,
			MonthlyOrders:         monthlyOrders,
			OrderGrowth:           growth(monthlyOrders, prevMonthOrders),
			TotalRevenue:          totalRevenue,
			MonthlyRevenue:        monthlyRevenue,
			TotalCustomers:        totalCustomers,
			NewCustomersThisMonth: newCustomers,
			TotalProducts:         totalProducts,
			LowStockProducts:      lowStock,
		},
		TopProducts:  topProducts,
		RecentOrders: recent,
	}, nil
}

// Sales returns the daily series for the requested period. An empty or
// unknown period falls back to 30 days.
func (s *Service) Sales(ctx context.Context, period Period) (*SalesReport, error) {
	days, ok := period.days()
	if !ok {
		period = DefaultPeriod
		days, _ = period.days()
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	sales, err := s.Orders.SalesByDay(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("analytics: sales by day: %w", err)
	}
	return &SalesReport{Period: period, Sales: sales}, nil
}

// growth is the month-over-month percentage change, one decimal place.
// A zero prior month yields 0 rather than a division blowup.
func growth(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	pct := float64(current-previous) / float64(previous) * 100
	return math.Round(pct*10) / 10
}

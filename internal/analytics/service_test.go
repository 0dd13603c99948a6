package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/order"
)

var now = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, *catalog.MemStore, *customer.MemStore, *order.MemStore) {
	t.Helper()
	cat := catalog.NewMemStore()
	cust := customer.NewMemStore()
	ord := order.NewMemStore()
	svc := &Service{
		Catalog:   cat,
		Customers: cust,
		Orders:    ord,
		Now:       func() time.Time { return now },
	}
	return svc, cat, cust, ord
}

func placeOrder(t *testing.T, ord *order.MemStore, createdAt time.Time, total float64) *order.Order {
	t.Helper()
	o := &order.Order{
		Customer:  order.Contact{Name: "n", Email: "e@x.com", Phone: "p", Address: "a"},
		Items:     []order.Item{{ProductID: "p1", Name: "Ghee", Quantity: 1, Price: total, Total: total}},
		CreatedAt: createdAt,
	}
	require.NoError(t, ord.Create(context.Background(), o))
	return o
}

func TestDashboardGrowthZeroWhenPriorMonthEmpty(t *testing.T) {
	svc, _, _, ord := newService(t)

	placeOrder(t, ord, now.AddDate(0, 0, -1), 100)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Overview.MonthlyOrders)
	assert.Equal(t, 0.0, d.Overview.OrderGrowth)
}

func TestDashboardGrowthRoundedToOneDecimal(t *testing.T) {
	svc, _, _, ord := newService(t)

	// two orders in July, three in August: +50%
	july := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	placeOrder(t, ord, july, 100)
	placeOrder(t, ord, july.AddDate(0, 0, 1), 100)
	for i := 0; i < 3; i++ {
		placeOrder(t, ord, now.AddDate(0, 0, -i), 100)
	}

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d.Overview.MonthlyOrders)
	assert.Equal(t, 50.0, d.Overview.OrderGrowth)
	assert.Equal(t, 5, d.Overview.TotalOrders)
}

func TestDashboardRevenueExcludesCancelled(t *testing.T) {
	svc, _, _, ord := newService(t)
	ctx := context.Background()

	placeOrder(t, ord, now.AddDate(0, 0, -1), 1000)
	old := placeOrder(t, ord, now.AddDate(0, -2, 0), 500)
	cancelled := placeOrder(t, ord, now.AddDate(0, 0, -2), 999)
	_, err := ord.UpdateStatus(ctx, cancelled.ID, order.StatusCancelled, "")
	require.NoError(t, err)
	_ = old

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, d.Overview.TotalRevenue)
	assert.Equal(t, 1000.0, d.Overview.MonthlyRevenue)
}

func TestDashboardProductAndCustomerCounts(t *testing.T) {
	svc, cat, cust, ord := newService(t)
	ctx := context.Background()

	require.NoError(t, cat.Create(ctx, &catalog.Product{Name: "Scarce", Price: 1, Stock: 2, Category: catalog.CategoryGhee}))
	require.NoError(t, cat.Create(ctx, &catalog.Product{Name: "Plenty", Price: 1, Stock: 50, Category: catalog.CategoryGhee}))

	_, err := cust.RecordOrder(ctx, customer.Contact{Name: "n", Email: "a@x.com", Phone: "p", Address: "a"}, "ord-1", 100)
	require.NoError(t, err)
	placeOrder(t, ord, now.AddDate(0, 0, -1), 100)

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Overview.TotalProducts)
	assert.Equal(t, 1, d.Overview.LowStockProducts)
	assert.Equal(t, 1, d.Overview.TotalCustomers)
	assert.Equal(t, 1, d.Overview.NewCustomersThisMonth)
	assert.Len(t, d.RecentOrders, 1)
	require.Len(t, d.TopProducts, 1)
	assert.Equal(t, "p1", d.TopProducts[0].ProductID)
}

func TestSalesDefaultsTo30Days(t *testing.T) {
	svc, _, _, ord := newService(t)
	ctx := context.Background()

	placeOrder(t, ord, now.AddDate(0, 0, -5), 100)
	placeOrder(t, ord, now.AddDate(0, 0, -40), 999) // outside default window

	report, err := svc.Sales(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, Period30d, report.Period)
	require.Len(t, report.Sales, 1)
	assert.Equal(t, 100.0, report.Sales[0].Revenue)

	wide, err := svc.Sales(ctx, Period90d)
	require.NoError(t, err)
	assert.Equal(t, Period90d, wide.Period)
	assert.Len(t, wide.Sales, 2)

	bogus, err := svc.Sales(ctx, "1y")
	require.NoError(t, err)
	assert.Equal(t, Period30d, bogus.Period)
}

func TestGrowthHelper(t *testing.T) {
	assert.Equal(t, 0.0, growth(5, 0))
	assert.Equal(t, 50.0, growth(3, 2))
	assert.Equal(t, -50.0, growth(1, 2))
	assert.Equal(t, 33.3, growth(4, 3))
}

package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(email string, total float64) *Order {
	return &Order{
		Customer: Contact{Name: "Asha Rao", Email: email, Phone: "x", Address: "y"},
		Items: []Item{
			{ProductID: "p1", Name: "Ghee 250ml", Quantity: 1, Price: total, Total: total},
		},
	}
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	a := newOrder("a@example.com", 500)
	b := newOrder("b@example.com", 500)
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	assert.Equal(t, "SRR000001", a.OrderNumber)
	assert.Equal(t, "SRR000002", b.OrderNumber)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, PaymentPending, a.PaymentStatus)
}

func TestCreateRecomputesTotals(t *testing.T) {
	s := NewMemStore()

	o := &Order{
		Customer: Contact{Name: "n", Email: "e@x.com", Phone: "p", Address: "a"},
		Items: []Item{
			{ProductID: "p1", Quantity: 2, Price: 500, Total: 1000},
			{ProductID: "p2", Quantity: 1, Price: 60, Total: 60},
		},
		Shipping: 40,
		Tax:      53,
	}
	require.NoError(t, s.Create(context.Background(), o))

	assert.Equal(t, 1060.0, o.Subtotal)
	assert.Equal(t, 1060.0+40+53, o.Total)
}

func TestUpdateStatusStampsDeliveredAt(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	o := newOrder("a@example.com", 500)
	require.NoError(t, s.Create(ctx, o))

	shipped, err := s.UpdateStatus(ctx, o.ID, StatusShipped, "TRK123")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, shipped.Status)
	assert.Equal(t, "TRK123", shipped.TrackingNumber)
	assert.Nil(t, shipped.DeliveredAt)

	delivered, err := s.UpdateStatus(ctx, o.ID, StatusDelivered, "")
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Equal(t, "TRK123", delivered.TrackingNumber) // empty arg keeps it

	_, err = s.UpdateStatus(ctx, "missing", StatusShipped, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersByStatusAndPaginates(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(ctx, newOrder("a@example.com", 100)))
	}
	cancelled := newOrder("a@example.com", 100)
	require.NoError(t, s.Create(ctx, cancelled))
	_, err := s.UpdateStatus(ctx, cancelled.ID, StatusCancelled, "")
	require.NoError(t, err)

	pending, total, err := s.List(ctx, ListOptions{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, pending, 3)

	page2, total, err := s.List(ctx, ListOptions{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, page2, 2)

	empty, total, err := s.List(ctx, ListOptions{Limit: 2, Page: 9})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, empty)
}

func TestRevenueExcludesCancelled(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	kept := newOrder("a@example.com", 1000)
	require.NoError(t, s.Create(ctx, kept))

	dropped := newOrder("a@example.com", 400)
	require.NoError(t, s.Create(ctx, dropped))
	_, err := s.UpdateStatus(ctx, dropped.ID, StatusCancelled, "")
	require.NoError(t, err)

	rev, err := s.Revenue(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, rev)
}

func TestCountBetweenBuckets(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	old := newOrder("a@example.com", 100)
	old.CreatedAt = time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, old))

	recent := newOrder("a@example.com", 100)
	recent.CreatedAt = time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, recent))

	aug := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	jul := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	n, err := s.CountBetween(ctx, aug, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.CountBetween(ctx, jul, aug)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTopProductsAggregatesUnits(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	a := &Order{
		Customer: Contact{Name: "n", Email: "e@x.com", Phone: "p", Address: "a"},
		Items: []Item{
			{ProductID: "p1", Name: "Ghee 250ml", Quantity: 3, Price: 500, Total: 1500},
			{ProductID: "p2", Name: "Ghee 500ml", Quantity: 1, Price: 1000, Total: 1000},
		},
	}
	b := &Order{
		Customer: Contact{Name: "n", Email: "e@x.com", Phone: "p", Address: "a"},
		Items: []Item{
			{ProductID: "p1", Name: "Ghee 250ml", Quantity: 2, Price: 500, Total: 1000},
		},
	}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	top, err := s.TopProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "p1", top[0].ProductID)
	assert.Equal(t, 5, top[0].UnitsSold)
	assert.Equal(t, 2500.0, top[0].Revenue)
}

func TestSalesByDayGroupsChronologically(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	mk := func(day int, total float64) *Order {
		o := newOrder("a@example.com", total)
		o.CreatedAt = time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC)
		return o
	}
	require.NoError(t, s.Create(ctx, mk(2, 100)))
	require.NoError(t, s.Create(ctx, mk(2, 200)))
	require.NoError(t, s.Create(ctx, mk(5, 400)))

	cancelled := mk(5, 999)
	require.NoError(t, s.Create(ctx, cancelled))
	_, err := s.UpdateStatus(ctx, cancelled.ID, StatusCancelled, "")
	require.NoError(t, err)

	series, err := s.SalesByDay(ctx, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, DailySales{Date: "2026-08-02", Orders: 2, Revenue: 300}, series[0])
	assert.Equal(t, DailySales{Date: "2026-08-05", Orders: 1, Revenue: 400}, series[1])
}

func TestDeleteRemovesOrder(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	o := newOrder("a@example.com", 100)
	require.NoError(t, s.Create(ctx, o))
	require.NoError(t, s.Delete(ctx, o.ID))

	_, err := s.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, o.ID), ErrNotFound)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "SRR000042", FormatNumber(42))
	assert.Equal(t, "SRR1000000", FormatNumber(1000000))
}

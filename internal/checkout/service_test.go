package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srrfarms/storefront/internal/catalog"
	"github.com/srrfarms/storefront/internal/customer"
	"github.com/srrfarms/storefront/internal/order"
)

type fixture struct {
	catalog   *catalog.MemStore
	customers customer.Store
	orders    order.Store
	svc       *Service
	ghee      *catalog.Product
	milk      *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cat := catalog.NewMemStore()
	ghee := &catalog.Product{Name: "Ghee 250ml", Price: 500, Stock: 10, Category: catalog.CategoryGhee}
	require.NoError(t, cat.Create(ctx, ghee))
	milk := &catalog.Product{Name: "Milk 1L", Price: 60, Stock: 3, Category: catalog.CategoryDairy}
	require.NoError(t, cat.Create(ctx, milk))

	f := &fixture{
		catalog:   cat,
		customers: customer.NewMemStore(),
		orders:    order.NewMemStore(),
		ghee:      ghee,
		milk:      milk,
	}
	f.svc = &Service{
		Catalog:   f.catalog,
		Customers: f.customers,
		Orders:    f.orders,
	}
	return f
}

func validRequest(f *fixture) Request {
	return Request{
		Customer: order.Contact{
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Phone:   "+91 9000000001",
			Address: "12 MG Road, Bengaluru",
		},
		Items: []ItemRequest{
			{ProductID: f.ghee.ID, Quantity: 2},
			{ProductID: f.milk.ID, Quantity: 1},
		},
		Notes: "leave at the gate",
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, validRequest(f), "")
	require.NoError(t, err)

	assert.Equal(t, "SRR000001", o.OrderNumber)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, 1060.0, o.Subtotal)
	assert.Equal(t, o.Subtotal+o.Shipping+o.Tax, o.Total)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Ghee 250ml", o.Items[0].Name)
	assert.Equal(t, 1000.0, o.Items[0].Total)

	// stock decremented with the inStock flag kept in sync
	ghee, err := f.catalog.Get(ctx, f.ghee.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, ghee.Stock)
	milk, err := f.catalog.Get(ctx, f.milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, milk.Stock)

	// customer upserted with counters and the order ref
	c, err := f.customers.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalOrders)
	assert.Equal(t, o.Total, c.TotalSpent)
	assert.Equal(t, []string{o.ID}, c.Orders)

	stored, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, stored.OrderNumber)
}

func TestCreateOrderSecondOrderBumpsCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateOrder(ctx, validRequest(f), "")
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(ctx, validRequest(f), "")
	require.NoError(t, err)

	assert.Equal(t, "SRR000002", second.OrderNumber)

	c, err := f.customers.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalOrders)
	assert.Equal(t, first.Total+second.Total, c.TotalSpent)
}

func TestCreateOrderValidatesContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		field string
		zap   func(*Request)
	}{
		{"name", func(r *Request) { r.Customer.Name = "" }},
		{"email", func(r *Request) { r.Customer.Email = "" }},
		{"phone", func(r *Request) { r.Customer.Phone = "" }},
		{"address", func(r *Request) { r.Customer.Address = "" }},
	} {
		req := validRequest(f)
		tc.zap(&req)
		_, err := f.svc.CreateOrder(ctx, req, "")
		assert.True(t, IsValidation(err), "missing %s should be a validation error", tc.field)
	}

	req := validRequest(f)
	req.Items = nil
	_, err := f.svc.CreateOrder(ctx, req, "")
	assert.True(t, IsValidation(err))
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := validRequest(f)
	req.Items = []ItemRequest{{ProductID: "nope", Quantity: 1}}

	_, err := f.svc.CreateOrder(ctx, req, "")
	require.True(t, IsValidation(err))
	assert.Equal(t, "Product not found: nope", err.Error())

	total, err2 := f.orders.Count(ctx)
	require.NoError(t, err2)
	assert.Zero(t, total)
}

func TestCreateOrderInsufficientStockFailsWholeRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := validRequest(f)
	req.Items = []ItemRequest{
		{ProductID: f.ghee.ID, Quantity: 1},
		{ProductID: f.milk.ID, Quantity: 4}, // only 3 on hand
	}

	_, err := f.svc.CreateOrder(ctx, req, "")
	require.True(t, IsValidation(err))
	assert.Equal(t, "Insufficient stock for Milk 1L", err.Error())

	// nothing was written: no order, full stock, no customer
	n, _ := f.orders.Count(ctx)
	assert.Zero(t, n)
	ghee, _ := f.catalog.Get(ctx, f.ghee.ID)
	assert.Equal(t, 10, ghee.Stock)
	_, err = f.customers.GetByEmail(ctx, "asha@example.com")
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

// failingCustomers wraps the memory store and fails RecordOrder, which
// forces the saga's last step to trigger a full rollback.
type failingCustomers struct {
	customer.Store
}

func (f *failingCustomers) RecordOrder(context.Context, customer.Contact, string, float64) (*customer.Customer, error) {
	return nil, errors.New("customers unavailable")
}

func TestCreateOrderCompensatesOnCustomerFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Customers = &failingCustomers{Store: f.customers}

	_, err := f.svc.CreateOrder(ctx, validRequest(f), "")
	require.Error(t, err)
	assert.False(t, IsValidation(err))

	// order removed and stock restored by the compensations
	n, _ := f.orders.Count(ctx)
	assert.Zero(t, n)
	ghee, _ := f.catalog.Get(ctx, f.ghee.ID)
	assert.Equal(t, 10, ghee.Stock)
	assert.True(t, ghee.InStock)
	milk, _ := f.catalog.Get(ctx, f.milk.ID)
	assert.Equal(t, 3, milk.Stock)
}

// memCache is an in-process cache.Cache for idempotency tests.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

func (m *memCache) Close() error { return nil }

func TestCreateOrderIdempotencyReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.svc.Cache = newMemCache()

	first, err := f.svc.CreateOrder(ctx, validRequest(f), "key-123")
	require.NoError(t, err)

	second, err := f.svc.CreateOrder(ctx, validRequest(f), "key-123")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)

	// the replay performed no writes
	n, _ := f.orders.Count(ctx)
	assert.Equal(t, 1, n)
	ghee, _ := f.catalog.Get(ctx, f.ghee.ID)
	assert.Equal(t, 8, ghee.Stock)

	// a different key creates a fresh order
	third, err := f.svc.CreateOrder(ctx, validRequest(f), "key-456")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	req := validRequest(f)
	req.Items = []ItemRequest{{ProductID: f.ghee.ID, Quantity: 0}}

	_, err := f.svc.CreateOrder(context.Background(), req, "")
	assert.True(t, IsValidation(err))
}

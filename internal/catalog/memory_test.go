package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, s *MemStore, name string, price float64, stock int) *Product {
	t.Helper()
	p := &Product{
		Name:     name,
		Price:    price,
		Stock:    stock,
		Category: CategoryGhee,
	}
	require.NoError(t, s.Create(context.Background(), p))
	return p
}

func TestCreateDerivesInStock(t *testing.T) {
	s := NewMemStore()

	p := seedProduct(t, s, "Ghee 250ml", 500, 10)
	assert.True(t, p.InStock)
	assert.True(t, p.IsActive)
	assert.NotEmpty(t, p.ID)

	empty := seedProduct(t, s, "Ghee 1000ml", 1500, 0)
	assert.False(t, empty.InStock)
}

func TestCreateRejectsInvalidProduct(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	assert.Error(t, s.Create(ctx, &Product{Price: 10, Category: CategoryGhee}))
	assert.Error(t, s.Create(ctx, &Product{Name: "x", Price: -1, Category: CategoryGhee}))
	assert.Error(t, s.Create(ctx, &Product{Name: "x", Price: 1, Category: "sweets"}))
	assert.Error(t, s.Create(ctx, &Product{Name: "x", Price: 1, Category: CategoryGhee, Badge: "Mega"}))
}

func TestListFiltersAndSorts(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	seedProduct(t, s, "B Ghee", 1000, 5)
	seedProduct(t, s, "A Ghee", 500, 0)
	milk := &Product{Name: "Milk", Price: 60, Stock: 20, Category: CategoryDairy}
	require.NoError(t, s.Create(ctx, milk))

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// default sort is case-insensitive name ascending
	assert.Equal(t, "A Ghee", all[0].Name)
	assert.Equal(t, "Milk", all[2].Name)

	ghee, err := s.List(ctx, ListOptions{Category: CategoryGhee})
	require.NoError(t, err)
	assert.Len(t, ghee, 2)

	inStock, err := s.List(ctx, ListOptions{InStock: true})
	require.NoError(t, err)
	assert.Len(t, inStock, 2)

	byPrice, err := s.List(ctx, ListOptions{SortBy: SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, "B Ghee", byPrice[0].Name)
	assert.Equal(t, "Milk", byPrice[2].Name)

	limited, err := s.List(ctx, ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeactivateHidesProduct(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	p := seedProduct(t, s, "Ghee", 500, 5)
	require.NoError(t, s.Deactivate(ctx, p.ID))

	_, err := s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)

	// deactivating twice reports not found
	assert.ErrorIs(t, s.Deactivate(ctx, p.ID), ErrNotFound)
}

func TestStockMutationsKeepInStockInvariant(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Ghee", 500, 3)

	require.NoError(t, s.RemoveStock(ctx, p.ID, 3))
	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.InStock)

	restocked, err := s.AddStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, restocked.Stock)
	assert.True(t, restocked.InStock)

	set, err := s.SetStock(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.False(t, set.InStock)
}

func TestRemoveStockRejectsOverdraw(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Ghee", 500, 2)

	err := s.RemoveStock(ctx, p.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// stock untouched after the rejected decrement
	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestSetStockRejectsNegative(t *testing.T) {
	s := NewMemStore()
	p := seedProduct(t, s, "Ghee", 500, 2)

	_, err := s.SetStock(context.Background(), p.ID, -1)
	assert.Error(t, err)
}

func TestLowStockCounters(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	seedProduct(t, s, "Scarce", 500, 2)
	seedProduct(t, s, "Gone", 500, 0)
	seedProduct(t, s, "Plenty", 500, 100)

	low, err := s.LowStock(ctx, LowStockThreshold)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Gone", low[0].Name) // sorted scarcest first

	n, err := s.CountLowStock(ctx, LowStockThreshold)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, err := s.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, active)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	p := seedProduct(t, s, "Ghee", 500, 5)

	newPrice := 550.0
	got, err := s.Update(ctx, p.ID, Update{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 550.0, got.Price)
	assert.Equal(t, "Ghee", got.Name)

	bad := -5.0
	_, err = s.Update(ctx, p.ID, Update{Price: &bad})
	assert.Error(t, err)
}

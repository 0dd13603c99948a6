package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srrfarms/storefront/internal/catalog"
)

var (
	ghee = catalog.Product{ID: "p1", Name: "Ghee 250ml", Price: 500}
	milk = catalog.Product{ID: "p2", Name: "Milk 1L", Price: 60}
)

func TestApplyAddItem(t *testing.T) {
	s := Apply(State{}, AddItem{Product: ghee})
	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Items[0].Quantity)

	// adding the same product bumps the quantity, not the line count
	s = Apply(s, AddItem{Product: ghee})
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)

	s = Apply(s, AddItem{Product: milk})
	require.Len(t, s.Items, 2)
	assert.Equal(t, "p2", s.Items[1].Product.ID) // insertion order kept
}

func TestApplyRemoveItem(t *testing.T) {
	s := Apply(Apply(State{}, AddItem{Product: ghee}), AddItem{Product: milk})

	s = Apply(s, RemoveItem{ProductID: "p1"})
	require.Len(t, s.Items, 1)
	assert.Equal(t, "p2", s.Items[0].Product.ID)

	// unknown ids are a no-op
	s = Apply(s, RemoveItem{ProductID: "nope"})
	assert.Len(t, s.Items, 1)
}

func TestApplySetQuantity(t *testing.T) {
	s := Apply(State{}, AddItem{Product: ghee})

	s = Apply(s, SetQuantity{ProductID: "p1", Quantity: 5})
	assert.Equal(t, 5, s.Items[0].Quantity)

	// zero or below removes the line
	s = Apply(s, SetQuantity{ProductID: "p1", Quantity: 0})
	assert.Empty(t, s.Items)
}

func TestApplyClear(t *testing.T) {
	s := Apply(Apply(State{}, AddItem{Product: ghee}), AddItem{Product: milk})
	s = Apply(s, Clear{})
	assert.Empty(t, s.Items)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	orig := Apply(State{}, AddItem{Product: ghee})
	_ = Apply(orig, AddItem{Product: ghee})
	assert.Equal(t, 1, orig.Items[0].Quantity)
}

func TestTotals(t *testing.T) {
	s := Apply(State{}, AddItem{Product: ghee})
	s = Apply(s, SetQuantity{ProductID: "p1", Quantity: 2})
	s = Apply(s, AddItem{Product: milk})

	assert.Equal(t, 3, s.TotalItems())
	assert.Equal(t, 2*500.0+60.0, s.TotalPrice())

	assert.Zero(t, State{}.TotalItems())
	assert.Zero(t, State{}.TotalPrice())
}

func TestStorePersistsAcrossReloads(t *testing.T) {
	ctx := context.Background()
	storage := NewMemStorage()

	store, err := NewStore(ctx, storage, "session-1")
	require.NoError(t, err)

	_, err = store.Dispatch(ctx, AddItem{Product: ghee})
	require.NoError(t, err)
	_, err = store.Dispatch(ctx, AddItem{Product: ghee})
	require.NoError(t, err)

	// a fresh store over the same storage sees the persisted cart
	reloaded, err := NewStore(ctx, storage, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.State().TotalItems())

	// a different scope starts empty
	other, err := NewStore(ctx, storage, "session-2")
	require.NoError(t, err)
	assert.Zero(t, other.State().TotalItems())
}

func TestStoreProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, NewMemStorage(), "")
	require.NoError(t, err)

	_, ok, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	p := Profile{Name: "Asha Rao", Email: "asha@example.com", Phone: "+91 9000000001"}
	require.NoError(t, store.SaveProfile(ctx, p))

	got, ok, err := store.LoadProfile(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p, got)
}

package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vparts/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSnapshots struct {
	mu      sync.Mutex
	data    map[string][]models.LineItem
	failing bool
	saves   int
	deletes int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: make(map[string][]models.LineItem)}
}

func (f *fakeSnapshots) Save(_ context.Context, userID string, items []models.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.failing {
		return errors.New("snapshot store down")
	}
	cp := make([]models.LineItem, len(items))
	copy(cp, items)
	f.data[userID] = cp
	return nil
}

func (f *fakeSnapshots) Load(_ context.Context, userID string) ([]models.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return nil, errors.New("snapshot store down")
	}
	return f.data[userID], nil
}

func (f *fakeSnapshots) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.failing {
		return errors.New("snapshot store down")
	}
	delete(f.data, userID)
	return nil
}

func (f *fakeSnapshots) saved(userID string) []models.LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[userID]
}

func TestStore_AddAndQuery(t *testing.T) {
	store := NewStore(newFakeSnapshots())
	ctx := context.Background()

	store.AddItem(ctx, "u1", product("p1", 500), 2)
	store.AddItem(ctx, "u1", product("p1", 500), 3)

	assert.Equal(t, 5, store.GetItemQuantity(ctx, "u1", "p1"))
	assert.True(t, store.IsInCart(ctx, "u1", "p1"))
	assert.False(t, store.IsInCart(ctx, "u1", "p2"))
	assert.Equal(t, 2500.0, store.Get(ctx, "u1").TotalAmount)
}

func TestStore_CartsAreIsolatedPerUser(t *testing.T) {
	store := NewStore(newFakeSnapshots())
	ctx := context.Background()

	store.AddItem(ctx, "u1", product("p1", 500), 1)
	store.AddItem(ctx, "u2", product("p2", 900), 2)

	assert.Equal(t, 1, store.Get(ctx, "u1").TotalItems)
	assert.Equal(t, 2, store.Get(ctx, "u2").TotalItems)
	assert.False(t, store.IsInCart(ctx, "u2", "p1"))
}

func TestStore_RemoveAfterUpdateToZero(t *testing.T) {
	store := NewStore(newFakeSnapshots())
	ctx := context.Background()

	store.AddItem(ctx, "u1", product("p1", 500), 2)
	store.UpdateQuantity(ctx, "u1", "p1", 0)

	assert.Equal(t, 0, store.GetItemQuantity(ctx, "u1", "p1"))
	assert.False(t, store.IsInCart(ctx, "u1", "p1"))
}

func TestStore_SnapshotsPersistedAsync(t *testing.T) {
	snaps := newFakeSnapshots()
	store := NewStore(snaps)
	ctx := context.Background()

	store.AddItem(ctx, "u1", product("p1", 500), 2)

	require.Eventually(t, func() bool {
		items := snaps.saved("u1")
		return len(items) == 1 && items[0].Quantity == 2
	}, time.Second, 5*time.Millisecond)
}

func TestStore_RehydratesFromSnapshot(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.data["u1"] = []models.LineItem{{ProductID: "p9", UnitPrice: 250, Quantity: 4}}

	store := NewStore(snaps)
	st := store.Get(context.Background(), "u1")

	require.Len(t, st.Items, 1)
	assert.Equal(t, 4, st.TotalItems)
	assert.Equal(t, 1000.0, st.TotalAmount)
}

func TestStore_SnapshotFailuresAreNonFatal(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.failing = true
	store := NewStore(snaps)
	ctx := context.Background()

	st := store.AddItem(ctx, "u1", product("p1", 500), 2)

	// Cart stays correct in memory even though persistence fails.
	assert.Equal(t, 2, st.TotalItems)
	assert.Equal(t, 1000.0, store.Get(ctx, "u1").TotalAmount)
}

func TestStore_ClearDeletesSnapshot(t *testing.T) {
	snaps := newFakeSnapshots()
	store := NewStore(snaps)
	ctx := context.Background()

	store.AddItem(ctx, "u1", product("p1", 500), 2)
	store.ClearCart(ctx, "u1")

	assert.Empty(t, store.Get(ctx, "u1").Items)
	require.Eventually(t, func() bool {
		return snaps.saved("u1") == nil
	}, time.Second, 5*time.Millisecond)
}

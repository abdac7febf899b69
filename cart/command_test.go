package cart

import (
	"testing"

	"vparts/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price float64) models.Product {
	return models.Product{
		ProductID: id,
		VendorID:  "v-1",
		Title:     "Part " + id,
		Price:     price,
		Stock:     10,
		Active:    true,
		Images:    []string{id + ".jpg"},
	}
}

func empty() models.CartState {
	return Apply(models.CartState{}, Clear{})
}

func TestApply_AddItem_New(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 2})

	require.Len(t, st.Items, 1)
	assert.Equal(t, "p1", st.Items[0].ProductID)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, 500.0, st.Items[0].UnitPrice)
	assert.Equal(t, "p1.jpg", st.Items[0].Image)
	assert.Equal(t, 2, st.TotalItems)
	assert.Equal(t, 1000.0, st.TotalAmount)
}

func TestApply_AddItem_MergesQuantities(t *testing.T) {
	st := empty()
	st = Apply(st, AddItem{Product: product("p1", 500), Quantity: 2})
	st = Apply(st, AddItem{Product: product("p1", 500), Quantity: 3})

	require.Len(t, st.Items, 1)
	assert.Equal(t, 5, st.Items[0].Quantity)
	assert.Equal(t, 5, st.TotalItems)
	assert.Equal(t, 2500.0, st.TotalAmount)
}

func TestApply_AddItem_DefaultsQuantityToOne(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500)})
	require.Len(t, st.Items, 1)
	assert.Equal(t, 1, st.Items[0].Quantity)
}

func TestApply_RemoveItem(t *testing.T) {
	st := empty()
	st = Apply(st, AddItem{Product: product("p1", 500), Quantity: 1})
	st = Apply(st, AddItem{Product: product("p2", 300), Quantity: 2})
	st = Apply(st, RemoveItem{ProductID: "p1"})

	require.Len(t, st.Items, 1)
	assert.Equal(t, "p2", st.Items[0].ProductID)
	assert.Equal(t, 600.0, st.TotalAmount)
}

func TestApply_RemoveItem_Unknown(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 1})
	st = Apply(st, RemoveItem{ProductID: "nope"})
	assert.Len(t, st.Items, 1)
}

func TestApply_UpdateQuantity(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 2})
	st = Apply(st, UpdateQuantity{ProductID: "p1", Quantity: 7})

	require.Len(t, st.Items, 1)
	assert.Equal(t, 7, st.Items[0].Quantity)
	assert.Equal(t, 3500.0, st.TotalAmount)
}

func TestApply_UpdateQuantity_ZeroRemoves(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 2})
	st = Apply(st, UpdateQuantity{ProductID: "p1", Quantity: 0})
	assert.Empty(t, st.Items)
	assert.Zero(t, st.TotalItems)
	assert.Zero(t, st.TotalAmount)
}

func TestApply_UpdateQuantity_NegativeRemoves(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 2})
	st = Apply(st, UpdateQuantity{ProductID: "p1", Quantity: -3})
	assert.Empty(t, st.Items)
}

func TestApply_Clear(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 2})
	st = Apply(st, Clear{})
	assert.NotNil(t, st.Items)
	assert.Empty(t, st.Items)
	assert.Zero(t, st.TotalAmount)
}

func TestApply_Load_RecomputesTotals(t *testing.T) {
	items := []models.LineItem{
		{ProductID: "p1", UnitPrice: 500, Quantity: 2},
		{ProductID: "p2", UnitPrice: 300, Quantity: 1},
	}
	st := Apply(empty(), Load{Items: items})
	assert.Equal(t, 3, st.TotalItems)
	assert.Equal(t, 1300.0, st.TotalAmount)
}

// Totals must equal the sum over items after any command sequence.
func TestApply_TotalsInvariant(t *testing.T) {
	cmds := []Command{
		AddItem{Product: product("p1", 500), Quantity: 2},
		AddItem{Product: product("p2", 750), Quantity: 1},
		UpdateQuantity{ProductID: "p1", Quantity: 5},
		AddItem{Product: product("p3", 120), Quantity: 3},
		RemoveItem{ProductID: "p2"},
		UpdateQuantity{ProductID: "p3", Quantity: 0},
	}

	st := empty()
	for _, cmd := range cmds {
		st = Apply(st, cmd)

		var count int
		var amount float64
		for _, it := range st.Items {
			count += it.Quantity
			amount += it.UnitPrice * float64(it.Quantity)
		}
		assert.Equal(t, count, st.TotalItems)
		assert.Equal(t, amount, st.TotalAmount)
	}

	require.Len(t, st.Items, 1)
	assert.Equal(t, "p1", st.Items[0].ProductID)
	assert.Equal(t, 5, st.Items[0].Quantity)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	st := Apply(empty(), AddItem{Product: product("p1", 500), Quantity: 2})
	before := st.Items[0].Quantity

	_ = Apply(st, UpdateQuantity{ProductID: "p1", Quantity: 9})
	assert.Equal(t, before, st.Items[0].Quantity)
}

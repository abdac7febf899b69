package cart

import (
	"time"

	"vparts/models"
)

// Command is a cart mutation. The concrete command types form a closed
// set consumed by Apply.
type Command interface {
	isCommand()
}

// AddItem appends a new line item or, if the product is already in the
// cart, increments its quantity.
type AddItem struct {
	Product  models.Product
	Quantity int
}

// RemoveItem drops the line item for a product.
type RemoveItem struct {
	ProductID string
}

// UpdateQuantity sets the quantity for a product. A quantity of zero or
// less removes the item.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// Clear empties the cart.
type Clear struct{}

// Load replaces the cart contents with a persisted snapshot.
type Load struct {
	Items []models.LineItem
}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (Clear) isCommand()          {}
func (Load) isCommand()           {}

// Apply is the pure state-transition function. Totals are always
// recomputed from the resulting item list, never adjusted in place, so
// they cannot drift from the items.
func Apply(state models.CartState, cmd Command) models.CartState {
	switch c := cmd.(type) {
	case AddItem:
		qty := c.Quantity
		if qty < 1 {
			qty = 1
		}
		items := cloneItems(state.Items)
		merged := false
		for i := range items {
			if items[i].ProductID == c.Product.ProductID {
				items[i].Quantity += qty
				merged = true
				break
			}
		}
		if !merged {
			image := ""
			if len(c.Product.Images) > 0 {
				image = c.Product.Images[0]
			}
			items = append(items, models.LineItem{
				ProductID: c.Product.ProductID,
				VendorID:  c.Product.VendorID,
				Title:     c.Product.Title,
				Image:     image,
				UnitPrice: c.Product.Price,
				Quantity:  qty,
			})
		}
		return recalc(items)

	case RemoveItem:
		items := make([]models.LineItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ProductID != c.ProductID {
				items = append(items, it)
			}
		}
		return recalc(items)

	case UpdateQuantity:
		if c.Quantity <= 0 {
			return Apply(state, RemoveItem{ProductID: c.ProductID})
		}
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].ProductID == c.ProductID {
				items[i].Quantity = c.Quantity
			}
		}
		return recalc(items)

	case Clear:
		return recalc(nil)

	case Load:
		return recalc(cloneItems(c.Items))
	}
	return state
}

func cloneItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}

func recalc(items []models.LineItem) models.CartState {
	if items == nil {
		items = []models.LineItem{}
	}
	var count int
	var amount float64
	for _, it := range items {
		count += it.Quantity
		amount += it.UnitPrice * float64(it.Quantity)
	}
	return models.CartState{
		Items:       items,
		TotalItems:  count,
		TotalAmount: amount,
		UpdatedAt:   time.Now(),
	}
}

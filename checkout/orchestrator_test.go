package checkout

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"vparts/cart"
	"vparts/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	mu       sync.Mutex
	orders   map[string]models.Order
	failPuts int // fail this many Put calls before succeeding
	puts     int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]models.Order)}
}

func (f *fakeOrderStore) Put(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPuts > 0 {
		f.failPuts--
		return errors.New("write failed")
	}
	f.orders[order.OrderID] = *order
	return nil
}

func (f *fakeOrderStore) get(orderID string) (models.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	return o, ok
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) GetUser(_ context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type fakeGateway struct {
	result models.PaymentResult
	err    error
	calls  int
}

func (f *fakeGateway) OpenCheckout(_ context.Context, _ *models.OrderDraft) (models.PaymentResult, error) {
	f.calls++
	return f.result, f.err
}

func buyer(id string) *models.User {
	return &models.User{
		UserID: id,
		Role:   []string{"buyer"},
		Addresses: []models.Address{
			{ID: "a1", Label: "Home", Street: "12 MG Road", City: "Pune", State: "Maharashtra", PostalCode: "411001"},
			{ID: "a2", Label: "Work", Street: "4 FC Road", City: "Pune", State: "Maharashtra", PostalCode: "411004"},
		},
	}
}

func testProduct(id string, price float64) models.Product {
	return models.Product{ProductID: id, VendorID: "v1", Title: "Part " + id, Price: price, Stock: 5, Active: true}
}

func setup(gw Gateway) (*Orchestrator, *cart.Store, *fakeOrderStore) {
	carts := cart.NewStore(nil)
	orders := newFakeOrderStore()
	users := &fakeUsers{users: map[string]*models.User{
		"buyer-1":  buyer("buyer-1"),
		"vendor-1": {UserID: "vendor-1", Role: []string{"vendor"}},
		"noaddr":   {UserID: "noaddr", Role: []string{"buyer"}},
	}}
	return NewOrchestrator(carts, orders, users, gw), carts, orders
}

func TestPlaceOrder_CashOnDelivery(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, orders := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 1500), 1)

	out, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodCOD})
	require.NoError(t, err)

	assert.Equal(t, StateOrderPersisted, out.State)
	assert.Equal(t, "placed", out.Status)
	assert.Equal(t, 1870.0, out.Total)
	assert.Zero(t, gw.calls, "COD must not touch the payment provider")

	order, ok := orders.get(out.OrderID)
	require.True(t, ok)
	assert.Equal(t, 1500.0, order.Subtotal)
	assert.Equal(t, 100.0, order.ShippingCost)
	assert.Equal(t, 270.0, order.Tax)
	assert.Equal(t, 0.0, order.Discount)
	assert.Equal(t, 1870.0, order.TotalAmount)
	assert.Equal(t, MethodCOD, order.Payment.Method)
	assert.Equal(t, "Home", order.ShippingAddress.Label)

	// Cart cleared exactly once the order is persisted.
	assert.Empty(t, carts.Get(ctx, "buyer-1").Items)
}

func TestPlaceOrder_EmptyCartRejectedBeforeProvider(t *testing.T) {
	gw := &fakeGateway{}
	orch, _, orders := setup(gw)

	_, err := orch.PlaceOrder(context.Background(), "buyer-1", PlaceOrderRequest{PaymentMethod: MethodOnline})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, gw.calls)
	assert.Zero(t, orders.count())
}

func TestPlaceOrder_NonBuyerRejected(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, _ := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "vendor-1", testProduct("p1", 900), 1)

	_, err := orch.PlaceOrder(ctx, "vendor-1", PlaceOrderRequest{PaymentMethod: MethodCOD})
	assert.ErrorIs(t, err, ErrNotBuyer)
	assert.Zero(t, gw.calls)
}

func TestPlaceOrder_UnknownUserRejected(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, _ := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "ghost", testProduct("p1", 900), 1)

	_, err := orch.PlaceOrder(ctx, "ghost", PlaceOrderRequest{PaymentMethod: MethodCOD})
	assert.ErrorIs(t, err, ErrNotBuyer)
}

func TestPlaceOrder_NoAddress(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, _ := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "noaddr", testProduct("p1", 900), 1)

	_, err := orch.PlaceOrder(ctx, "noaddr", PlaceOrderRequest{PaymentMethod: MethodCOD})
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestPlaceOrder_AddressSelection(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, orders := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 900), 1)

	out, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{AddressIndex: 1, PaymentMethod: MethodCOD})
	require.NoError(t, err)

	order, _ := orders.get(out.OrderID)
	assert.Equal(t, "Work", order.ShippingAddress.Label)
}

func TestPlaceOrder_InvalidAddressIndex(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, _ := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 900), 1)

	_, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{AddressIndex: 7, PaymentMethod: MethodCOD})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestPlaceOrder_UnsupportedMethod(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, _ := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 900), 1)

	_, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: "barter"})
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestPlaceOrder_OnlineSuccess(t *testing.T) {
	gw := &fakeGateway{result: models.PaymentResult{
		Success:         true,
		PaymentID:       "pay_123",
		ProviderOrderID: "order_123",
		Signature:       "sig",
	}}
	orch, carts, orders := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 2500), 1)

	out, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodOnline})
	require.NoError(t, err)

	assert.Equal(t, StateOrderPersisted, out.State)
	assert.Equal(t, "pay_123", out.PaymentID)
	assert.Equal(t, 1, gw.calls)

	order, ok := orders.get(out.OrderID)
	require.True(t, ok)
	assert.Equal(t, "completed", order.Payment.Status)
	assert.Equal(t, "pay_123", order.Payment.PaymentID)
	assert.Equal(t, "order_123", order.Payment.ProviderOrderID)
	assert.Equal(t, 0.0, order.ShippingCost) // free above threshold
	assert.Equal(t, "confirmed", order.Status)

	assert.Empty(t, carts.Get(ctx, "buyer-1").Items)
}

func TestPlaceOrder_CancelledKeepsCart(t *testing.T) {
	gw := &fakeGateway{result: models.PaymentResult{
		Success: false,
		Error:   "Payment cancelled by user",
	}}
	orch, carts, orders := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 1500), 1)

	out, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodOnline})
	require.NoError(t, err)

	assert.Equal(t, StatePaymentCancelled, out.State)
	assert.Equal(t, "payment_cancelled", out.Status)
	assert.Zero(t, orders.count())

	// Cart untouched: the buyer retries from the payment-method step.
	st := carts.Get(ctx, "buyer-1")
	require.Len(t, st.Items, 1)
	assert.Equal(t, 1500.0, st.TotalAmount)
}

func TestPlaceOrder_FailedKeepsCart(t *testing.T) {
	gw := &fakeGateway{result: models.PaymentResult{
		Success: false,
		Error:   "card declined",
	}}
	orch, carts, orders := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 1500), 1)

	out, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodOnline})
	require.NoError(t, err)

	assert.Equal(t, StatePaymentFailed, out.State)
	assert.Equal(t, "card declined", out.Message)
	assert.Zero(t, orders.count())
	assert.Len(t, carts.Get(ctx, "buyer-1").Items, 1)
}

func TestPlaceOrder_PersistRetriesOnceWithSameID(t *testing.T) {
	gw := &fakeGateway{result: models.PaymentResult{Success: true, PaymentID: "pay_1"}}
	orch, carts, orders := setup(gw)
	orders.failPuts = 1
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 1500), 1)

	out, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodOnline})
	require.NoError(t, err)
	assert.Equal(t, 2, orders.puts)
	_, ok := orders.get(out.OrderID)
	assert.True(t, ok)
}

func TestPlaceOrder_PersistFailureAfterPaymentSurfacesReference(t *testing.T) {
	gw := &fakeGateway{result: models.PaymentResult{Success: true, PaymentID: "pay_lost"}}
	orch, carts, orders := setup(gw)
	orders.failPuts = 2 // both the write and its retry fail
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 1500), 1)

	_, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodOnline})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pay_lost")

	// The cart is not cleared when the order could not be recorded.
	assert.Len(t, carts.Get(ctx, "buyer-1").Items, 1)
}

func TestPlaceOrder_InFlightGuard(t *testing.T) {
	gw := &fakeGateway{}
	orch, carts, _ := setup(gw)
	ctx := context.Background()

	carts.AddItem(ctx, "buyer-1", testProduct("p1", 900), 1)

	require.True(t, orch.begin("buyer-1"))
	_, err := orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodCOD})
	assert.ErrorIs(t, err, ErrAttemptInFlight)
	orch.end("buyer-1")

	_, err = orch.PlaceOrder(ctx, "buyer-1", PlaceOrderRequest{PaymentMethod: MethodCOD})
	assert.NoError(t, err)
}

func TestOrderIDFormat(t *testing.T) {
	var g OrderIDGenerator
	pattern := regexp.MustCompile(`^ORD\d{9}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := g.Next()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

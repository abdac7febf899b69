// Package checkout sequences address selection, payment-method
// selection, provider invocation and order persistence for one order
// attempt.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"vparts/cart"
	"vparts/models"
	"vparts/pricing"
)

// Attempt states.
type State int

const (
	StateIdle State = iota
	StateAddressSelected
	StatePaymentMethodSelected
	StateAwaitingProvider
	StateOrderPersisted
	StatePaymentFailed
	StatePaymentCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAddressSelected:
		return "address_selected"
	case StatePaymentMethodSelected:
		return "payment_method_selected"
	case StateAwaitingProvider:
		return "awaiting_provider"
	case StateOrderPersisted:
		return "order_persisted"
	case StatePaymentFailed:
		return "payment_failed"
	case StatePaymentCancelled:
		return "payment_cancelled"
	}
	return "unknown"
}

const (
	MethodOnline = "razorpay"
	MethodCOD    = "cod"
)

// Validation failures, rejected before any provider call.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNotBuyer        = errors.New("a signed-in buyer account is required")
	ErrNoAddress       = errors.New("no delivery address on file")
	ErrInvalidAddress  = errors.New("invalid address selection")
	ErrInvalidMethod   = errors.New("unsupported payment method")
	ErrAttemptInFlight = errors.New("an order attempt is already in progress")
)

// Gateway opens the provider checkout for a draft and reports the
// normalized outcome.
type Gateway interface {
	OpenCheckout(ctx context.Context, draft *models.OrderDraft) (models.PaymentResult, error)
}

// OrderStore persists finished orders. Put must upsert on OrderID so a
// retried write with the same id stays idempotent.
type OrderStore interface {
	Put(ctx context.Context, order *models.Order) error
}

// UserDirectory resolves the buyer's profile (role and addresses).
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Orchestrator drives the order attempt state machine.
type Orchestrator struct {
	carts   *cart.Store
	orders  OrderStore
	users   UserDirectory
	gateway Gateway
	ids     OrderIDGenerator

	mu       sync.Mutex
	inFlight map[string]struct{} // one attempt per buyer at a time
}

func NewOrchestrator(carts *cart.Store, orders OrderStore, users UserDirectory, gateway Gateway) *Orchestrator {
	return &Orchestrator{
		carts:    carts,
		orders:   orders,
		users:    users,
		gateway:  gateway,
		inFlight: make(map[string]struct{}),
	}
}

// PlaceOrderRequest is one submit of the checkout form.
type PlaceOrderRequest struct {
	AddressIndex  int    `json:"addressIndex"`
	PaymentMethod string `json:"paymentMethod"`
}

// Outcome reports how an attempt ended. Cart contents survive any
// outcome other than a persisted order.
type Outcome struct {
	State     State   `json:"-"`
	Status    string  `json:"status"`
	OrderID   string  `json:"orderId,omitempty"`
	PaymentID string  `json:"paymentId,omitempty"`
	Message   string  `json:"message,omitempty"`
	Total     float64 `json:"total,omitempty"`
}

// PlaceOrder runs one attempt end to end. Validation errors are
// returned before the provider is ever invoked; a failed or cancelled
// payment leaves the cart untouched so the buyer can retry from the
// payment-method step.
func (o *Orchestrator) PlaceOrder(ctx context.Context, buyerID string, req PlaceOrderRequest) (*Outcome, error) {
	if !o.begin(buyerID) {
		return nil, ErrAttemptInFlight
	}
	defer o.end(buyerID)

	draft, err := o.buildDraft(ctx, buyerID, req)
	if err != nil {
		return nil, err
	}
	// Draft is frozen from here on; a retry gets a fresh draft.

	if draft.PaymentMethod == MethodCOD {
		order := orderFromDraft(draft, models.PaymentDetails{
			Method:   MethodCOD,
			Status:   "pending",
			Amount:   draft.TotalAmount,
			Currency: pricing.Currency,
		})
		if err := o.persistOrder(ctx, order, false); err != nil {
			return nil, err
		}
		o.carts.ClearCart(ctx, buyerID)
		return &Outcome{
			State:   StateOrderPersisted,
			Status:  "placed",
			OrderID: draft.OrderID,
			Total:   draft.TotalAmount,
		}, nil
	}

	// StateAwaitingProvider: block until the provider round trip ends.
	result, err := o.gateway.OpenCheckout(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}

	if !result.Success {
		out := &Outcome{
			State:   StatePaymentFailed,
			Status:  "payment_failed",
			Message: result.Error,
		}
		if result.Error == "" {
			out.Message = "Payment failed"
		}
		if isCancelled(result) {
			out.State = StatePaymentCancelled
			out.Status = "payment_cancelled"
		}
		return out, nil
	}

	order := orderFromDraft(draft, models.PaymentDetails{
		Method:          MethodOnline,
		PaymentID:       result.PaymentID,
		ProviderOrderID: result.ProviderOrderID,
		Signature:       result.Signature,
		Status:          "completed",
		Amount:          draft.TotalAmount,
		Currency:        pricing.Currency,
		PaidAt:          time.Now(),
	})
	order.Status = "confirmed"

	// Payment is captured at this point. The write is retried once
	// with the same orderId (Put upserts); if it still fails the
	// payment reference is surfaced for reconciliation.
	if err := o.persistOrder(ctx, order, true); err != nil {
		return nil, fmt.Errorf("order %s not recorded after payment %s: %w",
			draft.OrderID, result.PaymentID, err)
	}

	o.carts.ClearCart(ctx, buyerID)
	return &Outcome{
		State:     StateOrderPersisted,
		Status:    "placed",
		OrderID:   draft.OrderID,
		PaymentID: result.PaymentID,
		Total:     draft.TotalAmount,
	}, nil
}

// buildDraft walks the pre-provider states: validation, address
// selection, payment-method selection, then freezes the draft.
func (o *Orchestrator) buildDraft(ctx context.Context, buyerID string, req PlaceOrderRequest) (*models.OrderDraft, error) {
	state := o.carts.Get(ctx, buyerID)
	if len(state.Items) == 0 {
		return nil, ErrEmptyCart
	}

	user, err := o.users.GetUser(ctx, buyerID)
	if err != nil || user == nil || !user.HasRole("buyer") {
		return nil, ErrNotBuyer
	}

	// StateAddressSelected
	if len(user.Addresses) == 0 {
		return nil, ErrNoAddress
	}
	// AddressIndex zero is the default selection.
	idx := req.AddressIndex
	if idx < 0 || idx >= len(user.Addresses) {
		return nil, ErrInvalidAddress
	}

	// StatePaymentMethodSelected
	method := req.PaymentMethod
	if method == "" {
		method = MethodOnline
	}
	if method != MethodOnline && method != MethodCOD {
		return nil, ErrInvalidMethod
	}

	quote := pricing.QuoteFor(state.Items, 0)
	return &models.OrderDraft{
		OrderID:         o.ids.Next(),
		BuyerID:         buyerID,
		Items:           state.Items,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		Tax:             quote.Tax,
		Discount:        quote.Discount,
		TotalAmount:     quote.Total,
		PaymentMethod:   method,
		ShippingAddress: user.Addresses[idx],
		CreatedAt:       time.Now(),
	}, nil
}

func (o *Orchestrator) persistOrder(ctx context.Context, order *models.Order, retry bool) error {
	err := o.orders.Put(ctx, order)
	if err == nil {
		return nil
	}
	if !retry {
		return err
	}
	log.Printf("checkout: order %s write failed, retrying: %v", order.OrderID, err)
	return o.orders.Put(ctx, order)
}

func (o *Orchestrator) begin(buyerID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[buyerID]; busy {
		return false
	}
	o.inFlight[buyerID] = struct{}{}
	return true
}

func (o *Orchestrator) end(buyerID string) {
	o.mu.Lock()
	delete(o.inFlight, buyerID)
	o.mu.Unlock()
}

func isCancelled(res models.PaymentResult) bool {
	return res.Error == "Payment cancelled by user" || res.Error == "cancelled"
}

func orderFromDraft(draft *models.OrderDraft, payment models.PaymentDetails) *models.Order {
	now := time.Now()
	return &models.Order{
		OrderID:         draft.OrderID,
		BuyerID:         draft.BuyerID,
		Items:           draft.Items,
		Subtotal:        draft.Subtotal,
		ShippingCost:    draft.ShippingCost,
		Tax:             draft.Tax,
		Discount:        draft.Discount,
		TotalAmount:     draft.TotalAmount,
		ShippingAddress: draft.ShippingAddress,
		Payment:         payment,
		Status:          "pending",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

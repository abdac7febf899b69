package razorpay

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"sync"

	"vparts/models"
)

const (
	// Messages distinguish a definite failure from a user dismissal.
	ErrMsgCancelled  = "Payment cancelled by user"
	ErrMsgLoadFailed = "Failed to reach payment provider"
)

// PendingCheckout is what a client needs to drive the provider UI for
// an in-flight attempt.
type PendingCheckout struct {
	OrderID         string  `json:"orderId"`
	ProviderOrderID string  `json:"providerOrderId"`
	KeyID           string  `json:"keyId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	CheckoutURL     string  `json:"checkoutUrl,omitempty"`
}

// Publisher hands the pending-checkout payload to the waiting client.
// Best-effort: a publish failure is logged, the attempt continues.
type Publisher interface {
	Publish(ctx context.Context, buyerID string, pc PendingCheckout) error
}

// pendingTable maps provider order ids to the channel their blocked
// OpenCheckout call waits on.
type pendingTable struct {
	mu sync.Mutex
	m  map[string]chan models.PaymentResult
}

func newPendingTable() *pendingTable {
	return &pendingTable{m: make(map[string]chan models.PaymentResult)}
}

func (p *pendingTable) register(id string) chan models.PaymentResult {
	ch := make(chan models.PaymentResult, 1)
	p.mu.Lock()
	p.m[id] = ch
	p.mu.Unlock()
	return ch
}

func (p *pendingTable) unregister(id string) {
	p.mu.Lock()
	delete(p.m, id)
	p.mu.Unlock()
}

func (p *pendingTable) resolve(id string, res models.PaymentResult) bool {
	p.mu.Lock()
	ch, ok := p.m[id]
	if ok {
		delete(p.m, id)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}
	ch <- res
	return true
}

// CheckoutGateway is the modal-style flow: it creates a provider order
// for the client's embedded checkout and blocks until the confirm or
// cancel callback resolves the attempt. A successful callback carries
// payment id, provider order id and signature; the signature is checked
// before resolution (advisory).
type CheckoutGateway struct {
	client    *Client
	publisher Publisher
	pending   *pendingTable
}

func NewCheckoutGateway(client *Client, publisher Publisher) *CheckoutGateway {
	return &CheckoutGateway{
		client:    client,
		publisher: publisher,
		pending:   newPendingTable(),
	}
}

func (g *CheckoutGateway) OpenCheckout(ctx context.Context, draft *models.OrderDraft) (models.PaymentResult, error) {
	po, err := g.client.CreateOrder(ctx, draft.TotalAmount, "INR", draft.OrderID)
	if err != nil {
		log.Println("razorpay: create order failed:", err)
		return models.PaymentResult{Success: false, Error: ErrMsgLoadFailed}, nil
	}

	ch := g.pending.register(po.ID)
	defer g.pending.unregister(po.ID)

	g.publish(ctx, draft, PendingCheckout{
		OrderID:         draft.OrderID,
		ProviderOrderID: po.ID,
		KeyID:           g.client.KeyID,
		Amount:          draft.TotalAmount,
		Currency:        "INR",
	})

	// No timeout here: the attempt stays open until the user acts or
	// the request context ends.
	select {
	case res := <-ch:
		res.ProviderOrderID = po.ID
		return res, nil
	case <-ctx.Done():
		return models.PaymentResult{Success: false, Error: ErrMsgCancelled}, nil
	}
}

// Confirm resolves a pending attempt with the client-reported payment
// fields after an advisory signature check.
func (g *CheckoutGateway) Confirm(providerOrderID, paymentID, signature string) bool {
	if !g.client.VerifySignature(providerOrderID, paymentID, signature) {
		return g.pending.resolve(providerOrderID, models.PaymentResult{
			Success: false,
			Error:   "Payment verification failed",
		})
	}
	return g.pending.resolve(providerOrderID, models.PaymentResult{
		Success:   true,
		PaymentID: paymentID,
		Signature: signature,
	})
}

// Cancel resolves a pending attempt as dismissed by the user.
func (g *CheckoutGateway) Cancel(providerOrderID string) bool {
	return g.pending.resolve(providerOrderID, models.PaymentResult{
		Success: false,
		Error:   ErrMsgCancelled,
	})
}

func (g *CheckoutGateway) publish(ctx context.Context, draft *models.OrderDraft, pc PendingCheckout) {
	if g.publisher == nil {
		return
	}
	if err := g.publisher.Publish(ctx, draft.BuyerID, pc); err != nil {
		log.Println("razorpay: publish pending checkout failed:", err)
	}
}

// HostedGateway is the redirect-style flow: it hands the client a
// hosted checkout URL and treats any non-cancel completion as a
// provisional success. Authoritative confirmation happens server-side
// out of band.
type HostedGateway struct {
	client    *Client
	publisher Publisher
	pending   *pendingTable
	returnURL string
}

func NewHostedGateway(client *Client, publisher Publisher, returnURL string) *HostedGateway {
	return &HostedGateway{
		client:    client,
		publisher: publisher,
		pending:   newPendingTable(),
		returnURL: returnURL,
	}
}

func (g *HostedGateway) OpenCheckout(ctx context.Context, draft *models.OrderDraft) (models.PaymentResult, error) {
	po, err := g.client.CreateOrder(ctx, draft.TotalAmount, "INR", draft.OrderID)
	if err != nil {
		log.Println("razorpay: create order failed:", err)
		return models.PaymentResult{Success: false, Error: ErrMsgLoadFailed}, nil
	}

	ch := g.pending.register(po.ID)
	defer g.pending.unregister(po.ID)

	pc := PendingCheckout{
		OrderID:         draft.OrderID,
		ProviderOrderID: po.ID,
		KeyID:           g.client.KeyID,
		Amount:          draft.TotalAmount,
		Currency:        "INR",
		CheckoutURL:     g.CheckoutURL(po, draft),
	}
	if g.publisher != nil {
		if err := g.publisher.Publish(ctx, draft.BuyerID, pc); err != nil {
			log.Println("razorpay: publish pending checkout failed:", err)
		}
	}

	select {
	case res := <-ch:
		res.ProviderOrderID = po.ID
		return res, nil
	case <-ctx.Done():
		return models.PaymentResult{Success: false, Error: ErrMsgCancelled}, nil
	}
}

// Complete resolves a hosted attempt when the browser view returns.
// Cancelled is the only definitive outcome a return can carry; anything
// else is a provisional success pending server-side verification.
func (g *HostedGateway) Complete(providerOrderID string, cancelled bool) bool {
	if cancelled {
		return g.pending.resolve(providerOrderID, models.PaymentResult{
			Success: false,
			Error:   ErrMsgCancelled,
		})
	}
	return g.pending.resolve(providerOrderID, models.PaymentResult{
		Success: true,
	})
}

// CheckoutURL builds the hosted checkout URL with order parameters and
// redirect/cancel targets.
func (g *HostedGateway) CheckoutURL(po *ProviderOrder, draft *models.OrderDraft) string {
	params := url.Values{}
	params.Set("key_id", g.client.KeyID)
	params.Set("order_id", po.ID)
	params.Set("amount", strconv.FormatInt(po.Amount, 10))
	params.Set("currency", po.Currency)
	params.Set("name", "V2V Bike Parts")
	params.Set("redirect_url", g.returnURL)
	params.Set("cancel_url", g.returnURL)
	return "https://checkout.razorpay.com/v1/checkout.js?" + params.Encode()
}

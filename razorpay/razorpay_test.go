package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"vparts/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		KeyID:      "rzp_test_key",
		KeySecret:  "rzp_test_secret",
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSignAndVerify(t *testing.T) {
	c := testClient("")
	sig := Sign(c.KeySecret, "order_abc", "pay_xyz")

	assert.True(t, c.VerifySignature("order_abc", "pay_xyz", sig))
	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", "bogus"))
	assert.False(t, c.VerifySignature("order_other", "pay_xyz", sig))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// 1870 rupees on the wire as paise
		assert.Equal(t, float64(187000), payload["amount"])
		assert.Equal(t, "INR", payload["currency"])
		assert.Equal(t, "ORD123456001", payload["receipt"])

		json.NewEncoder(w).Encode(ProviderOrder{
			ID: "order_live1", Amount: 187000, Currency: "INR",
			Receipt: "ORD123456001", Status: "created",
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	po, err := c.CreateOrder(context.Background(), 1870, "INR", "ORD123456001")

	require.NoError(t, err)
	assert.Equal(t, "order_live1", po.ID)
	assert.Equal(t, int64(187000), po.Amount)
}

func TestCreateOrder_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CreateOrder(context.Background(), 100, "INR", "r1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func draftFor(total float64) *models.OrderDraft {
	return &models.OrderDraft{
		OrderID:     "ORD123456001",
		BuyerID:     "u-buyer",
		TotalAmount: total,
	}
}

func providerStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ProviderOrder{
			ID: "order_stub", Amount: 187000, Currency: "INR", Status: "created",
		})
	}))
}

func TestCheckoutGateway_ConfirmResolvesSuccess(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	g := NewCheckoutGateway(testClient(srv.URL), nil)

	done := make(chan models.PaymentResult, 1)
	go func() {
		res, err := g.OpenCheckout(context.Background(), draftFor(1870))
		require.NoError(t, err)
		done <- res
	}()

	sig := Sign("rzp_test_secret", "order_stub", "pay_ok")
	require.Eventually(t, func() bool {
		return g.Confirm("order_stub", "pay_ok", sig)
	}, time.Second, 5*time.Millisecond)

	res := <-done
	assert.True(t, res.Success)
	assert.Equal(t, "pay_ok", res.PaymentID)
	assert.Equal(t, "order_stub", res.ProviderOrderID)
	assert.Equal(t, sig, res.Signature)
}

func TestCheckoutGateway_BadSignatureResolvesFailure(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	g := NewCheckoutGateway(testClient(srv.URL), nil)

	done := make(chan models.PaymentResult, 1)
	go func() {
		res, _ := g.OpenCheckout(context.Background(), draftFor(1870))
		done <- res
	}()

	require.Eventually(t, func() bool {
		return g.Confirm("order_stub", "pay_ok", "forged")
	}, time.Second, 5*time.Millisecond)

	res := <-done
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "verification failed")
}

func TestCheckoutGateway_CancelResolvesCancelled(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	g := NewCheckoutGateway(testClient(srv.URL), nil)

	done := make(chan models.PaymentResult, 1)
	go func() {
		res, _ := g.OpenCheckout(context.Background(), draftFor(1870))
		done <- res
	}()

	require.Eventually(t, func() bool {
		return g.Cancel("order_stub")
	}, time.Second, 5*time.Millisecond)

	res := <-done
	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgCancelled, res.Error)
}

func TestCheckoutGateway_ProviderDownIsLoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewCheckoutGateway(testClient(srv.URL), nil)
	res, err := g.OpenCheckout(context.Background(), draftFor(1870))

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgLoadFailed, res.Error)
}

func TestCheckoutGateway_ContextCancelIsUserCancel(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	g := NewCheckoutGateway(testClient(srv.URL), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan models.PaymentResult, 1)
	go func() {
		res, _ := g.OpenCheckout(ctx, draftFor(1870))
		done <- res
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	res := <-done
	assert.False(t, res.Success)
	assert.Equal(t, ErrMsgCancelled, res.Error)
}

func TestHostedGateway_CompleteAndCancel(t *testing.T) {
	srv := providerStub(t)
	defer srv.Close()

	t.Run("non-cancel completion is provisional success", func(t *testing.T) {
		g := NewHostedGateway(testClient(srv.URL), nil, "https://app.example/payment-callback")
		done := make(chan models.PaymentResult, 1)
		go func() {
			res, _ := g.OpenCheckout(context.Background(), draftFor(1870))
			done <- res
		}()

		require.Eventually(t, func() bool {
			return g.Complete("order_stub", false)
		}, time.Second, 5*time.Millisecond)

		res := <-done
		assert.True(t, res.Success)
		assert.Equal(t, "order_stub", res.ProviderOrderID)
		assert.Empty(t, res.PaymentID) // confirmed out of band
	})

	t.Run("cancel is cancelled", func(t *testing.T) {
		g := NewHostedGateway(testClient(srv.URL), nil, "https://app.example/payment-callback")
		done := make(chan models.PaymentResult, 1)
		go func() {
			res, _ := g.OpenCheckout(context.Background(), draftFor(1870))
			done <- res
		}()

		require.Eventually(t, func() bool {
			return g.Complete("order_stub", true)
		}, time.Second, 5*time.Millisecond)

		res := <-done
		assert.False(t, res.Success)
		assert.Equal(t, ErrMsgCancelled, res.Error)
	})
}

func TestHostedGateway_CheckoutURL(t *testing.T) {
	g := NewHostedGateway(testClient(""), nil, "https://app.example/payment-callback")
	po := &ProviderOrder{ID: "order_u1", Amount: 187000, Currency: "INR"}

	raw := g.CheckoutURL(po, draftFor(1870))
	require.True(t, strings.HasPrefix(raw, "https://checkout.razorpay.com/v1/checkout.js?"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "rzp_test_key", q.Get("key_id"))
	assert.Equal(t, "order_u1", q.Get("order_id"))
	assert.Equal(t, "187000", q.Get("amount"))
	assert.Equal(t, "INR", q.Get("currency"))
	assert.Equal(t, "https://app.example/payment-callback", q.Get("redirect_url"))
	assert.Equal(t, "https://app.example/payment-callback", q.Get("cancel_url"))
}

func TestResolveUnknownOrder(t *testing.T) {
	g := NewCheckoutGateway(testClient(""), nil)
	assert.False(t, g.Cancel("order_never_seen"))
}

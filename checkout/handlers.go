package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vparts/razorpay"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes the orchestrator and the provider callbacks.
type Handler struct {
	Orchestrator *Orchestrator
	Modal        *razorpay.CheckoutGateway
	Hosted       *razorpay.HostedGateway
	Pending      *razorpay.RedisPublisher
}

// PlaceOrder runs one checkout attempt. For online payments the
// request is held open until the provider callback resolves it.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("PlaceOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	outcome, err := h.Orchestrator.PlaceOrder(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart),
			errors.Is(err, ErrNoAddress),
			errors.Is(err, ErrInvalidAddress),
			errors.Is(err, ErrInvalidMethod):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotBuyer):
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, ErrAttemptInFlight):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			log.Println("PlaceOrder error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order. Please try again.")
		}
		return
	}

	code := http.StatusCreated
	if outcome.State != StateOrderPersisted {
		code = http.StatusOK
	}
	utils.RespondWithJSON(w, code, outcome)
}

// PendingCheckout returns the provider parameters for the caller's
// in-flight attempt, if any.
func (h *Handler) PendingCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if h.Pending == nil {
		http.Error(w, "No pending checkout", http.StatusNotFound)
		return
	}

	pc, err := h.Pending.Fetch(r.Context(), userID)
	if err != nil {
		log.Println("PendingCheckout fetch error:", err)
		http.Error(w, "Could not read pending checkout", http.StatusInternalServerError)
		return
	}
	if pc == nil {
		http.Error(w, "No pending checkout", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pc)
}

type confirmRequest struct {
	ProviderOrderID string `json:"providerOrderId"`
	PaymentID       string `json:"paymentId"`
	Signature       string `json:"signature"`
}

// ConfirmPayment resolves a modal attempt with the client-reported
// payment fields.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProviderOrderID == "" || req.PaymentID == "" {
		http.Error(w, "Missing payment fields", http.StatusBadRequest)
		return
	}

	if !h.Modal.Confirm(req.ProviderOrderID, req.PaymentID, req.Signature) {
		http.Error(w, "No matching attempt", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

type cancelRequest struct {
	ProviderOrderID string `json:"providerOrderId"`
}

// CancelPayment resolves a modal attempt as dismissed.
func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !h.Modal.Cancel(req.ProviderOrderID) {
		http.Error(w, "No matching attempt", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type returnRequest struct {
	ProviderOrderID string `json:"providerOrderId"`
	Cancelled       bool   `json:"cancelled"`
}

// PaymentReturn resolves a hosted attempt when the browser view
// returns to the app.
func (h *Handler) PaymentReturn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.Hosted == nil {
		http.Error(w, "Hosted checkout not configured", http.StatusNotFound)
		return
	}
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !h.Hosted.Complete(req.ProviderOrderID, req.Cancelled) {
		http.Error(w, "No matching attempt", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "received"})
}

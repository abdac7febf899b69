package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Handler exposes the cart store over HTTP.
type Handler struct {
	Carts *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Carts: store}
}

type mutateRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart returns the caller's cart with derived totals.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Carts.Get(r.Context(), userID))
}

// AddToCart looks the product up so the unit price is snapshotted
// server-side, then merges it into the cart.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "Missing productId", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productId": req.ProductID}).Decode(&product); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if !product.Active || product.Stock < 1 {
		http.Error(w, "Product unavailable", http.StatusConflict)
		return
	}

	state := h.Carts.AddItem(ctx, userID, product, req.Quantity)
	utils.RespondWithJSON(w, http.StatusCreated, state)
}

// UpdateCartItem sets a quantity; zero or less removes the item.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("UpdateCartItem decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		http.Error(w, "Missing productId", http.StatusBadRequest)
		return
	}

	state := h.Carts.UpdateQuantity(r.Context(), userID, req.ProductID, req.Quantity)
	utils.RespondWithJSON(w, http.StatusOK, state)
}

// RemoveFromCart drops one product from the cart.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	state := h.Carts.RemoveItem(r.Context(), userID, ps.ByName("productid"))
	utils.RespondWithJSON(w, http.StatusOK, state)
}

// ClearCart empties the cart and removes its snapshot.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	state := h.Carts.ClearCart(r.Context(), userID)
	utils.RespondWithJSON(w, http.StatusOK, state)
}

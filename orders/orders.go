package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/notifications"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Forward-only status progression for vendor updates. Cancellation is
// handled separately and only from the first two states.
var statusRank = map[string]int{
	"pending":    0,
	"confirmed":  1,
	"processing": 2,
	"shipped":    3,
	"delivered":  4,
}

// GetBuyerOrders lists the caller's orders, newest first.
func GetBuyerOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"buyerId": buyerID}, opts)
	if err != nil {
		log.Println("GetBuyerOrders find error:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Failed to decode orders", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// GetOrder fetches one order. Buyers see their own orders; vendors see
// orders containing their line items.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orderID := ps.ByName("orderid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{
		"orderId": orderID,
		"$or": []bson.M{
			{"buyerId": userID},
			{"items.vendorId": userID},
		},
	}).Decode(&order)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// GetVendorOrders lists orders containing at least one of the vendor's
// line items. Optional status filter.
func GetVendorOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	vendorID := utils.GetUserIDFromRequest(r)
	if vendorID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := bson.M{"items.vendorId": vendorID}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.OrderCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetVendorOrders find error:", err)
		http.Error(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Failed to decode orders", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order forward through the fulfilment
// states. Vendor only, and only on orders carrying their items.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	vendorID := utils.GetUserIDFromRequest(r)
	if vendorID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orderID := ps.ByName("orderid")

	var input struct {
		Status   string               `json:"status"`
		Tracking *models.TrackingInfo `json:"tracking"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input data", http.StatusBadRequest)
		return
	}

	newRank, ok := statusRank[input.Status]
	if !ok {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{
		"orderId":        orderID,
		"items.vendorId": vendorID,
	}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if order.Status == "cancelled" {
		http.Error(w, "Order is cancelled", http.StatusConflict)
		return
	}
	if newRank <= statusRank[order.Status] {
		http.Error(w, fmt.Sprintf("Cannot move order from %s to %s", order.Status, input.Status), http.StatusConflict)
		return
	}
	if input.Status == "shipped" && input.Tracking == nil {
		http.Error(w, "Tracking info is required when marking an order shipped", http.StatusBadRequest)
		return
	}

	updateFields := bson.M{
		"status":    input.Status,
		"updatedAt": time.Now(),
	}
	if input.Tracking != nil {
		input.Tracking.UpdatedAt = time.Now()
		if input.Tracking.Status == "" {
			input.Tracking.Status = input.Status
		}
		updateFields["tracking"] = input.Tracking
	}

	_, err = db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		log.Println("UpdateOrderStatus update error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	notifications.Notify(order.BuyerID, "order",
		fmt.Sprintf("Order %s %s", orderID, input.Status),
		fmt.Sprintf("Your order is now %s.", input.Status),
		orderID,
	)

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order status updated",
		"status":  input.Status,
	})
}

// CancelOrder lets the buyer cancel before fulfilment starts. COD
// orders simply stop; online payments are flagged for refund.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	orderID := ps.ByName("orderid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderId": orderID, "buyerId": buyerID}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if order.Status != "pending" && order.Status != "confirmed" {
		http.Error(w, "Order can no longer be cancelled", http.StatusConflict)
		return
	}

	updateFields := bson.M{
		"status":    "cancelled",
		"updatedAt": time.Now(),
	}
	if order.Payment.Method != "cod" && order.Payment.Status == "completed" {
		updateFields["payment.status"] = "refund_pending"
	}

	_, err = db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": updateFields},
	)
	if err != nil {
		log.Println("CancelOrder update error:", err)
		http.Error(w, "Failed to cancel order", http.StatusInternalServerError)
		return
	}

	for _, vendorID := range vendorIDs(order.Items) {
		notifications.Notify(vendorID, "order",
			fmt.Sprintf("Order %s cancelled", orderID),
			"The buyer cancelled this order.",
			orderID,
		)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order cancelled",
	})
}

func vendorIDs(items []models.LineItem) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, it := range items {
		if it.VendorID != "" && !seen[it.VendorID] {
			seen[it.VendorID] = true
			ids = append(ids, it.VendorID)
		}
	}
	return ids
}

package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetProfile returns the signed-in account, password and token fields
// stripped by the json tags.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// AddAddress appends a delivery address to the buyer's profile. The
// first address saved becomes the default.
func AddAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if addr.Street == "" || addr.City == "" || addr.PostalCode == "" {
		http.Error(w, "Street, city and postal code are required", http.StatusBadRequest)
		return
	}
	addr.ID = uuid.NewString()
	if addr.Label == "" {
		addr.Label = "Home"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if len(user.Addresses) == 0 {
		addr.IsDefault = true
	}

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$push": bson.M{"addresses": addr},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		log.Println("AddAddress update error:", err)
		http.Error(w, "Failed to save address", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, addr)
}

// DeleteAddress removes a stored address by id.
func DeleteAddress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	addressID := ps.ByName("addressid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{
			"$pull": bson.M{"addresses": bson.M{"id": addressID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		log.Println("DeleteAddress update error:", err)
		http.Error(w, "Failed to delete address", http.StatusInternalServerError)
		return
	}
	if res.ModifiedCount == 0 {
		http.Error(w, "Address not found", http.StatusNotFound)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Address deleted", nil)
}

// RegisterPushToken stores a device token for order notifications.
// Tokens are kept as a set; re-registering is a no-op.
func RegisterPushToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": userID},
		bson.M{"$addToSet": bson.M{"push_tokens": input.Token}},
	)
	if err != nil {
		log.Println("RegisterPushToken update error:", err)
		http.Error(w, "Failed to register token", http.StatusInternalServerError)
		return
	}
	utils.SendResponse(w, http.StatusOK, nil, "Push token registered", nil)
}

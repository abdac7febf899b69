package chats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vparts/db"
	"vparts/models"
	"vparts/notifications"
	"vparts/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func isParticipant(ctx context.Context, conversationID, userID string) bool {
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	cnt, err := db.ConversationsCollection.CountDocuments(cctx, bson.M{
		"conversationId": conversationID,
		"$or": []bson.M{
			{"buyerId": userID},
			{"vendorId": userID},
		},
	})
	return err == nil && cnt > 0
}

func saveMessage(ctx context.Context, msg models.Message) error {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.MessagesCollection.InsertOne(cctx, msg); err != nil {
		return err
	}
	_, err := db.ConversationsCollection.UpdateOne(cctx,
		bson.M{"conversationId": msg.ConversationID},
		bson.M{"$set": bson.M{
			"lastMessage": msg.Content,
			"updatedAt":   msg.CreatedAt,
		}},
	)
	return err
}

// StartConversation opens (or returns) the conversation between the
// calling buyer and a vendor, optionally about a product.
func StartConversation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buyerID := utils.GetUserIDFromRequest(r)
	if buyerID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		VendorID  string `json:"vendorId"`
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.VendorID == "" {
		http.Error(w, "Vendor ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"buyerId": buyerID, "vendorId": input.VendorID}
	if input.ProductID != "" {
		filter["productId"] = input.ProductID
	}

	var conv models.Conversation
	err := db.ConversationsCollection.FindOne(ctx, filter).Decode(&conv)
	if err == nil {
		utils.RespondWithJSON(w, http.StatusOK, conv)
		return
	}
	if err != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conv = models.Conversation{
		ConversationID: "c" + utils.GenerateID(14),
		BuyerID:        buyerID,
		VendorID:       input.VendorID,
		ProductID:      input.ProductID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if _, err := db.ConversationsCollection.InsertOne(ctx, conv); err != nil {
		http.Error(w, "Failed to start conversation", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, conv)
}

// GetConversations lists the caller's conversations, most recently
// active first.
func GetConversations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := db.ConversationsCollection.Find(ctx, bson.M{
		"$or": []bson.M{
			{"buyerId": userID},
			{"vendorId": userID},
		},
	}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch conversations", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	conversations := []models.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		http.Error(w, "Failed to decode conversations", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, conversations)
}

// GetMessages lists a conversation's messages, oldest first.
// Participants only.
func GetMessages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := ps.ByName("conversationid")

	if !isParticipant(r.Context(), conversationID, userID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(200)
	cursor, err := db.MessagesCollection.Find(ctx, bson.M{"conversationId": conversationID}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch messages", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		http.Error(w, "Failed to decode messages", http.StatusInternalServerError)
		return
	}

	// Opening a conversation reads the other side's messages.
	_, err = db.MessagesCollection.UpdateMany(ctx,
		bson.M{"conversationId": conversationID, "senderId": bson.M{"$ne": userID}, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		log.Println("GetMessages mark read error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, messages)
}

// SendMessage posts a message over REST. The websocket path is
// preferred; this covers clients without a socket.
func SendMessage(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		conversationID := ps.ByName("conversationid")

		if !isParticipant(r.Context(), conversationID, userID) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var input struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Content == "" {
			http.Error(w, "Message content is required", http.StatusBadRequest)
			return
		}

		msg := models.Message{
			MessageID:      "m" + utils.GenerateID(16),
			ConversationID: conversationID,
			SenderID:       userID,
			Content:        input.Content,
			CreatedAt:      time.Now(),
		}
		if err := saveMessage(r.Context(), msg); err != nil {
			log.Println("SendMessage insert error:", err)
			http.Error(w, "Failed to send message", http.StatusInternalServerError)
			return
		}

		out := outboundPayload{
			Action:         "chat",
			ID:             msg.MessageID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			Content:        msg.Content,
			Timestamp:      msg.CreatedAt.Unix(),
		}
		if data, err := json.Marshal(out); err == nil {
			hub.Broadcast(conversationID, data)
		}

		notifyRecipient(r.Context(), conversationID, userID, input.Content)

		utils.RespondWithJSON(w, http.StatusCreated, msg)
	}
}

func notifyRecipient(ctx context.Context, conversationID, senderID, content string) {
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var conv models.Conversation
	if err := db.ConversationsCollection.FindOne(cctx, bson.M{"conversationId": conversationID}).Decode(&conv); err != nil {
		return
	}
	recipient := conv.BuyerID
	if senderID == conv.BuyerID {
		recipient = conv.VendorID
	}
	if len(content) > 80 {
		content = content[:80] + "..."
	}
	notifications.Notify(recipient, "message", "New message", content, conversationID)
}

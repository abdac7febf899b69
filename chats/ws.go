package chats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vparts/db"
	"vparts/middleware"
	"vparts/models"
	"vparts/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type inboundPayload struct {
	Action  string `json:"action"` // "chat"
	Content string `json:"content,omitempty"`
}

type outboundPayload struct {
	Action         string `json:"action"`
	ID             string `json:"id"`
	ConversationID string `json:"conversationId,omitempty"`
	SenderID       string `json:"senderId,omitempty"`
	Content        string `json:"content,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// WebSocketHandler attaches a client to a conversation. The token
// arrives as a query parameter because websocket clients cannot set
// the Authorization header.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		conversationID := ps.ByName("conversationid")

		claims, err := middleware.ParseToken(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID

		if !isParticipant(r.Context(), conversationID, userID) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("chat upgrade:", err)
			return
		}
		client := &Client{
			Conn:           conn,
			Send:           make(chan []byte, 256),
			ConversationID: conversationID,
			UserID:         userID,
		}

		// Send the last 30 messages, oldest first.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			opts := options.Find().
				SetSort(bson.D{{Key: "createdAt", Value: -1}}).
				SetLimit(30)

			cur, err := db.MessagesCollection.Find(ctx, bson.M{"conversationId": conversationID}, opts)
			if err != nil {
				log.Println("chat history find:", err)
				return
			}
			defer cur.Close(ctx)

			var history []models.Message
			if err := cur.All(ctx, &history); err != nil {
				log.Println("chat history decode:", err)
				return
			}
			for i := len(history) - 1; i >= 0; i-- {
				m := history[i]
				out := outboundPayload{
					Action:         "chat",
					ID:             m.MessageID,
					ConversationID: m.ConversationID,
					SenderID:       m.SenderID,
					Content:        m.Content,
					Timestamp:      m.CreatedAt.Unix(),
				}
				if data, err := json.Marshal(out); err == nil {
					client.Send <- data
				}
			}
		}()

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("chat invalid payload:", err)
			continue
		}
		if in.Action != "chat" || in.Content == "" {
			continue
		}

		msg := models.Message{
			MessageID:      "m" + utils.GenerateID(16),
			ConversationID: c.ConversationID,
			SenderID:       c.UserID,
			Content:        in.Content,
			CreatedAt:      time.Now(),
		}
		if err := saveMessage(context.Background(), msg); err != nil {
			log.Println("chat insert:", err)
			continue
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
			hub.Broadcast(c.ConversationID, data)
		}
	}
}

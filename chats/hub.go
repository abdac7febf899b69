// Package chats is the buyer-vendor messaging surface: conversations
// and messages in Mongo, live delivery over websockets.
package chats

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn           *websocket.Conn
	Send           chan []byte
	ConversationID string
	UserID         string
}

type broadcastMsg struct {
	ConversationID string
	Data           []byte
}

// Hub fans messages out to every client attached to a conversation.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.ConversationID] == nil {
				h.rooms[c.ConversationID] = make(map[*Client]bool)
			}
			h.rooms[c.ConversationID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.ConversationID]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.ConversationID] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.ConversationID], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub's event loop down.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast sends data to every open client on a conversation.
func (h *Hub) Broadcast(conversationID string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{ConversationID: conversationID, Data: data}:
	case <-h.done:
	}
}

package chats

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:           make(chan []byte, 10),
		ConversationID: "conv1",
	}
	hub.register <- client

	msg := outboundPayload{Action: "chat", Content: "hello test"}
	data, _ := json.Marshal(msg)
	hub.Broadcast("conv1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubBroadcastOnlyToConversation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), ConversationID: "conv-a"}
	b := &Client{Send: make(chan []byte, 10), ConversationID: "conv-b"}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("conv-a", []byte("for a only"))

	select {
	case got := <-a.Send:
		if string(got) != "for a only" {
			t.Fatalf("unexpected payload: %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case got := <-b.Send:
		t.Fatalf("client in another conversation received %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

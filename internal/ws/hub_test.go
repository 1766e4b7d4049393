package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubDeliversBroadcasts(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastJSON(map[string]any{"type": "scan_finished", "processed": 3})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev map[string]any
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatal(err)
	}
	if ev["type"] != "scan_finished" || ev["processed"] != float64(3) {
		t.Errorf("event = %v", ev)
	}
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 300; i++ {
		hub.BroadcastJSON(map[string]int{"i": i})
	}
	if hub.Dropped() != 300-256 {
		t.Errorf("dropped = %d, want %d", hub.Dropped(), 300-256)
	}
}

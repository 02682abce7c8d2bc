package websocket

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients, have %d", want, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEmitDeliversToEveryClient(t *testing.T) {
	h := NewHub()
	go h.Run()

	a := &Client{UserID: "a", UserRole: "admin", send: make(chan []byte, 4)}
	b := &Client{UserID: "b", UserRole: "collector", send: make(chan []byte, 4)}
	h.register <- a
	h.register <- b
	waitForClients(t, h, 2)

	h.Emit(EventBinUpdated, map[string]string{"binId": "BIN-001"})

	for _, c := range []*Client{a, b} {
		select {
		case raw := <-c.send:
			var envelope Envelope
			if err := json.Unmarshal(raw, &envelope); err != nil {
				t.Fatalf("client %s received invalid payload: %v", c.UserID, err)
			}
			if envelope.Event != EventBinUpdated {
				t.Fatalf("client %s got event %q", c.UserID, envelope.Event)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %s never received the event", c.UserID)
		}
	}
}

func TestEmitToRoleTargetsOnlyThatRole(t *testing.T) {
	h := NewHub()
	go h.Run()

	admin := &Client{UserID: "admin-1", UserRole: "admin", send: make(chan []byte, 4)}
	collector := &Client{UserID: "coll-1", UserRole: "collector", send: make(chan []byte, 4)}
	h.register <- admin
	h.register <- collector
	waitForClients(t, h, 2)

	h.EmitToRole("admin", EventRouteUpdated, map[string]string{"id": "r1"})

	select {
	case <-admin.send:
	case <-time.After(time.Second):
		t.Fatal("admin never received the role-targeted event")
	}

	select {
	case <-collector.send:
		t.Fatal("collector received an admin-targeted event")
	case <-time.After(50 * time.Millisecond):
	}
}

// A client that stops reading gets disconnected by a targeted send
// while broadcasts keep flowing; the two paths must not corrupt the
// client map when they overlap.
func TestFullClientDisconnectDuringBroadcast(t *testing.T) {
	h := NewHub()
	go h.Run()

	// Zero buffer and no reader: the first targeted send overflows.
	stuck := &Client{UserID: "stuck", UserRole: "collector", send: make(chan []byte)}
	h.register <- stuck
	waitForClients(t, h, 1)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			h.EmitToUser("stuck", EventRouteAssigned, i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			h.Emit(EventBinUpdated, i)
		}
	}()
	wg.Wait()

	waitForClients(t, h, 0)
}

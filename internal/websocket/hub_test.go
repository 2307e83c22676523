package websocket

import (
	"encoding/json"
	"testing"
)

func newTestClient(hub *Hub, userID uint, chatID uint) *Client {
	return NewClient(hub, nil, userID, "user", chatID)
}

func receiveEvent(t *testing.T, c *Client) *ChatEvent {
	t.Helper()
	select {
	case frame := <-c.Send:
		var event ChatEvent
		if err := json.Unmarshal(frame, &event); err != nil {
			t.Fatalf("unmarshal delivered frame: %v", err)
		}
		return &event
	default:
		t.Fatal("expected a delivered frame, queue is empty")
		return nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case frame, ok := <-c.Send:
		if ok {
			t.Fatalf("unexpected frame delivered: %s", frame)
		}
	default:
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, 1, 7)

	hub.Register(client)
	hub.Register(client)

	if got := hub.RoomSize(7); got != 1 {
		t.Fatalf("RoomSize = %d, want 1", got)
	}
}

func TestUnregisterLeavesRoomExactlyOnce(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, 1, 7)

	hub.Register(client)
	hub.Unregister(client)

	if got := hub.RoomSize(7); got != 0 {
		t.Fatalf("RoomSize = %d, want 0", got)
	}

	// Повторный вызов не должен паниковать на закрытом канале
	hub.Unregister(client)
}

func TestUnregisterOfUnknownClientIsNoop(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, 1, 7)

	hub.Unregister(client)

	if got := hub.RoomSize(7); got != 0 {
		t.Fatalf("RoomSize = %d, want 0", got)
	}
}

func TestBroadcastReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(hub, 1, 7)
	peer := newTestClient(hub, 2, 7)
	secondDevice := newTestClient(hub, 1, 7)

	hub.Register(sender)
	hub.Register(peer)
	hub.Register(secondDevice)

	hub.Broadcast(7, &ChatEvent{ID: 10, SenderID: 1, Sender: "alice", Text: "hi"})

	for _, c := range []*Client{sender, peer, secondDevice} {
		event := receiveEvent(t, c)
		if event.ID != 10 || event.Text != "hi" {
			t.Fatalf("delivered event = %+v", event)
		}
		wantOwn := c.UserID == 1
		if event.IsOwn != wantOwn {
			t.Errorf("is_own for user %d = %v, want %v", c.UserID, event.IsOwn, wantOwn)
		}
		assertNoEvent(t, c)
	}
}

func TestBroadcastDoesNotLeakAcrossRooms(t *testing.T) {
	hub := NewHub()
	inRoom := newTestClient(hub, 1, 7)
	elsewhere := newTestClient(hub, 2, 8)

	hub.Register(inRoom)
	hub.Register(elsewhere)

	hub.Broadcast(7, &ChatEvent{ID: 1, SenderID: 1, Text: "hi"})

	receiveEvent(t, inRoom)
	assertNoEvent(t, elsewhere)
}

func TestBroadcastAfterUnregisterSkipsClient(t *testing.T) {
	hub := NewHub()
	gone := newTestClient(hub, 1, 7)
	stays := newTestClient(hub, 2, 7)

	hub.Register(gone)
	hub.Register(stays)
	hub.Unregister(gone)

	hub.Broadcast(7, &ChatEvent{ID: 1, SenderID: 2, Text: "hi"})

	receiveEvent(t, stays)
	assertNoEvent(t, gone)
}

func TestFullClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, 1, 7)
	fast := newTestClient(hub, 2, 7)

	hub.Register(slow)
	hub.Register(fast)

	// Забиваем очередь медленного клиента
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("x")
	}

	hub.Broadcast(7, &ChatEvent{ID: 1, SenderID: 2, Text: "hi"})

	event := receiveEvent(t, fast)
	if event.Text != "hi" {
		t.Fatalf("delivered event = %+v", event)
	}
}

func TestRoomUsersDeduplicatesByUser(t *testing.T) {
	hub := NewHub()
	first := newTestClient(hub, 1, 7)
	second := newTestClient(hub, 1, 7)
	other := newTestClient(hub, 2, 7)

	hub.Register(first)
	hub.Register(second)
	hub.Register(other)

	users := hub.RoomUsers(7)
	if len(users) != 2 {
		t.Fatalf("RoomUsers = %v, want 2 unique users", users)
	}
}

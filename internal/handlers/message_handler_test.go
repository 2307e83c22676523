package handlers

import (
	"encoding/json"
	"testing"

	"github.com/almateam/alma-market/internal/websocket"
)

func drainEvent(t *testing.T, c *websocket.Client) *websocket.ChatEvent {
	t.Helper()
	select {
	case frame := <-c.Send:
		var event websocket.ChatEvent
		if err := json.Unmarshal(frame, &event); err != nil {
			t.Fatalf("unmarshal frame: %v", err)
		}
		return &event
	default:
		t.Fatal("expected a delivered frame")
		return nil
	}
}

func assertQueueEmpty(t *testing.T, c *websocket.Client) {
	t.Helper()
	select {
	case frame := <-c.Send:
		t.Fatalf("unexpected frame delivered: %s", frame)
	default:
	}
}

func TestHandleFrameEmptyTextIsNoop(t *testing.T) {
	d := newTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")

	chat, err := d.GetOrCreateChat(alice.ID, bob.ID, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	hub := websocket.NewHub()
	sender := websocket.NewClient(hub, nil, alice.ID, alice.Username, chat.ID)
	peer := websocket.NewClient(hub, nil, bob.ID, bob.Username, chat.ID)
	hub.Register(sender)
	hub.Register(peer)

	h := NewMessageHandler(d, hub)

	for _, frame := range []string{`{"text":""}`, `{"text":"   \n\t "}`, `{}`} {
		if err := h.HandleFrame(sender, []byte(frame)); err != nil {
			t.Fatalf("frame %s: %v", frame, err)
		}
	}

	messages, err := d.GetChatMessages(chat.ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("empty frames persisted %d messages", len(messages))
	}
	assertQueueEmpty(t, sender)
	assertQueueEmpty(t, peer)
}

func TestHandleFrameMalformedIsDroppedSilently(t *testing.T) {
	d := newTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")

	chat, err := d.GetOrCreateChat(alice.ID, bob.ID, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	hub := websocket.NewHub()
	sender := websocket.NewClient(hub, nil, alice.ID, alice.Username, chat.ID)
	hub.Register(sender)

	h := NewMessageHandler(d, hub)

	// Соединение должно пережить мусорный кадр без ошибки
	if err := h.HandleFrame(sender, []byte(`{"text":`)); err != nil {
		t.Fatalf("malformed frame returned error: %v", err)
	}
	if err := h.HandleFrame(sender, []byte(`not json at all`)); err != nil {
		t.Fatalf("malformed frame returned error: %v", err)
	}

	messages, _ := d.GetChatMessages(chat.ID)
	if len(messages) != 0 {
		t.Fatalf("malformed frames persisted %d messages", len(messages))
	}
	assertQueueEmpty(t, sender)
}

func TestHandleFramePersistsAndBroadcasts(t *testing.T) {
	d := newTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")

	chat, err := d.GetOrCreateChat(alice.ID, bob.ID, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	hub := websocket.NewHub()
	sender := websocket.NewClient(hub, nil, alice.ID, alice.Username, chat.ID)
	peer := websocket.NewClient(hub, nil, bob.ID, bob.Username, chat.ID)
	hub.Register(sender)
	hub.Register(peer)

	h := NewMessageHandler(d, hub)

	if err := h.HandleFrame(sender, []byte(`{"text":"  hi there  "}`)); err != nil {
		t.Fatalf("handle frame: %v", err)
	}

	messages, err := d.GetChatMessages(chat.ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("persisted %d messages, want 1", len(messages))
	}
	msg := messages[0]
	if msg.SenderID != alice.ID || msg.Text != "hi there" || msg.IsRead {
		t.Fatalf("persisted message = %+v", msg)
	}

	own := drainEvent(t, sender)
	if !own.IsOwn {
		t.Error("sender's copy must have is_own = true")
	}
	theirs := drainEvent(t, peer)
	if theirs.IsOwn {
		t.Error("peer's copy must have is_own = false")
	}

	for _, event := range []*websocket.ChatEvent{own, theirs} {
		if event.ID != msg.ID || event.SenderID != alice.ID || event.Sender != "alice" {
			t.Errorf("event = %+v", event)
		}
		if event.Text != "hi there" || event.IsRead || event.CreatedAt == "" {
			t.Errorf("event payload = %+v", event)
		}
	}

	assertQueueEmpty(t, sender)
	assertQueueEmpty(t, peer)
}

func TestHandleFrameKeepsFrameOrder(t *testing.T) {
	d := newTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")

	chat, err := d.GetOrCreateChat(alice.ID, bob.ID, nil)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	hub := websocket.NewHub()
	sender := websocket.NewClient(hub, nil, alice.ID, alice.Username, chat.ID)
	hub.Register(sender)

	h := NewMessageHandler(d, hub)

	for _, text := range []string{"one", "two", "three"} {
		payload, _ := json.Marshal(websocket.InboundFrame{Text: text})
		if err := h.HandleFrame(sender, payload); err != nil {
			t.Fatalf("handle frame %q: %v", text, err)
		}
	}

	messages, _ := d.GetChatMessages(chat.ID)
	if len(messages) != 3 {
		t.Fatalf("persisted %d messages, want 3", len(messages))
	}
	for i, want := range []string{"one", "two", "three"} {
		if messages[i].Text != want {
			t.Fatalf("message %d = %q, want %q", i, messages[i].Text, want)
		}
	}
}

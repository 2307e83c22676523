package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/almateam/alma-market/internal/database"
	ws "github.com/almateam/alma-market/internal/websocket"
)

func newSocketServer(t *testing.T, d *database.Database, hub *ws.Hub) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	wsH := NewWebSocketHandler(hub, d, NewMessageHandler(d, hub))

	r := gin.New()
	r.Use(testUserMiddleware())
	r.GET("/ws/chat/:id", wsH.HandleChatSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialChat(t *testing.T, srv *httptest.Server, path string, userID uint) (*gorillaws.Conn, *http.Response, error) {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	header := http.Header{}
	header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))
	return gorillaws.DefaultDialer.Dial(url, header)
}

func handshakeBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	if resp == nil {
		t.Fatal("handshake response is nil")
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read handshake body: %v", err)
	}
	resp.Body.Close()
	return string(body)
}

func TestChatSocketRejectsOutsiderBeforeUpgrade(t *testing.T) {
	d := newTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")
	eve := newTestUser(t, d, "eve")

	chat := newChatBetween(t, d, alice.ID, bob.ID)

	hub := ws.NewHub()
	srv := newSocketServer(t, d, hub)

	// Не-участник: рукопожатие не завершается, ответ как для чужого чата
	conn, resp, err := dialChat(t, srv, fmt.Sprintf("/ws/chat/%d", chat.ID), eve.ID)
	if err == nil {
		conn.Close()
		t.Fatal("outsider dial succeeded")
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("outsider handshake status = %d, want 404", resp.StatusCode)
	}
	forOutsider := handshakeBody(t, resp)

	conn, resp, err = dialChat(t, srv, "/ws/chat/99999", eve.ID)
	if err == nil {
		conn.Close()
		t.Fatal("dial to missing chat succeeded")
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing-chat handshake status = %d, want 404", resp.StatusCode)
	}
	forMissing := handshakeBody(t, resp)

	if forOutsider != forMissing {
		t.Fatalf("outsider response %q differs from missing-chat response %q", forOutsider, forMissing)
	}

	// Кривой id тоже отказ
	conn, resp, err = dialChat(t, srv, "/ws/chat/abc", eve.ID)
	if err == nil {
		conn.Close()
		t.Fatal("dial with malformed chat id succeeded")
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("malformed-id handshake status = %d, want 404", resp.StatusCode)
	}

	// Отказанные соединения не попадают в реестр
	if got := hub.RoomSize(chat.ID); got != 0 {
		t.Fatalf("RoomSize after refused dials = %d, want 0", got)
	}
}

func TestChatSocketMemberJoinsAndReceives(t *testing.T) {
	d := newTestDB(t)
	alice := newTestUser(t, d, "alice")
	bob := newTestUser(t, d, "bob")

	chat := newChatBetween(t, d, alice.ID, bob.ID)

	hub := ws.NewHub()
	srv := newSocketServer(t, d, hub)

	conn, _, err := dialChat(t, srv, fmt.Sprintf("/ws/chat/%d", chat.ID), alice.ID)
	if err != nil {
		t.Fatalf("member dial failed: %v", err)
	}
	defer conn.Close()

	// Кадр обрабатывается после регистрации, поэтому полученный
	// ответ доказывает, что соединение попало в реестр
	if err := conn.WriteJSON(ws.InboundFrame{Text: "hi"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}

	var event ws.ChatEvent
	if err := json.Unmarshal(frame, &event); err != nil {
		t.Fatalf("unmarshal event %q: %v", frame, err)
	}
	if event.Text != "hi" || event.Sender != "alice" || !event.IsOwn {
		t.Fatalf("event = %+v, want own message from alice", event)
	}

	if got := hub.RoomSize(chat.ID); got != 1 {
		t.Fatalf("RoomSize with one live member = %d, want 1", got)
	}

	messages, err := d.GetChatMessages(chat.ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(messages) != 1 || messages[0].Text != "hi" {
		t.Fatalf("persisted messages = %+v, want one %q", messages, "hi")
	}
}

package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер кадра
	maxMessageSize = 512 * 1024 // 512KB
)

// FrameHandler обрабатывает входящие кадры соединения
type FrameHandler interface {
	HandleFrame(client *Client, frame []byte) error
}

// Client — одно живое соединение, привязанное к одному чату
type Client struct {
	ID       uuid.UUID
	UserID   uint
	Username string
	ChatID   uint
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint, username string, chatID uint) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Username: username,
		ChatID:   chatID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Hub:      hub,
	}
}

// ReadPump читает кадры от клиента. Кадры одного соединения
// обрабатываются строго по одному, в порядке получения.
// При любом завершении клиент покидает комнату ровно один раз.
func (c *Client) ReadPump(handler FrameHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if handler == nil {
			continue
		}

		if err := handler.HandleFrame(c, frame); err != nil {
			// Ошибка касается только этого кадра, соединение живёт дальше
			log.Printf("Error handling frame: %v", err)
			c.SendError(err.Error())
		}
	}
}

// WritePump отправляет кадры клиенту и поддерживает ping/pong
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, frame)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver ставит событие в очередь отправки, вычислив is_own
// для этого получателя
func (c *Client) deliver(event *ChatEvent) error {
	out := *event
	out.IsOwn = event.SenderID == c.UserID

	frame, err := json.Marshal(&out)
	if err != nil {
		return err
	}

	select {
	case c.Send <- frame:
		return nil
	default:
		return ErrClientQueueFull
	}
}

func (c *Client) SendError(errorMsg string) {
	frame, err := json.Marshal(map[string]string{"error": errorMsg})
	if err != nil {
		return
	}

	select {
	case c.Send <- frame:
	default:
	}
}

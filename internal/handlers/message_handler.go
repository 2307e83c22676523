package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/almateam/alma-market/internal/database"
	"github.com/almateam/alma-market/internal/models"
	"github.com/almateam/alma-market/internal/websocket"
)

// MessageHandler обрабатывает входящие кадры живых соединений:
// сохраняет сообщение и рассылает его участникам чата
type MessageHandler struct {
	db  *database.Database
	hub *websocket.Hub
}

func NewMessageHandler(db *database.Database, hub *websocket.Hub) *MessageHandler {
	return &MessageHandler{
		db:  db,
		hub: hub,
	}
}

func (h *MessageHandler) HandleFrame(client *websocket.Client, frame []byte) error {
	var payload websocket.InboundFrame
	if err := json.Unmarshal(frame, &payload); err != nil {
		// Нечитаемый кадр отбрасываем, соединение живёт
		log.Printf("Malformed frame from client %s: %v", client.ID, err)
		return nil
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		// Пустое сообщение — намеренный no-op
		return nil
	}

	message := &models.Message{
		ChatID:    client.ChatID,
		SenderID:  client.UserID,
		Text:      text,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := h.db.SaveMessage(message); err != nil {
		log.Printf("Failed to save message: %v", err)
		return err
	}

	event := &websocket.ChatEvent{
		ID:        message.ID,
		Sender:    client.Username,
		SenderID:  client.UserID,
		Text:      message.Text,
		IsRead:    message.IsRead,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}

	h.hub.Broadcast(client.ChatID, event)

	go h.db.UpdateLastSeen(client.UserID)

	return nil
}

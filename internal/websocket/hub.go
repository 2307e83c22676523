package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub хранит живые соединения по чатам и рассылает события участникам.
// Одно соединение подписано ровно на один чат.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Соединения по чатам
	rooms map[uint]map[uuid.UUID]*Client

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
		rooms:   make(map[uint]map[uuid.UUID]*Client),
	}
}

// Register регистрирует клиента и добавляет его в комнату чата.
// Повторная регистрация того же клиента ничего не меняет.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		return
	}

	h.clients[client.ID] = client

	if _, ok := h.rooms[client.ChatID]; !ok {
		h.rooms[client.ChatID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[client.ChatID][client.ID] = client

	log.Printf("Client registered: %s (user %d, chat %d)", client.ID, client.UserID, client.ChatID)
}

// Unregister убирает клиента из комнаты и закрывает его очередь отправки.
// Гарантированно выполняется не более одного раза на клиента.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	if room, ok := h.rooms[client.ChatID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, client.ChatID)
		}
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client unregistered: %s (user %d, chat %d)", client.ID, client.UserID, client.ChatID)
}

// Broadcast доставляет событие всем соединениям чата, включая отправителя.
// Переполненная очередь одного клиента не мешает доставке остальным.
func (h *Hub) Broadcast(chatID uint, event *ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[chatID] {
		if err := client.deliver(event); err != nil {
			log.Printf("Client %s dropped event: %v", client.ID, err)
		}
	}
}

// RoomUsers возвращает пользователей с живыми соединениями в чате
func (h *Hub) RoomUsers(chatID uint) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userSet := make(map[uint]bool)
	for _, client := range h.rooms[chatID] {
		userSet[client.UserID] = true
	}

	users := make([]uint, 0, len(userSet))
	for userID := range userSet {
		users = append(users, userID)
	}
	return users
}

// RoomSize возвращает число соединений в чате
func (h *Hub) RoomSize(chatID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[chatID])
}

// Stop закрывает все соединения при остановке процесса
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}

	h.clients = make(map[uuid.UUID]*Client)
	h.rooms = make(map[uint]map[uuid.UUID]*Client)
}

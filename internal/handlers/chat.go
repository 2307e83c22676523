package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/almateam/alma-market/internal/database"
	"github.com/almateam/alma-market/internal/handlers/dto"
	"github.com/almateam/alma-market/internal/middleware"
	"github.com/almateam/alma-market/internal/models"
)

type ChatHandler struct {
	db *database.Database
}

func NewChatHandler(db *database.Database) *ChatHandler {
	return &ChatHandler{db: db}
}

// ListChats возвращает чаты пользователя: собеседник, последнее сообщение,
// число непрочитанных. Если передан chat_id, история выбранного чата
// добавляется в ответ, а его сообщения помечаются прочитанными.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	chats, err := h.db.GetUserChats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chats"})
		return
	}

	chatsResponse := make([]gin.H, len(chats))
	for i, chat := range chats {
		item := gin.H{
			"id":         chat.ID,
			"product_id": chat.ProductID,
			"created_at": chat.CreatedAt,
			"updated_at": chat.UpdatedAt,
		}

		if other := chat.OtherParticipant(userID); other != nil {
			item["other_user"] = gin.H{
				"id":         other.ID,
				"username":   other.Username,
				"avatar_url": other.AvatarURL,
			}
		}

		lastMessage, err := h.db.LastMessage(chat.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chats"})
			return
		}
		if lastMessage != nil {
			item["last_message"] = gin.H{
				"id":         lastMessage.ID,
				"sender_id":  lastMessage.SenderID,
				"text":       lastMessage.Text,
				"created_at": lastMessage.CreatedAt,
			}
		}

		unread, err := h.db.UnreadCount(chat.ID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chats"})
			return
		}
		item["unread_count"] = unread

		chatsResponse[i] = item
	}

	response := gin.H{"chats": chatsResponse}

	// Предвыбранный чат
	if selected := c.Query("chat_id"); selected != "" {
		chatID, err := strconv.ParseUint(selected, 10, 64)
		if err == nil {
			if messages, err := h.openChat(uint(chatID), userID); err == nil {
				response["selected_chat_id"] = uint(chatID)
				response["selected_messages"] = messages
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetChatMessages возвращает историю чата и помечает чужие
// сообщения прочитанными
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	chatID, ok := h.requireMembership(c, userID)
	if !ok {
		return
	}

	messages, err := h.openChat(chatID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat_id":  chatID,
		"messages": messages,
	})
}

// SendMessage отправляет сообщение через HTTP (альтернатива WebSocket).
// Живые соединения этот путь не уведомляет: подключённый собеседник
// увидит сообщение после перезагрузки истории.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	chatID, ok := h.requireMembership(c, userID)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" && req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message cannot be empty"})
		return
	}

	sender, err := h.db.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}

	message := &models.Message{
		ChatID:    chatID,
		SenderID:  userID,
		Text:      text,
		ImageURL:  req.ImageURL,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := h.db.SaveMessage(message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}

	message.Sender = *sender

	c.JSON(http.StatusCreated, formatMessage(message, userID))
}

// StartChat находит чат с указанным пользователем или создаёт новый.
// Повторный вызов с теми же параметрами возвращает тот же чат.
func (h *ChatHandler) StartChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	var req dto.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot start chat with yourself"})
		return
	}

	if _, err := h.db.GetUser(req.UserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Несуществующий товар не мешает созданию чата без привязки
	productID := req.ProductID
	if productID != nil {
		if _, err := h.db.GetProduct(*productID); err != nil {
			productID = nil
		}
	}

	chat, err := h.db.GetOrCreateChat(userID, req.UserID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start chat"})
		return
	}

	participants := make([]uint, len(chat.Participants))
	for i, p := range chat.Participants {
		participants[i] = p.ID
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           chat.ID,
		"product_id":   chat.ProductID,
		"participants": participants,
		"created_at":   chat.CreatedAt,
	})
}

// requireMembership разбирает id чата из пути и проверяет членство.
// Чужой и несуществующий чат неразличимы для вызывающего.
func (h *ChatHandler) requireMembership(c *gin.Context, userID uint) (uint, bool) {
	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return 0, false
	}

	isMember, err := h.db.IsParticipant(uint(chatID), userID)
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check chat"})
		return 0, false
	}
	if !isMember {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return 0, false
	}

	return uint(chatID), true
}

// openChat помечает чужие сообщения прочитанными и возвращает историю
func (h *ChatHandler) openChat(chatID, userID uint) ([]dto.MessageResponse, error) {
	isMember, err := h.db.IsParticipant(chatID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, gorm.ErrRecordNotFound
	}

	if err := h.db.MarkMessagesRead(chatID, userID); err != nil {
		return nil, err
	}

	messages, err := h.db.GetChatMessages(chatID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.MessageResponse, len(messages))
	for i := range messages {
		result[i] = formatMessage(&messages[i], userID)
	}
	return result, nil
}

func formatMessage(msg *models.Message, viewerID uint) dto.MessageResponse {
	var image *string
	if msg.ImageURL != "" {
		image = &msg.ImageURL
	}

	return dto.MessageResponse{
		ID:        msg.ID,
		Sender:    msg.Sender.Username,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		Image:     image,
		IsRead:    msg.IsRead,
		CreatedAt: msg.CreatedAt,
		IsOwn:     msg.SenderID == viewerID,
	}
}

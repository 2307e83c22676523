package dto

import (
	"time"
)

// SendMessageRequest — тело запроса отправки сообщения через HTTP.
// Сообщение должно содержать текст или вложение.
type SendMessageRequest struct {
	Text     string `json:"text" form:"text"`
	ImageURL string `json:"image_url" form:"image_url"`
}

// MessageResponse — элемент истории сообщений чата
type MessageResponse struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	SenderID  uint      `json:"sender_id"`
	Text      string    `json:"text"`
	Image     *string   `json:"image"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	IsOwn     bool      `json:"is_own"`
}

// StartChatRequest — тело запроса создания/поиска чата
type StartChatRequest struct {
	UserID    uint  `json:"user_id" binding:"required"`
	ProductID *uint `json:"product_id"`
}

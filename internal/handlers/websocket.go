package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/almateam/alma-market/internal/database"
	"github.com/almateam/alma-market/internal/middleware"
	ws "github.com/almateam/alma-market/internal/websocket"
)

// WebSocketHandler открывает живые соединения чатов
type WebSocketHandler struct {
	hub      *ws.Hub
	db       *database.Database
	frames   ws.FrameHandler
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, db *database.Database, frames ws.FrameHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		db:     db,
		frames: frames,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: проверять origin в prod
				return true
			},
		},
	}
}

// HandleChatSocket авторизует соединение и подключает его к чату.
// Не-участник получает такой же ответ, как при несуществующем чате,
// без единого кадра.
func (h *WebSocketHandler) HandleChatSocket(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}

	isMember, err := h.db.IsParticipant(uint(chatID), userID.(uint))
	if err != nil || !isMember {
		c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
		return
	}

	user, err := h.db.GetUser(userID.(uint))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID, user.Username, uint(chatID))

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.frames)
}

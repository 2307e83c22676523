package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almateam/alma-market/internal/database"
	"github.com/almateam/alma-market/internal/middleware"
	"github.com/almateam/alma-market/internal/models"
)

type TradeHandler struct {
	db *database.Database
}

func NewTradeHandler(db *database.Database) *TradeHandler {
	return &TradeHandler{db: db}
}

// ListRequests возвращает входящие и исходящие заявки пользователя
func (h *TradeHandler) ListRequests(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	incoming, err := h.db.GetIncomingRequests(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get requests"})
		return
	}

	outgoing, err := h.db.GetOutgoingRequests(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get requests"})
		return
	}

	incomingResult := make([]gin.H, len(incoming))
	for i := range incoming {
		item := formatTradeResponse(&incoming[i])
		item["requester"] = gin.H{
			"id":       incoming[i].Requester.ID,
			"username": incoming[i].Requester.Username,
		}
		incomingResult[i] = item
	}

	outgoingResult := make([]gin.H, len(outgoing))
	for i := range outgoing {
		item := formatTradeResponse(&outgoing[i])
		item["owner"] = gin.H{
			"id":       outgoing[i].Owner.ID,
			"username": outgoing[i].Owner.Username,
		}
		outgoingResult[i] = item
	}

	c.JSON(http.StatusOK, gin.H{
		"incoming": incomingResult,
		"outgoing": outgoingResult,
	})
}

// DecideRequest меняет статус заявки.
// Владелец подтверждает или отклоняет ожидающую заявку,
// инициатор отменяет ожидающую и завершает подтверждённую.
func (h *TradeHandler) DecideRequest(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required,oneof=accept reject cancel complete"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.db.GetTradeRequest(uint(requestID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
		return
	}

	var allowed bool
	var newStatus string

	switch req.Decision {
	case "accept":
		allowed = userID == request.OwnerID && request.Status == models.TradePending
		newStatus = models.TradeAccepted
	case "reject":
		allowed = userID == request.OwnerID && request.Status == models.TradePending
		newStatus = models.TradeRejected
	case "cancel":
		allowed = userID == request.RequesterID && request.Status == models.TradePending
		newStatus = models.TradeCancelled
	case "complete":
		allowed = userID == request.RequesterID && request.Status == models.TradeAccepted
		newStatus = models.TradeCompleted
	}

	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "decision is not allowed"})
		return
	}

	request.Status = newStatus
	request.UpdatedAt = time.Now()

	if err := h.db.UpdateTradeRequest(request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update request"})
		return
	}

	c.JSON(http.StatusOK, formatTradeResponse(request))
}

func formatTradeResponse(request *models.TradeRequest) gin.H {
	response := gin.H{
		"id":         request.ID,
		"product_id": request.ProductID,
		"action":     request.Action,
		"status":     request.Status,
		"created_at": request.CreatedAt,
		"updated_at": request.UpdatedAt,
	}

	if request.Product.ID != 0 {
		response["product"] = gin.H{
			"id":    request.Product.ID,
			"title": request.Product.Title,
			"type":  request.Product.Type,
		}
	}

	return response
}

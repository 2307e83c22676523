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

type RentalHandler struct {
	db *database.Database
}

func NewRentalHandler(db *database.Database) *RentalHandler {
	return &RentalHandler{db: db}
}

// ListRentable возвращает товары, доступные для аренды
func (h *RentalHandler) ListRentable(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	products, err := h.db.GetRentableProducts(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get products"})
		return
	}

	result := make([]gin.H, len(products))
	for i := range products {
		result[i] = formatProductResponse(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{"products": result})
}

// CreateRental оформляет аренду товара и гарантирует наличие заявки
// типа rent в общем списке заявок
func (h *RentalHandler) CreateRental(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	var req struct {
		ProductID          uint   `json:"product_id" binding:"required"`
		ExpectedReturnDate string `json:"expected_return_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.db.GetProduct(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	if product.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot rent your own product"})
		return
	}

	existing, err := h.db.FindActiveRental(product.ID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rentals"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active rental already exists"})
		return
	}

	var expectedReturn *time.Time
	if req.ExpectedReturnDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpectedReturnDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expected_return_date"})
			return
		}
		expectedReturn = &parsed
	}

	rental := &models.RentItem{
		ProductID:          product.ID,
		RenterID:           userID,
		OwnerID:            product.UserID,
		Status:             models.RentActive,
		StartDate:          time.Now(),
		ExpectedReturnDate: expectedReturn,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := h.db.CreateRental(rental); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create rental"})
		return
	}

	if _, err := h.db.GetOrCreateTradeRequest(product.ID, userID, product.UserID, models.ActionRent); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create trade request"})
		return
	}

	product.Status = models.ProductTaken
	if err := h.db.UpdateProduct(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      rental.ID,
		"message": "rental created successfully",
	})
}

// MyRentals возвращает аренды пользователя как арендатора и как владельца
func (h *RentalHandler) MyRentals(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)
	status := c.Query("status")

	rented, err := h.db.GetRentedItems(userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rentals"})
		return
	}

	owned, err := h.db.GetOwnedRentals(userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rentals"})
		return
	}

	rentedResult := make([]gin.H, len(rented))
	for i := range rented {
		item := formatRentalResponse(&rented[i])
		item["owner"] = gin.H{
			"id":       rented[i].Owner.ID,
			"username": rented[i].Owner.Username,
		}
		rentedResult[i] = item
	}

	ownedResult := make([]gin.H, len(owned))
	for i := range owned {
		item := formatRentalResponse(&owned[i])
		item["renter"] = gin.H{
			"id":       owned[i].Renter.ID,
			"username": owned[i].Renter.Username,
		}
		ownedResult[i] = item
	}

	c.JSON(http.StatusOK, gin.H{
		"rented_items":  rentedResult,
		"owned_rentals": ownedResult,
	})
}

// GetRental возвращает аренду её участнику
func (h *RentalHandler) GetRental(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	rental, ok := h.loadRental(c, userID)
	if !ok {
		return
	}

	response := formatRentalResponse(rental)
	response["renter"] = gin.H{
		"id":       rental.Renter.ID,
		"username": rental.Renter.Username,
	}
	response["owner"] = gin.H{
		"id":       rental.Owner.ID,
		"username": rental.Owner.Username,
	}
	response["is_renter"] = rental.RenterID == userID
	response["is_owner"] = rental.OwnerID == userID

	c.JSON(http.StatusOK, response)
}

// UpdateRental меняет статус аренды; при возврате фиксируется дата
func (h *RentalHandler) UpdateRental(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	rental, ok := h.loadRental(c, userID)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=rented returned cancelled"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rental.Status = req.Status
	rental.UpdatedAt = time.Now()

	if req.Status == models.RentReturned && rental.EndDate == nil {
		now := time.Now()
		rental.EndDate = &now
	}

	if err := h.db.UpdateRental(rental); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rental"})
		return
	}

	c.JSON(http.StatusOK, formatRentalResponse(rental))
}

func (h *RentalHandler) loadRental(c *gin.Context, userID uint) (*models.RentItem, bool) {
	rentalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
		return nil, false
	}

	rental, err := h.db.GetRental(uint(rentalID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "rental not found"})
		return nil, false
	}

	if rental.RenterID != userID && rental.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return nil, false
	}

	return rental, true
}

func formatRentalResponse(rental *models.RentItem) gin.H {
	response := gin.H{
		"id":         rental.ID,
		"status":     rental.Status,
		"start_date": rental.StartDate,
		"created_at": rental.CreatedAt,
		"updated_at": rental.UpdatedAt,
	}

	if rental.EndDate != nil {
		response["end_date"] = rental.EndDate
	}
	if rental.ExpectedReturnDate != nil {
		response["expected_return_date"] = rental.ExpectedReturnDate
	}

	if rental.Product.ID != 0 {
		response["product"] = gin.H{
			"id":        rental.Product.ID,
			"title":     rental.Product.Title,
			"image_url": rental.Product.ImageURL,
		}
	}

	return response
}

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

type ProductHandler struct {
	db *database.Database
}

func NewProductHandler(db *database.Database) *ProductHandler {
	return &ProductHandler{db: db}
}

// CreateProduct создает объявление; оно попадает на модерацию
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	var req struct {
		Name             string `json:"name" binding:"required"`
		Phone            string `json:"phone"`
		Title            string `json:"title" binding:"required"`
		Description      string `json:"description"`
		Type             string `json:"type" binding:"required,oneof=free exchange rental"`
		MainCategoryID   *uint  `json:"main_category_id"`
		SubcategoryID    *uint  `json:"subcategory_id"`
		SubSubcategoryID *uint  `json:"sub_subcategory_id"`
		ImageURL         string `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &models.Product{
		UserID:           userID,
		Name:             req.Name,
		Phone:            req.Phone,
		Title:            req.Title,
		Description:      req.Description,
		Type:             req.Type,
		Status:           models.ProductAvailable,
		MainCategoryID:   req.MainCategoryID,
		SubcategoryID:    req.SubcategoryID,
		SubSubcategoryID: req.SubSubcategoryID,
		ImageURL:         req.ImageURL,
		IsApproved:       false, // товар ещё не прошёл модерацию
		CreatedAt:        time.Now(),
	}

	if err := h.db.CreateProduct(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, formatProductResponse(product))
}

// ListProducts возвращает одобренные объявления других пользователей,
// опционально по категории любого уровня
func (h *ProductHandler) ListProducts(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	var categoryID *uint
	if raw := c.Query("category"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			id := uint(parsed)
			categoryID = &id
		}
	}

	products, err := h.db.GetApprovedProducts(userID, categoryID)
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

// GetMyProducts возвращает объявления текущего пользователя
func (h *ProductHandler) GetMyProducts(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	products, err := h.db.GetUserProducts(userID)
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

// GetProduct возвращает объявление. Неодобренное видно только автору.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	if !product.IsApproved && product.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "product is not approved yet"})
		return
	}

	c.JSON(http.StatusOK, formatProductResponse(product))
}

// UpdateProduct обновляет своё объявление
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	if product.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only edit your own products"})
		return
	}

	var req struct {
		Name             string `json:"name"`
		Phone            string `json:"phone"`
		Title            string `json:"title"`
		Description      string `json:"description"`
		MainCategoryID   *uint  `json:"main_category_id"`
		SubcategoryID    *uint  `json:"subcategory_id"`
		SubSubcategoryID *uint  `json:"sub_subcategory_id"`
		ImageURL         string `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Обновляем только переданные поля
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Phone != "" {
		product.Phone = req.Phone
	}
	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.MainCategoryID != nil {
		product.MainCategoryID = req.MainCategoryID
	}
	if req.SubcategoryID != nil {
		product.SubcategoryID = req.SubcategoryID
	}
	if req.SubSubcategoryID != nil {
		product.SubSubcategoryID = req.SubSubcategoryID
	}
	if req.ImageURL != "" {
		product.ImageURL = req.ImageURL
	}

	if err := h.db.UpdateProduct(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, formatProductResponse(product))
}

// DeleteProduct удаляет своё объявление
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	if product.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only delete your own products"})
		return
	}

	if err := h.db.DeleteProduct(product.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

// RequestProduct создает заявку на товар (забрать, обмен, аренда)
func (h *ProductHandler) RequestProduct(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uint)

	product, ok := h.loadProduct(c)
	if !ok {
		return
	}

	var req struct {
		Action string `json:"action" binding:"required,oneof=take rent exchange"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if product.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot request your own product"})
		return
	}

	if !product.IsApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product is not approved yet"})
		return
	}

	request := &models.TradeRequest{
		ProductID:   product.ID,
		RequesterID: userID,
		OwnerID:     product.UserID,
		Action:      req.Action,
		Status:      models.TradePending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := h.db.CreateTradeRequest(request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}

	if req.Action == models.ActionTake {
		product.Status = models.ProductTaken
	} else {
		product.Status = models.ProductExchanged
	}

	if err := h.db.UpdateProduct(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      request.ID,
		"action":  request.Action,
		"status":  request.Status,
		"product": formatProductResponse(product),
	})
}

func (h *ProductHandler) loadProduct(c *gin.Context) (*models.Product, bool) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return nil, false
	}

	product, err := h.db.GetProduct(uint(productID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return nil, false
	}

	return product, true
}

func formatProductResponse(product *models.Product) gin.H {
	response := gin.H{
		"id":          product.ID,
		"user_id":     product.UserID,
		"name":        product.Name,
		"phone":       product.Phone,
		"title":       product.Title,
		"description": product.Description,
		"type":        product.Type,
		"status":      product.Status,
		"image_url":   product.ImageURL,
		"is_approved": product.IsApproved,
		"created_at":  product.CreatedAt,
	}

	if product.MainCategoryID != nil {
		response["main_category_id"] = *product.MainCategoryID
	}
	if product.SubcategoryID != nil {
		response["subcategory_id"] = *product.SubcategoryID
	}
	if product.SubSubcategoryID != nil {
		response["sub_subcategory_id"] = *product.SubSubcategoryID
	}

	if product.User.ID != 0 {
		response["owner"] = gin.H{
			"id":       product.User.ID,
			"username": product.User.Username,
		}
	}

	return response
}

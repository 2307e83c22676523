package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/almateam/alma-market/internal/database"
)

type CategoryHandler struct {
	db *database.Database
}

func NewCategoryHandler(db *database.Database) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// GetMainCategories возвращает корневые категории
func (h *CategoryHandler) GetMainCategories(c *gin.Context) {
	categories, err := h.db.GetMainCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get categories"})
		return
	}

	result := make([]gin.H, len(categories))
	for i, category := range categories {
		result[i] = gin.H{
			"id":   category.ID,
			"name": category.Name,
		}
	}

	c.JSON(http.StatusOK, gin.H{"categories": result})
}

// GetSubcategories возвращает детей категории
func (h *CategoryHandler) GetSubcategories(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	categories, err := h.db.GetSubcategories(uint(categoryID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get categories"})
		return
	}

	result := make([]gin.H, len(categories))
	for i, category := range categories {
		result[i] = gin.H{
			"id":   category.ID,
			"name": category.Name,
		}
	}

	c.JSON(http.StatusOK, gin.H{"categories": result})
}

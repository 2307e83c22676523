package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/almateam/alma-market/internal/database"
	"github.com/almateam/alma-market/internal/middleware"
	"github.com/almateam/alma-market/internal/models"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()

	// Именованная in-memory база: пул соединений gorm должен
	// видеть одну и ту же базу
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database.NewDatabase(gdb)
}

func newTestUser(t *testing.T, d *database.Database, name string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	if err := d.SaveUser(user); err != nil {
		t.Fatalf("save user %s: %v", name, err)
	}
	return user
}

func newTestProduct(t *testing.T, d *database.Database, ownerID uint, productType string, approved bool) *models.Product {
	t.Helper()

	product := &models.Product{
		UserID:     ownerID,
		Name:       "owner",
		Title:      "Test product",
		Type:       productType,
		Status:     models.ProductAvailable,
		IsApproved: approved,
		CreatedAt:  time.Now(),
	}
	if err := d.CreateProduct(product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

// testUserMiddleware подставляет пользователя из заголовка вместо JWT
func testUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-User-ID"); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
				c.Set(middleware.UserIDKey, uint(id))
			}
		}
		c.Next()
	}
}

func newTestRouter(d *database.Database) *gin.Engine {
	gin.SetMode(gin.TestMode)

	chatH := NewChatHandler(d)
	categoryH := NewCategoryHandler(d)
	productH := NewProductHandler(d)
	tradeH := NewTradeHandler(d)
	rentalH := NewRentalHandler(d)

	r := gin.New()
	r.Use(testUserMiddleware())

	r.GET("/api/v1/categories", categoryH.GetMainCategories)
	r.GET("/api/v1/categories/:id/subcategories", categoryH.GetSubcategories)

	r.GET("/api/v1/chats", chatH.ListChats)
	r.POST("/api/v1/chats/start", chatH.StartChat)
	r.GET("/api/v1/chats/:id/messages", chatH.GetChatMessages)
	r.POST("/api/v1/chats/:id/messages", chatH.SendMessage)

	r.GET("/api/v1/products", productH.ListProducts)
	r.POST("/api/v1/products", productH.CreateProduct)
	r.GET("/api/v1/products/:id", productH.GetProduct)
	r.POST("/api/v1/products/:id/request", productH.RequestProduct)

	r.GET("/api/v1/requests", tradeH.ListRequests)
	r.POST("/api/v1/requests/:id/decision", tradeH.DecideRequest)

	r.GET("/api/v1/rentals/available", rentalH.ListRentable)
	r.POST("/api/v1/rentals", rentalH.CreateRental)
	r.GET("/api/v1/rentals/my", rentalH.MyRentals)
	r.PATCH("/api/v1/rentals/:id", rentalH.UpdateRental)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, userID uint, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.FormatUint(uint64(userID), 10))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder, key string) []interface{} {
	t.Helper()

	body := decodeBody(t, w)
	list, ok := body[key].([]interface{})
	if !ok {
		t.Fatalf("response has no %q list: %s", key, w.Body.String())
	}
	return list
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, want, w.Body.String())
	}
}

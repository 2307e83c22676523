package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/almateam/alma-market/internal/handlers"
	"github.com/almateam/alma-market/internal/middleware"
	"github.com/almateam/alma-market/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	chatH *handlers.ChatHandler,
	wsH *handlers.WebSocketHandler,
	categoryH *handlers.CategoryHandler,
	productH *handlers.ProductHandler,
	tradeH *handlers.TradeHandler,
	rentalH *handlers.RentalHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/me", userH.GetMe)
		api.PATCH("/me", userH.UpdateMe)
		api.GET("/users/search", userH.SearchUsers)
		api.GET("/users/:id", userH.GetUser)

		api.GET("/categories", categoryH.GetMainCategories)
		api.GET("/categories/:id/subcategories", categoryH.GetSubcategories)

		api.GET("/products", productH.ListProducts)
		api.POST("/products", productH.CreateProduct)
		api.GET("/products/my", productH.GetMyProducts)
		api.GET("/products/:id", productH.GetProduct)
		api.PATCH("/products/:id", productH.UpdateProduct)
		api.DELETE("/products/:id", productH.DeleteProduct)
		api.POST("/products/:id/request", productH.RequestProduct)

		api.GET("/requests", tradeH.ListRequests)
		api.POST("/requests/:id/decision", tradeH.DecideRequest)

		api.GET("/rentals/available", rentalH.ListRentable)
		api.GET("/rentals/my", rentalH.MyRentals)
		api.POST("/rentals", rentalH.CreateRental)
		api.GET("/rentals/:id", rentalH.GetRental)
		api.PATCH("/rentals/:id", rentalH.UpdateRental)

		api.GET("/chats", chatH.ListChats)
		api.POST("/chats/start", chatH.StartChat)
		api.GET("/chats/:id/messages", chatH.GetChatMessages)
		api.POST("/chats/:id/messages", chatH.SendMessage)
	}

	// WebSocket endpoint: токен идёт query-параметром
	wsGroup := r.Group("/ws")
	wsGroup.Use(middleware.WSAuthMiddleware(jwtMgr, rdb))
	{
		wsGroup.GET("/chat/:id", wsH.HandleChatSocket)
	}
}

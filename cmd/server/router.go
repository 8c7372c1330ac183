package main

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/chirp/internal/cache"
	"github.com/thereayou/chirp/internal/database"
	"github.com/thereayou/chirp/internal/handlers"
	"github.com/thereayou/chirp/internal/middleware"
)

func APIEndpoints(
	r *gin.Engine,
	db *database.Database,
	sessions cache.SessionCache,
	authH *handlers.AuthHandler,
	tweetH *handlers.TweetHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Gate отрабатывает на каждом запросе до любого хэндлера
	r.Use(middleware.SessionGate(db, sessions))

	// Public endpoints
	r.GET("/", tweetH.Timeline)
	r.GET("/ws", wsH.HandleWebSocket)

	// Authenticated endpoints
	authed := r.Group("/", middleware.RequireAuth())
	{
		authed.POST("/tweet", tweetH.Post)
		authed.GET("/logout", authH.Logout)
	}

	// Unauthenticated-only endpoints
	anon := r.Group("/", middleware.RequireAnon())
	{
		anon.GET("/register", authH.ShowRegister)
		anon.POST("/register", authH.Register)
		anon.GET("/login", authH.ShowLogin)
		anon.POST("/login", authH.Login)
	}
}

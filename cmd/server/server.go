package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/chirp/internal/cache"
	"github.com/thereayou/chirp/internal/database"
	"github.com/thereayou/chirp/internal/handlers"
	ws "github.com/thereayou/chirp/internal/websocket"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Redis  *redis.Client
	Hub    *ws.Hub
	AuthH  *handlers.AuthHandler
	TweetH *handlers.TweetHandler
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}
	sessionCache := cache.NewRedisSessionCache(rdb)

	hub := ws.NewHub()

	authH := handlers.NewAuthHandler(dbConn, sessionCache)
	tweetH := handlers.NewTweetHandler(dbConn, hub)
	wsH := handlers.NewWebSocketHandler(hub)

	router := gin.Default()
	router.LoadHTMLGlob("templates/*")
	router.Static("/static", "./static")

	APIEndpoints(router, dbConn, sessionCache, authH, tweetH, wsH)

	return &Server{
		Router: router,
		DB:     dbConn,
		Redis:  rdb,
		Hub:    hub,
		AuthH:  authH,
		TweetH: tweetH,
	}
}

func (s *Server) Run() {
	go s.Hub.Run()
	defer s.Hub.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}

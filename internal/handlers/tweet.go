package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/chirp/internal/handlers/dto"
	"github.com/thereayou/chirp/internal/middleware"
	"github.com/thereayou/chirp/internal/models"
	"github.com/thereayou/chirp/internal/services"
	"github.com/thereayou/chirp/internal/websocket"
)

type TweetHandler struct {
	db  services.TweetStore
	hub *websocket.Hub
}

func NewTweetHandler(db services.TweetStore, hub *websocket.Hub) *TweetHandler {
	return &TweetHandler{db: db, hub: hub}
}

// Timeline рендерит общую ленту, новые твиты сверху. Страница одна и для
// анонимных, и для залогиненных: шаблон сам смотрит на session.
func (h *TweetHandler) Timeline(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)

	tweets, err := h.db.ListTweets()
	if err != nil {
		log.Printf("tweet list failed: %v", err)
		c.HTML(http.StatusInternalServerError, "index.html", gin.H{
			"session":      session,
			"errorMessage": msgServerError,
		})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"session": session,
		"tweets":  tweets,
	})
}

// Post создаёт твит от имени текущей сессии. Доступ сюда уже отфильтрован
// RequireAuth, поэтому session всегда на месте.
func (h *TweetHandler) Post(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)

	var form dto.TweetForm
	if err := c.ShouldBind(&form); err != nil {
		log.Printf("tweet form bind failed: %v", err)
	}

	if form.Tweet == "" {
		h.renderTimelineError(c, session, "Tweet cannot be empty")
		return
	}

	tweet := &models.Tweet{
		Username: session.Username,
		Text:     form.Tweet,
	}

	if err := h.db.CreateTweet(tweet); err != nil {
		log.Printf("tweet create failed: %v", err)
		h.renderTimelineError(c, session, msgServerError)
		return
	}

	if h.hub != nil {
		err := h.hub.BroadcastTweet(dto.TweetResponse{
			ID:        tweet.ID,
			Username:  tweet.Username,
			Text:      tweet.Text,
			CreatedAt: tweet.CreatedAt,
		})
		if err != nil {
			log.Printf("tweet broadcast failed: %v", err)
		}
	}

	c.Redirect(http.StatusFound, "/")
}

// renderTimelineError перерисовывает ленту с сообщением об ошибке,
// ничего не вставляя.
func (h *TweetHandler) renderTimelineError(c *gin.Context, session *middleware.Session, message string) {
	tweets, err := h.db.ListTweets()
	if err != nil {
		log.Printf("tweet list failed: %v", err)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"session":      session,
		"tweets":       tweets,
		"errorMessage": message,
	})
}

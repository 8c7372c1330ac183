package dto

import (
	"github.com/google/uuid"
	"time"
)

type TweetForm struct {
	Tweet string `form:"tweet"`
}

// TweetResponse это то, что уходит подписчикам живой ленты по WebSocket.
type TweetResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

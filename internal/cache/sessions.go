package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Entry это кэшированная проекция строки AccountSession. Срок действия
// хранится вместе с данными: auth gate проверяет expiry и на попадании в кэш.
type Entry struct {
	Username    string         `json:"username"`
	Expiry      time.Time      `json:"expiry"`
	SessionData map[string]any `json:"session_data"`
}

// SessionCache закрывает горячий путь auth gate от Postgres. Реализация на
// Redis ниже; тесты используют свой in-memory double.
type SessionCache interface {
	Get(ctx context.Context, token string) (*Entry, error)
	Set(ctx context.Context, token string, entry *Entry) error
	Delete(ctx context.Context, token string) error
}

const cacheTTL = 5 * time.Minute

type RedisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

// Get возвращает (nil, nil) на промахе.
func (c *RedisSessionCache) Get(ctx context.Context, token string) (*Entry, error) {
	data, err := c.client.Get(ctx, "session:"+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Set кладёт сессию с коротким TTL, но не дольше срока самой сессии.
func (c *RedisSessionCache) Set(ctx context.Context, token string, entry *Entry) error {
	ttl := cacheTTL
	if until := time.Until(entry.Expiry); until < ttl {
		ttl = until
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+token, data, ttl).Err()
}

func (c *RedisSessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, "session:"+token).Err()
}

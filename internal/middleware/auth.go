package middleware

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thereayou/chirp/internal/cache"
	"github.com/thereayou/chirp/internal/models"
)

const SessionKey = "session"

// AuthCookie это единственная cookie приложения: HTTP-only, несёт
// opaque-токен сессии.
const AuthCookie = "authToken"

// SessionTTL это срок жизни строки сессии на сервере. MaxAge cookie ставится
// на тот же срок, но только при "remember me" — иначе cookie живёт до
// закрытия браузера независимо от строки в базе.
const SessionTTL = 30 * 24 * time.Hour

// Session это identity запроса, прикрепляемая gate-ом к контексту.
type Session struct {
	Username    string
	SessionData map[string]any
}

// SessionStore это то, что gate-у нужно от хранилища.
type SessionStore interface {
	FindSession(token string) (*models.AccountSession, error)
}

// SessionGate резолвит cookie-токен в сессию на каждом запросе. Нет токена —
// запрос идёт дальше анонимным. Неизвестный или протухший токен — cookie
// очищается, запрос идёт дальше анонимным (ленивое протухание: строки из
// базы не удаляются). Живой токен — username и sessionData прикрепляются к
// контексту. Сначала спрашивается кэш, затем Postgres; sessions == nil
// выключает кэш.
func SessionGate(store SessionStore, sessions cache.SessionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AuthCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		if sessions != nil {
			entry, err := sessions.Get(ctx, token)
			if err != nil {
				log.Printf("session cache lookup failed: %v", err)
			} else if entry != nil {
				if !entry.Expiry.After(time.Now()) {
					ClearAuthCookie(c)
					if err := sessions.Delete(ctx, token); err != nil {
						log.Printf("session cache delete failed: %v", err)
					}
					c.Next()
					return
				}
				c.Set(SessionKey, &Session{Username: entry.Username, SessionData: entry.SessionData})
				c.Next()
				return
			}
		}

		row, err := store.FindSession(token)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ClearAuthCookie(c)
			c.Next()
			return
		}
		if err != nil {
			log.Printf("session lookup failed: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		if !row.Expiry.After(time.Now()) {
			ClearAuthCookie(c)
			c.Next()
			return
		}

		if sessions != nil {
			err := sessions.Set(ctx, token, &cache.Entry{
				Username:    row.Username,
				Expiry:      row.Expiry,
				SessionData: row.SessionData,
			})
			if err != nil {
				log.Printf("session cache store failed: %v", err)
			}
		}

		c.Set(SessionKey, &Session{Username: row.Username, SessionData: row.SessionData})
		c.Next()
	}
}

// RequireAuth пускает дальше только аутентифицированные запросы,
// остальных отправляет на /login.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAnon пускает дальше только анонимные запросы,
// аутентифицированных отправляет на главную.
func RequireAnon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession возвращает identity, прикреплённую gate-ом.
func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*Session)
	return session, ok
}

// SetAuthCookie ставит HTTP-only cookie с токеном. MaxAge выставляется
// только при remember, иначе cookie сессионная.
func SetAuthCookie(c *gin.Context, token string, remember bool) {
	maxAge := 0
	if remember {
		maxAge = int(SessionTTL.Seconds())
	}
	c.SetCookie(AuthCookie, token, maxAge, "/", "", false, true)
}

// ClearAuthCookie удаляет cookie на стороне клиента.
func ClearAuthCookie(c *gin.Context) {
	c.SetCookie(AuthCookie, "", -1, "/", "", false, true)
}

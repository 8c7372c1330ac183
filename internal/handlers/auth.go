package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thereayou/chirp/internal/cache"
	"github.com/thereayou/chirp/internal/handlers/dto"
	"github.com/thereayou/chirp/internal/middleware"
	"github.com/thereayou/chirp/internal/models"
	"github.com/thereayou/chirp/internal/services"
	"github.com/thereayou/chirp/pkg/auth"
)

// Сообщения форм. Причина отказа логина намеренно не уточняется, чтобы по
// ответу нельзя было перебирать существующие аккаунты.
const (
	msgMissingFields    = "Please provide a username, password, and confirmation password."
	msgPasswordMismatch = "Passwords do not match."
	msgInvalidLogin     = "Invalid username or password"
	msgServerError      = "An error occurred while processing your request. Please try again later."
)

type AuthHandler struct {
	db       services.AuthStore
	sessions cache.SessionCache
}

func NewAuthHandler(db services.AuthStore, sessions cache.SessionCache) *AuthHandler {
	return &AuthHandler{db: db, sessions: sessions}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register валидирует форму, хэширует пароль argon2id и сразу логинит
// свежий аккаунт.
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"errorMessage": msgMissingFields})
		return
	}

	username := strings.TrimSpace(form.Username)
	if username == "" || form.Password == "" || form.ConfirmPassword == "" {
		c.HTML(http.StatusOK, "register.html", gin.H{"errorMessage": msgMissingFields})
		return
	}
	if form.Password != form.ConfirmPassword {
		c.HTML(http.StatusOK, "register.html", gin.H{"errorMessage": msgPasswordMismatch})
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		log.Printf("password hash failed: %v", err)
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{"errorMessage": msgServerError})
		return
	}

	account := &models.Account{
		Username:     username,
		PasswordHash: hash,
	}

	if err := h.db.CreateAccount(account); err != nil {
		log.Printf("account create failed: %v", err)
		c.HTML(http.StatusOK, "register.html", gin.H{"errorMessage": msgServerError})
		return
	}

	// Регистрация всегда выдаёт персистентную cookie, как и было в первых
	// версиях приложения; выбор "remember" есть только на логине.
	if err := h.issueSession(c, username, true); err != nil {
		log.Printf("session create failed: %v", err)
		c.HTML(http.StatusInternalServerError, "register.html", gin.H{"errorMessage": msgServerError})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login сверяет пароль с хэшем и выдаёт новую сессию. У одного аккаунта
// может быть сколько угодно одновременных сессий.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{"errorMessage": msgInvalidLogin})
		return
	}

	account, err := h.db.FindAccount(form.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.HTML(http.StatusOK, "login.html", gin.H{"errorMessage": msgInvalidLogin})
		return
	}
	if err != nil {
		log.Printf("account lookup failed: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"errorMessage": msgServerError})
		return
	}

	ok, err := auth.VerifyPassword(account.PasswordHash, form.Password)
	if err != nil {
		log.Printf("password verify failed for %q: %v", account.Username, err)
	}
	if !ok {
		c.HTML(http.StatusOK, "login.html", gin.H{"errorMessage": msgInvalidLogin})
		return
	}

	if err := h.issueSession(c, account.Username, form.RememberMe()); err != nil {
		log.Printf("session create failed: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"errorMessage": msgServerError})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout чистит cookie и кэш. Строка сессии остаётся в базе и протухнет
// сама: отзыв делается отсутствием токена у клиента.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.AuthCookie); err == nil && h.sessions != nil {
		if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
			log.Printf("session cache delete failed: %v", err)
		}
	}

	middleware.ClearAuthCookie(c)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) issueSession(c *gin.Context, username string, remember bool) error {
	token, err := auth.NewSessionToken()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(middleware.SessionTTL)

	session := &models.AccountSession{
		Token:       token,
		Username:    username,
		Expiry:      expiry,
		SessionData: map[string]any{},
	}

	if err := h.db.CreateSession(session); err != nil {
		return err
	}

	if h.sessions != nil {
		err := h.sessions.Set(c.Request.Context(), token, &cache.Entry{
			Username:    username,
			Expiry:      expiry,
			SessionData: session.SessionData,
		})
		if err != nil {
			log.Printf("session cache store failed: %v", err)
		}
	}

	middleware.SetAuthCookie(c, token, remember)
	return nil
}

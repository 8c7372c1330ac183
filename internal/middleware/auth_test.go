package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thereayou/chirp/internal/cache"
	"github.com/thereayou/chirp/internal/models"
)

type fakeSessionStore struct {
	sessions map[string]*models.AccountSession
	err      error
}

func (s *fakeSessionStore) FindSession(token string) (*models.AccountSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	session, ok := s.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

type memCache struct {
	entries map[string]*cache.Entry
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*cache.Entry)}
}

func (m *memCache) Get(_ context.Context, token string) (*cache.Entry, error) {
	return m.entries[token], nil
}

func (m *memCache) Set(_ context.Context, token string, entry *cache.Entry) error {
	m.entries[token] = entry
	return nil
}

func (m *memCache) Delete(_ context.Context, token string) error {
	delete(m.entries, token)
	return nil
}

func gateRouter(store SessionStore, sessions cache.SessionCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionGate(store, sessions))

	r.GET("/whoami", func(c *gin.Context) {
		if session, ok := CurrentSession(c); ok {
			c.String(http.StatusOK, session.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	authed := r.Group("/", RequireAuth())
	authed.GET("/private", func(c *gin.Context) {
		c.String(http.StatusOK, "private")
	})

	anon := r.Group("/", RequireAnon())
	anon.GET("/login", func(c *gin.Context) {
		c.String(http.StatusOK, "login page")
	})

	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func clearedAuthCookie(t *testing.T, w *httptest.ResponseRecorder) bool {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == AuthCookie {
			return c.Value == "" && c.MaxAge < 0
		}
	}
	return false
}

func liveSession(username string) *models.AccountSession {
	return &models.AccountSession{
		Token:       "tok",
		Username:    username,
		Expiry:      time.Now().Add(time.Hour),
		SessionData: map[string]any{},
	}
}

func TestGateNoCookie(t *testing.T) {
	r := gateRouter(&fakeSessionStore{}, nil)

	w := doGet(r, "/whoami", "")

	assert.Equal(t, "anonymous", w.Body.String())
	assert.False(t, clearedAuthCookie(t, w))
}

func TestGateUnknownTokenClearsCookie(t *testing.T) {
	r := gateRouter(&fakeSessionStore{sessions: map[string]*models.AccountSession{}}, nil)

	w := doGet(r, "/whoami", "no-such-token")

	assert.Equal(t, "anonymous", w.Body.String())
	assert.True(t, clearedAuthCookie(t, w))
}

func TestGateExpiredSessionTreatedAsAbsent(t *testing.T) {
	expired := liveSession("alice")
	expired.Expiry = time.Now().Add(-time.Minute)
	store := &fakeSessionStore{sessions: map[string]*models.AccountSession{"tok": expired}}
	r := gateRouter(store, nil)

	w := doGet(r, "/whoami", "tok")

	// Строка всё ещё лежит в хранилище, но gate ведёт себя как при
	// отсутствующем токене.
	assert.Equal(t, "anonymous", w.Body.String())
	assert.True(t, clearedAuthCookie(t, w))
	assert.Contains(t, store.sessions, "tok")
}

func TestGateLiveSessionAttachesIdentity(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]*models.AccountSession{"tok": liveSession("alice")}}
	r := gateRouter(store, nil)

	w := doGet(r, "/whoami", "tok")

	assert.Equal(t, "alice", w.Body.String())
	assert.False(t, clearedAuthCookie(t, w))
}

func TestGatePopulatesCache(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]*models.AccountSession{"tok": liveSession("alice")}}
	sessions := newMemCache()
	r := gateRouter(store, sessions)

	doGet(r, "/whoami", "tok")

	entry := sessions.entries["tok"]
	require.NotNil(t, entry)
	assert.Equal(t, "alice", entry.Username)
}

func TestGateServesFromCache(t *testing.T) {
	// В хранилище нарочно пусто: попадание в кэш не должно ходить в базу.
	sessions := newMemCache()
	sessions.entries["tok"] = &cache.Entry{
		Username: "bob",
		Expiry:   time.Now().Add(time.Hour),
	}
	r := gateRouter(&fakeSessionStore{}, sessions)

	w := doGet(r, "/whoami", "tok")

	assert.Equal(t, "bob", w.Body.String())
}

func TestGateExpiredCacheEntry(t *testing.T) {
	sessions := newMemCache()
	sessions.entries["tok"] = &cache.Entry{
		Username: "bob",
		Expiry:   time.Now().Add(-time.Minute),
	}
	r := gateRouter(&fakeSessionStore{}, sessions)

	w := doGet(r, "/whoami", "tok")

	assert.Equal(t, "anonymous", w.Body.String())
	assert.True(t, clearedAuthCookie(t, w))
	assert.NotContains(t, sessions.entries, "tok")
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	r := gateRouter(&fakeSessionStore{}, nil)

	w := doGet(r, "/private", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]*models.AccountSession{"tok": liveSession("alice")}}
	r := gateRouter(store, nil)

	w := doGet(r, "/private", "tok")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private", w.Body.String())
}

func TestRequireAnonRedirectsAuthenticated(t *testing.T) {
	store := &fakeSessionStore{sessions: map[string]*models.AccountSession{"tok": liveSession("alice")}}
	r := gateRouter(store, nil)

	w := doGet(r, "/login", "tok")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestRequireAnonPassesAnonymous(t *testing.T) {
	r := gateRouter(&fakeSessionStore{}, nil)

	w := doGet(r, "/login", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login page", w.Body.String())
}

func TestSetAuthCookieRemember(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetAuthCookie(c, "tok", true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookie, cookies[0].Name)
	assert.Equal(t, int(SessionTTL.Seconds()), cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSetAuthCookieSessionScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SetAuthCookie(c, "tok", false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	// Без remember у cookie нет Max-Age: она живёт до закрытия браузера,
	// хотя строка в базе всё равно протухает через 30 дней.
	assert.Equal(t, 0, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
}

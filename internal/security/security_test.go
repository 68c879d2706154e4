package security

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSecret = []byte("test-secret-key-32-bytes-long!!!")

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	var token string
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.GET("/catalog/authors", func(c *gin.Context) {
		token = GetCSRFToken(c)
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalog/authors", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, rr.Header().Get(CSRFTokenHeader))
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	reached := false
	router := gin.New()
	router.Use(CSRFMiddleware(testSecret, false))
	router.POST("/catalog/author/create", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/catalog/author/create", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"CSRF token invalid or missing"}`, rr.Body.String())
	assert.False(t, reached)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(), StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'none'")
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
	})

	t.Run("behind https proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Contains(t, rr.Header().Get("Strict-Transport-Security"), "max-age=31536000")
	})
}

func setupSQLiteSessions(t *testing.T) *SessionManager {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSQLiteSessionManager(sqlDB, SessionConfig{Lifetime: time.Hour})
	require.NoError(t, err)
	return sm
}

func TestFlashRoundTrip(t *testing.T) {
	managers := map[string]*SessionManager{
		"sqlite": setupSQLiteSessions(t),
		"memory": NewMemorySessionManager(SessionConfig{Lifetime: time.Hour}),
	}

	for name, sm := range managers {
		t.Run(name, func(t *testing.T) {
			router := gin.New()
			router.Use(sm.SessionLoadSave())
			router.POST("/set", func(c *gin.Context) {
				sm.Flash(c.Request.Context(), "Author created")
				c.Redirect(http.StatusSeeOther, "/get")
			})
			router.GET("/get", func(c *gin.Context) {
				c.String(http.StatusOK, sm.PopFlash(c.Request.Context()))
			})

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/set", nil))
			require.Equal(t, http.StatusSeeOther, rr.Code)
			cookies := rr.Result().Cookies()
			require.NotEmpty(t, cookies)

			get := func() string {
				req := httptest.NewRequest(http.MethodGet, "/get", nil)
				for _, c := range cookies {
					req.AddCookie(c)
				}
				rr := httptest.NewRecorder()
				router.ServeHTTP(rr, req)
				return rr.Body.String()
			}

			assert.Equal(t, "Author created", get())
			assert.Empty(t, get())
		})
	}
}

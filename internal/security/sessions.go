package security

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

const sessionKeyFlash = "flash"

// SessionConfig configures the session cookie.
type SessionConfig struct {
	Lifetime      time.Duration
	SecureCookies bool
}

// SessionManager wraps scs.SessionManager with flash message helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSQLiteSessionManager stores sessions in the given sqlite database.
func NewSQLiteSessionManager(sqlDB *sql.DB, cfg SessionConfig) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}
	return newSessionManager(sqlite3store.New(sqlDB), cfg), nil
}

// NewMemorySessionManager keeps sessions in process memory. Flash messages
// do not survive a restart.
func NewMemorySessionManager(cfg SessionConfig) *SessionManager {
	return newSessionManager(memstore.New(), cfg)
}

func newSessionManager(store scs.Store, cfg SessionConfig) *SessionManager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	return &SessionManager{SessionManager: sm}
}

// Flash stores a message shown once on the next request.
func (sm *SessionManager) Flash(ctx context.Context, message string) {
	sm.Put(ctx, sessionKeyFlash, message)
}

// PopFlash returns and clears the pending flash message.
func (sm *SessionManager) PopFlash(ctx context.Context) string {
	return sm.PopString(ctx, sessionKeyFlash)
}

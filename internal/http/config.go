package http

import (
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/security"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	Service  *catalog.Service
	Database Pinger

	// Audit serves /catalog/audit and the record histories; nil disables them.
	Audit AuditLog

	// Sessions carry flash messages; nil disables them.
	Sessions *security.SessionManager

	// CSRF protection is enabled when the secret is set.
	CSRFSecret    []byte
	SecureCookies bool

	Version string
}

package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/genres"
	"github.com/mrlokans/library/internal/database/instances"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.Store = (*database.Store)(nil)

var _ catalog.AuthorStore = (*authors.Repository)(nil)
var _ catalog.GenreStore = (*genres.Repository)(nil)
var _ catalog.BookStore = (*books.Repository)(nil)
var _ catalog.InstanceStore = (*instances.Repository)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ catalog.Recorder = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// HTTP
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
var _ http.Flasher = (*security.SessionManager)(nil)
var _ http.AuditLog = (*audit.Service)(nil)

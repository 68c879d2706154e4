// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Catalog Storage
//
//   - Store: transactional access to the four record stores (internal/catalog/store.go)
//   - AuthorStore, GenreStore, BookStore, InstanceStore: per kind persistence
//     (internal/catalog/store.go), implemented by the repositories under
//     internal/database/
//
// ## Side Channels
//
//   - Recorder: notified of every catalog mutation (internal/catalog/service.go)
//   - AuditEventCleaner: audit retention (internal/tasks/cleanup_audit.go)
//   - Pinger: database health (internal/http/health.go)
//   - Flasher: one-shot messages between requests (internal/http/catalog.go)
//
// # Adding a New Storage Backend
//
// The catalog service only sees catalog.Store. A backend provides one
// repository per record kind and an Atomic method that hands a transaction
// scoped Store to its callback:
//
//	type Store struct { db *gorm.DB }
//
//	func (s *Store) Atomic(ctx context.Context, fn func(catalog.Store) error) error {
//	    return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
//	        return fn(NewStore(tx))
//	    })
//	}
//
//	var _ catalog.Store = (*Store)(nil)
//
// Repositories must return catalog.ErrNotFound for missing records.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces

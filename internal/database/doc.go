// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into per-record sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── store.go         # catalog.Store over the repositories, transactions
//	├── authors/         # Author CRUD
//	├── genres/          # Genre CRUD, name lookup, reference checks
//	├── books/           # Book CRUD with ordered genre links
//	├── instances/       # Book copy CRUD and status counts
//	└── audit/           # Audit event log and retention
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type bound to a *gorm.DB:
//
//	db, err := database.NewDatabase("sqlite", "./library.db", "")
//
//	store := database.NewStore(db.DB)
//	author, err := store.Authors().GetAuthor(ctx, id)
//
//	err = store.Atomic(ctx, func(tx catalog.Store) error {
//		return tx.Books().DeleteBook(ctx, id)
//	})
//
// Repositories translate gorm.ErrRecordNotFound into catalog.ErrNotFound.
//
// # Interface Implementations
//
//   - authors.Repository: implements catalog.AuthorStore
//   - genres.Repository: implements catalog.GenreStore
//   - books.Repository: implements catalog.BookStore
//   - instances.Repository: implements catalog.InstanceStore
//   - audit.Repository: used by the audit service and the cleanup task
package database

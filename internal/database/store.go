package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/genres"
	"github.com/mrlokans/library/internal/database/instances"
)

// Store is the gorm backed catalog.Store. Each accessor returns a repository
// bound to the same connection or transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Authors() catalog.AuthorStore {
	return authors.NewRepository(s.db)
}

func (s *Store) Genres() catalog.GenreStore {
	return genres.NewRepository(s.db)
}

func (s *Store) Books() catalog.BookStore {
	return books.NewRepository(s.db)
}

func (s *Store) Instances() catalog.InstanceStore {
	return instances.NewRepository(s.db)
}

// Atomic runs fn inside a transaction. Nested calls use savepoints.
func (s *Store) Atomic(ctx context.Context, fn func(catalog.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

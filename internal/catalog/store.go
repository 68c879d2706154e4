// Package catalog implements the library catalog workflows: listing,
// detail, create, update and delete for authors, genres, books and book
// copies, on top of an injected Store.
package catalog

import (
	"context"
	"errors"

	"github.com/mrlokans/library/internal/entities"
)

// ErrNotFound is returned by stores when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// AuthorStore persists authors. ListAuthors orders by family name.
type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	GetAuthor(ctx context.Context, id string) (*entities.Author, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	UpdateAuthor(ctx context.Context, id string, changes map[string]any) error
	DeleteAuthor(ctx context.Context, id string) error
	CountAuthors(ctx context.Context) (int64, error)
}

// GenreStore persists genres. ListGenres orders by name.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenre(ctx context.Context, id string) (*entities.Genre, error)
	FindGenreByName(ctx context.Context, name string) (*entities.Genre, error)
	// MissingGenres returns the ids that match no stored genre.
	MissingGenres(ctx context.Context, ids []string) ([]string, error)
	CreateGenre(ctx context.Context, genre *entities.Genre) error
	UpdateGenre(ctx context.Context, id string, changes map[string]any) error
	// DeleteGenre also removes the genre from every book that lists it.
	DeleteGenre(ctx context.Context, id string) error
	CountGenres(ctx context.Context) (int64, error)
}

// BookStore persists books together with their ordered genre references.
// Books it returns have Author and Genres resolved.
type BookStore interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	ListBooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error)
	ListBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
	CreateBook(ctx context.Context, book *entities.Book) error
	UpdateBook(ctx context.Context, id string, changes map[string]any, genreIDs []string) error
	DeleteBook(ctx context.Context, id string) error
	CountBooks(ctx context.Context) (int64, error)
}

// InstanceStore persists book copies. Copies it returns have Book resolved.
type InstanceStore interface {
	ListInstances(ctx context.Context) ([]entities.BookInstance, error)
	GetInstance(ctx context.Context, id string) (*entities.BookInstance, error)
	ListInstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error)
	CreateInstance(ctx context.Context, instance *entities.BookInstance) error
	UpdateInstance(ctx context.Context, id string, changes map[string]any) error
	DeleteInstance(ctx context.Context, id string) error
	CountInstances(ctx context.Context) (int64, error)
	CountInstancesByStatus(ctx context.Context, status entities.BookInstanceStatus) (int64, error)
}

// Store gives access to one typed store per record kind.
//
// Atomic runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Store interface {
	Authors() AuthorStore
	Genres() GenreStore
	Books() BookStore
	Instances() InstanceStore
	Atomic(ctx context.Context, fn func(Store) error) error
}

// Kind names a record type in the catalog.
type Kind string

const (
	KindAuthor       Kind = "author"
	KindGenre        Kind = "genre"
	KindBook         Kind = "book"
	KindBookInstance Kind = "bookinstance"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

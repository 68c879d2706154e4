// Package books provides database operations for books and their ordered
// genre links.
//
// Genre references live in the book_genres table with a position column, so
// a book's genres come back in the order they were submitted. Returned books
// always carry their Author, GenreIDs and Genres.
//
// # Interface Implementation
//
//	var _ catalog.BookStore = (*Repository)(nil)
package books

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := r.db.WithContext(ctx).Preload("Author").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, r.attachGenres(ctx, books)
}

func (r *Repository) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	books := []entities.Book{book}
	if err := r.attachGenres(ctx, books); err != nil {
		return nil, err
	}
	return &books[0], nil
}

func (r *Repository) ListBooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).Preload("Author").Where("author_id = ?", authorID).Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, r.attachGenres(ctx, books)
}

func (r *Repository) ListBooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, r.attachGenres(ctx, books)
}

// CreateBook inserts the book and its genre links. Duplicate genre ids keep
// their first position.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book) error {
	book.GenreIDs = dedupe(book.GenreIDs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(book).Error; err != nil {
			return err
		}
		return insertLinks(tx, book.ID, book.GenreIDs)
	})
}

// UpdateBook writes the given columns and replaces the genre links.
func (r *Repository) UpdateBook(ctx context.Context, id string, changes map[string]any, genreIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return catalog.ErrNotFound
		}

		if len(changes) > 0 {
			if err := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(changes).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, id, dedupe(genreIDs))
	})
}

func (r *Repository) DeleteBook(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.Book{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return catalog.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// attachGenres fills GenreIDs and Genres of each book in link order.
func (r *Repository) attachGenres(ctx context.Context, books []entities.Book) error {
	if len(books) == 0 {
		return nil
	}

	bookIDs := make([]string, len(books))
	for i, b := range books {
		bookIDs[i] = b.ID
	}

	var links []entities.BookGenre
	err := r.db.WithContext(ctx).
		Where("book_id IN ?", bookIDs).
		Order("book_id, position").
		Find(&links).Error
	if err != nil {
		return err
	}

	genreIDs := make([]string, 0, len(links))
	for _, l := range links {
		genreIDs = append(genreIDs, l.GenreID)
	}
	var genres []entities.Genre
	if len(genreIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", dedupe(genreIDs)).Find(&genres).Error; err != nil {
			return err
		}
	}
	byID := make(map[string]entities.Genre, len(genres))
	for _, g := range genres {
		byID[g.ID] = g
	}

	linksByBook := make(map[string][]entities.BookGenre, len(books))
	for _, l := range links {
		linksByBook[l.BookID] = append(linksByBook[l.BookID], l)
	}
	for i := range books {
		books[i].GenreIDs = []string{}
		books[i].Genres = []entities.Genre{}
		for _, l := range linksByBook[books[i].ID] {
			books[i].GenreIDs = append(books[i].GenreIDs, l.GenreID)
			if g, ok := byID[l.GenreID]; ok {
				books[i].Genres = append(books[i].Genres, g)
			}
		}
	}
	return nil
}

func insertLinks(tx *gorm.DB, bookID string, genreIDs []string) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]entities.BookGenre, len(genreIDs))
	for i, genreID := range genreIDs {
		links[i] = entities.BookGenre{BookID: bookID, GenreID: genreID, Position: i}
	}
	return tx.Create(&links).Error
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

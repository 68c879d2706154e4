// Package genres provides database operations for genres.
//
// # Interface Implementation
//
//	var _ catalog.GenreStore = (*Repository)(nil)
package genres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListGenres returns every genre ordered by name.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

func (r *Repository) GetGenre(ctx context.Context, id string) (*entities.Genre, error) {
	return r.first(ctx, "id = ?", id)
}

// FindGenreByName looks up a genre by exact, case-sensitive name.
func (r *Repository) FindGenreByName(ctx context.Context, name string) (*entities.Genre, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *Repository) first(ctx context.Context, query string, arg string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where(query, arg).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// MissingGenres returns the ids, in the order given, that match no genre.
func (r *Repository) MissingGenres(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []string
	err := r.db.WithContext(ctx).Model(&entities.Genre{}).Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	var missing []string
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *Repository) CreateGenre(ctx context.Context, genre *entities.Genre) error {
	return r.db.WithContext(ctx).Create(genre).Error
}

func (r *Repository) UpdateGenre(ctx context.Context, id string, changes map[string]any) error {
	if _, err := r.GetGenre(ctx, id); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entities.Genre{}).Where("id = ?", id).Updates(changes).Error
}

// DeleteGenre removes the genre and unlinks it from every book.
func (r *Repository) DeleteGenre(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.Genre{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return catalog.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) CountGenres(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Genre{}).Count(&count).Error
	return count, err
}

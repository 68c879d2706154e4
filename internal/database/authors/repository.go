// Package authors provides database operations for authors.
//
// # Interface Implementation
//
//	var _ catalog.AuthorStore = (*Repository)(nil)
package authors

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAuthors returns every author ordered by family name.
func (r *Repository) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).Order("family_name ASC").Find(&authors).Error
	return authors, err
}

func (r *Repository) GetAuthor(ctx context.Context, id string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// UpdateAuthor writes the given columns. An empty change set still fails for
// a missing author.
func (r *Repository) UpdateAuthor(ctx context.Context, id string, changes map[string]any) error {
	if _, err := r.GetAuthor(ctx, id); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entities.Author{}).Where("id = ?", id).Updates(changes).Error
}

func (r *Repository) DeleteAuthor(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Author{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *Repository) CountAuthors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Author{}).Count(&count).Error
	return count, err
}

// Package instances provides database operations for book copies.
//
// # Interface Implementation
//
//	var _ catalog.InstanceStore = (*Repository)(nil)
package instances

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book copy database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListInstances(ctx context.Context) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").Find(&instances).Error
	return instances, err
}

func (r *Repository) GetInstance(ctx context.Context, id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").Where("id = ?", id).First(&instance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *Repository) ListInstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").Where("book_id = ?", bookID).Find(&instances).Error
	return instances, err
}

// CreateInstance inserts a copy. Status and due date defaults are applied by
// the entity's create hook.
func (r *Repository) CreateInstance(ctx context.Context, instance *entities.BookInstance) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(instance).Error
}

func (r *Repository) UpdateInstance(ctx context.Context, id string, changes map[string]any) error {
	if _, err := r.GetInstance(ctx, id); err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&entities.BookInstance{}).Where("id = ?", id).Updates(changes).Error
}

func (r *Repository) DeleteInstance(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.BookInstance{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *Repository) CountInstances(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

func (r *Repository) CountInstancesByStatus(ctx context.Context, status entities.BookInstanceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

package page

import (
	"context"

	"invoicing-crm/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, userID uint64, page *domain.Page) error
	FindByID(ctx context.Context, id uint64, userID uint64) (*domain.Page, error)
	ListByUserID(ctx context.Context, userID uint64) ([]domain.Page, error)
	Update(ctx context.Context, page *domain.Page) error
	Delete(ctx context.Context, id uint64, userID uint64) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, userID uint64, page *domain.Page) error {
	page.UserID = userID
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uint64, userID uint64) (*domain.Page, error) {
	var page domain.Page
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ListByUserID returns all pages, pinned first, then most recently updated.
func (r *RepositoryImpl) ListByUserID(ctx context.Context, userID uint64) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pinned DESC, updated_at DESC").
		Find(&pages).Error
	return pages, err
}

func (r *RepositoryImpl) Update(ctx context.Context, page *domain.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uint64, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Page{}).Error
}

package expense

import (
	"context"

	"invoicing-crm/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, userID uint64, expense *domain.Expense) error
	FindByID(ctx context.Context, id uint64, userID uint64) (*domain.Expense, error)
	ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Expense, Meta, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, id uint64, userID uint64) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, userID uint64, expense *domain.Expense) error {
	expense.UserID = userID
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uint64, userID uint64) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *RepositoryImpl) ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Expense, Meta, error) {
	var expenses []domain.Expense
	var totalRecords int64

	if err := r.db.WithContext(ctx).Model(&domain.Expense{}).
		Where("user_id = ?", userID).
		Count(&totalRecords).Error; err != nil {
		return expenses, Meta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&expenses).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return expenses, Meta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

func (r *RepositoryImpl) Update(ctx context.Context, expense *domain.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uint64, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Expense{}).Error
}

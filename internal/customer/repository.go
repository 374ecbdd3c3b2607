package customer

import (
	"context"

	"invoicing-crm/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, userID uint64, customer *domain.Customer) error
	FindByID(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Customer, error)
	ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Customer, Meta, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID, userID uint64) error
	ListActivity(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ActivityLog, error)
	AppendActivity(ctx context.Context, entry *domain.ActivityLog) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, userID uint64, customer *domain.Customer) error {
	customer.UserID = userID
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *RepositoryImpl) ListByUserID(ctx context.Context, userID uint64, page, pageSize int) ([]domain.Customer, Meta, error) {
	var customers []domain.Customer
	var totalRecords int64

	if err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("user_id = ?", userID).
		Count(&totalRecords).Error; err != nil {
		return customers, Meta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&customers).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return customers, Meta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

func (r *RepositoryImpl) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete removes the customer. Documents referencing it go with it through
// the store-level cascade.
func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Customer{}).Error
}

func (r *RepositoryImpl) ListActivity(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.ActivityLog, error) {
	var entries []domain.ActivityLog
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *RepositoryImpl) AppendActivity(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

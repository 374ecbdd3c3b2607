package calendar

import (
	"context"
	"time"

	"invoicing-crm/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, userID uint64, event *domain.CalendarEvent) error
	FindByID(ctx context.Context, id uint64, userID uint64) (*domain.CalendarEvent, error)
	ListByRange(ctx context.Context, userID uint64, from, to time.Time) ([]domain.CalendarEvent, error)
	Update(ctx context.Context, event *domain.CalendarEvent) error
	Delete(ctx context.Context, id uint64, userID uint64) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, userID uint64, event *domain.CalendarEvent) error {
	event.UserID = userID
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uint64, userID uint64) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByRange returns events overlapping [from, to).
func (r *RepositoryImpl) ListByRange(ctx context.Context, userID uint64, from, to time.Time) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND starts_at < ? AND ends_at >= ?", userID, to, from).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

func (r *RepositoryImpl) Update(ctx context.Context, event *domain.CalendarEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uint64, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.CalendarEvent{}).Error
}

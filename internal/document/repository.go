package document

import (
	"context"

	"invoicing-crm/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, userID uint64, document *domain.Document) error
	FindByID(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error)
	ListByUserID(ctx context.Context, userID uint64, filter ListFilter, page, pageSize int) ([]domain.Document, Meta, error)
	Update(ctx context.Context, document *domain.Document) error
	UpdateStatus(ctx context.Context, id uuid.UUID, userID uint64, status domain.DocumentStatus) error
	SetArchived(ctx context.Context, id uuid.UUID, userID uint64, archived bool) error
	Delete(ctx context.Context, id uuid.UUID, userID uint64) error
	CountByUserAndType(ctx context.Context, userID uint64, docType domain.DocumentType) (int64, error)
	ListRecurring(ctx context.Context) ([]domain.Document, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, userID uint64, document *domain.Document) error {
	document.UserID = userID
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Recurrence").
		Preload("Customer").
		Where("id = ? AND user_id = ?", id, userID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

type ListFilter struct {
	Type     domain.DocumentType
	Status   domain.DocumentStatus
	Archived *bool
}

type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *RepositoryImpl) ListByUserID(ctx context.Context, userID uint64, filter ListFilter, page, pageSize int) ([]domain.Document, Meta, error) {
	var documents []domain.Document
	var totalRecords int64

	query := r.db.WithContext(ctx).Model(&domain.Document{}).Where("user_id = ?", userID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}

	if err := query.Count(&totalRecords).Error; err != nil {
		return documents, Meta{}, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Items").
		Preload("Customer").
		Preload("Recurrence").
		Order("issue_date DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&documents).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return documents, Meta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

// Update saves the document and replaces its line items and recurrence
// descriptor so removed rows do not linger.
func (r *RepositoryImpl) Update(ctx context.Context, document *domain.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", document.ID).
			Delete(&domain.DocumentItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", document.ID).
			Delete(&domain.Recurrence{}).Error; err != nil {
			return err
		}
		for i := range document.Items {
			document.Items[i].ID = 0
			document.Items[i].DocumentID = document.ID
		}
		if document.Recurrence != nil {
			document.Recurrence.ID = 0
			document.Recurrence.DocumentID = document.ID
		}
		return tx.Save(document).Error
	})
}

func (r *RepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, userID uint64, status domain.DocumentStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RepositoryImpl) SetArchived(ctx context.Context, id uuid.UUID, userID uint64, archived bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Document{}).Error
}

func (r *RepositoryImpl) CountByUserAndType(ctx context.Context, userID uint64, docType domain.DocumentType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("user_id = ? AND type = ?", userID, docType).
		Count(&count).Error
	return count, err
}

// ListRecurring returns every document that carries a recurrence descriptor,
// with customer and items loaded for the batch job.
func (r *RepositoryImpl) ListRecurring(ctx context.Context) ([]domain.Document, error) {
	var documents []domain.Document
	err := r.db.WithContext(ctx).
		Joins("JOIN recurrences ON recurrences.document_id = documents.id").
		Preload("Items").
		Preload("Recurrence").
		Preload("Customer").
		Where("documents.archived = ?", false).
		Find(&documents).Error
	return documents, err
}

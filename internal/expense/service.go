package expense

import (
	"context"
	defError "errors"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"

	"gorm.io/gorm"
)

type Service interface {
	CreateExpense(ctx context.Context, userID uint64, expense *domain.Expense) error
	ListExpenses(ctx context.Context, userID uint64, page, pageSize int) (*PaginatedExpenses, error)
	UpdateExpense(ctx context.Context, id uint64, userID uint64, input *domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id uint64, userID uint64) error
}

type DefaultService struct {
	repository Repository
}

func NewService(repository Repository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) CreateExpense(ctx context.Context, userID uint64, expense *domain.Expense) error {
	return s.repository.Create(ctx, userID, expense)
}

type PaginatedExpenses struct {
	Data []domain.Expense `json:"data"`
	Meta Meta             `json:"meta"`
}

func (s *DefaultService) ListExpenses(ctx context.Context, userID uint64, page, pageSize int) (*PaginatedExpenses, error) {
	expenses, meta, err := s.repository.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PaginatedExpenses{Data: expenses, Meta: meta}, nil
}

func (s *DefaultService) UpdateExpense(ctx context.Context, id uint64, userID uint64, input *domain.Expense) (*domain.Expense, error) {
	expense, err := s.repository.FindByID(ctx, id, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Expense not found", err)
		}
		return nil, err
	}

	expense.Description = input.Description
	expense.Category = input.Category
	expense.Amount = input.Amount
	expense.Date = input.Date

	if err := s.repository.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *DefaultService) DeleteExpense(ctx context.Context, id uint64, userID uint64) error {
	if _, err := s.repository.FindByID(ctx, id, userID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Expense not found", err)
		}
		return err
	}
	return s.repository.Delete(ctx, id, userID)
}

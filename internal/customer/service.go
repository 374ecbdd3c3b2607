package customer

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"
	"invoicing-crm/redis"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const activityFeedLimit = 50

type Service interface {
	CreateCustomer(ctx context.Context, userID uint64, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, userID uint64, page, pageSize int) (*PaginatedCustomers, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, userID uint64, input *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID, userID uint64) error
	GetActivityFeed(ctx context.Context, id uuid.UUID, userID uint64) ([]domain.ActivityLog, error)
	RecordActivity(ctx context.Context, customerID uuid.UUID, kind, summary string) error
}

type DefaultService struct {
	repository Repository
	cache      *redis.Cache
}

func NewService(repository Repository, cache *redis.Cache) Service {
	return &DefaultService{repository: repository, cache: cache}
}

func (s *DefaultService) CreateCustomer(ctx context.Context, userID uint64, customer *domain.Customer) error {
	err := s.repository.Create(ctx, userID, customer)
	if err == nil {
		s.cache.IncrementVersion(ctx, versionKey(userID))
	}
	return err
}

// GetCustomer returns the customer with its derived activity feed attached.
func (s *DefaultService) GetCustomer(ctx context.Context, id uuid.UUID, userID uint64) (*domain.Customer, error) {
	customer, err := s.repository.FindByID(ctx, id, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Customer not found", err)
		}
		return nil, err
	}

	activity, err := s.repository.ListActivity(ctx, id, activityFeedLimit)
	if err != nil {
		return nil, err
	}
	customer.Activity = activity

	return customer, nil
}

type PaginatedCustomers struct {
	Data []domain.Customer `json:"data"`
	Meta Meta              `json:"meta"`
}

func (s *DefaultService) ListCustomers(ctx context.Context, userID uint64, page, pageSize int) (*PaginatedCustomers, error) {
	v := s.cache.GetVersion(ctx, versionKey(userID))
	cacheKey := fmt.Sprintf("customers:u:%d:v:%d:p:%d:ps:%d", userID, v, page, pageSize)

	var result PaginatedCustomers
	found, _ := s.cache.Get(ctx, cacheKey, &result)
	if found {
		return &result, nil
	}

	customers, meta, err := s.repository.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	result = PaginatedCustomers{Data: customers, Meta: meta}
	go s.cache.Set(context.Background(), cacheKey, result, 24*time.Hour)

	return &result, nil
}

func (s *DefaultService) UpdateCustomer(ctx context.Context, id uuid.UUID, userID uint64, input *domain.Customer) (*domain.Customer, error) {
	customer, err := s.repository.FindByID(ctx, id, userID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Customer not found", err)
		}
		return nil, err
	}

	customer.Name = input.Name
	customer.Company = input.Company
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.Tags = input.Tags
	customer.Notes = input.Notes

	if err := s.repository.Update(ctx, customer); err != nil {
		return nil, err
	}
	s.cache.IncrementVersion(ctx, versionKey(userID))

	return customer, nil
}

func (s *DefaultService) DeleteCustomer(ctx context.Context, id uuid.UUID, userID uint64) error {
	if _, err := s.repository.FindByID(ctx, id, userID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Customer not found", err)
		}
		return err
	}

	if err := s.repository.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.cache.IncrementVersion(ctx, versionKey(userID))

	return nil
}

func (s *DefaultService) GetActivityFeed(ctx context.Context, id uuid.UUID, userID uint64) ([]domain.ActivityLog, error) {
	if _, err := s.repository.FindByID(ctx, id, userID); err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Customer not found", err)
		}
		return nil, err
	}
	return s.repository.ListActivity(ctx, id, activityFeedLimit)
}

func (s *DefaultService) RecordActivity(ctx context.Context, customerID uuid.UUID, kind, summary string) error {
	return s.repository.AppendActivity(ctx, &domain.ActivityLog{
		CustomerID: customerID,
		Kind:       kind,
		Summary:    summary,
	})
}

func versionKey(userID uint64) string {
	return fmt.Sprintf("user:%d:customers:version", userID)
}

package user

import (
	"context"
	defError "errors"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service defines the interface for user business logic
type Service interface {
	Register(ctx context.Context, user *domain.User) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context, userID uint64) error
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
	GetProfile(ctx context.Context, userID uint64) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID uint64, profile *domain.Profile) (*domain.Profile, error)
	SetStripeAccountID(ctx context.Context, userID uint64, accountID string) error
	CompanyInfo(ctx context.Context, userID uint64) (domain.CompanyInfo, error)
}

// DefaultService implements Service
type DefaultService struct {
	repository Repository
}

// NewService creates a new user service
func NewService(repository Repository) Service {
	return &DefaultService{repository: repository}
}

// Register registers a new user
func (s *DefaultService) Register(ctx context.Context, user *domain.User) error {
	_, err := s.repository.FindByEmail(ctx, user.Email)
	if err != nil && !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		return errors.UnprocessableEntity("User already registered", nil)
	}

	// Hash the password before saving
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.UnprocessableEntity("Can't hash password", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true

	return s.repository.Create(ctx, user)
}

// Login authenticates a user
func (s *DefaultService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("User not found", err)
	}

	if !user.IsActive {
		return nil, errors.Unauthorized("User is not active", nil)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, errors.UnprocessableEntity("Wrong password", err)
	}

	return user, nil
}

// Logout revokes all outstanding tokens by bumping the token version.
func (s *DefaultService) Logout(ctx context.Context, userID uint64) error {
	return s.repository.BumpTokenVersion(ctx, userID)
}

func (s *DefaultService) GetUserByID(ctx context.Context, id uint64) (*domain.User, error) {
	return s.repository.FindByID(ctx, id)
}

// GetProfile returns the company profile, creating an empty one on first read.
func (s *DefaultService) GetProfile(ctx context.Context, userID uint64) (*domain.Profile, error) {
	profile, err := s.repository.FindProfileByUserID(ctx, userID)
	if defError.Is(err, gorm.ErrRecordNotFound) {
		profile = &domain.Profile{UserID: userID}
		if err := s.repository.SaveProfile(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	}
	return profile, err
}

func (s *DefaultService) UpdateProfile(ctx context.Context, userID uint64, input *domain.Profile) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.CompanyName = input.CompanyName
	profile.Address = input.Address
	profile.Email = input.Email
	profile.Phone = input.Phone
	profile.TaxID = input.TaxID
	profile.LogoURL = input.LogoURL

	if err := s.repository.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *DefaultService) SetStripeAccountID(ctx context.Context, userID uint64, accountID string) error {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	profile.StripeAccountID = accountID
	return s.repository.SaveProfile(ctx, profile)
}

// CompanyInfo is the projection every render path reads.
func (s *DefaultService) CompanyInfo(ctx context.Context, userID uint64) (domain.CompanyInfo, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return domain.CompanyInfo{}, err
	}
	return profile.CompanyInfo(), nil
}

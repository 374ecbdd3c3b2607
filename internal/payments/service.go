package payments

import (
	"context"

	"invoicing-crm/internal/domain"
	"invoicing-crm/internal/errors"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, userID uint64) (*domain.Profile, error)
	SetStripeAccountID(ctx context.Context, userID uint64, accountID string) error
}

// Service links user accounts to Stripe Express accounts for payment
// collection. The Stripe client is constructed in main and passed in.
type Service struct {
	api        *client.API
	profiles   ProfileStore
	refreshURL string
	returnURL  string
}

func NewService(api *client.API, profiles ProfileStore, refreshURL, returnURL string) *Service {
	return &Service{
		api:        api,
		profiles:   profiles,
		refreshURL: refreshURL,
		returnURL:  returnURL,
	}
}

// LinkAccount creates the Stripe Express account on first call and returns
// a fresh onboarding link either way.
func (s *Service) LinkAccount(ctx context.Context, userID uint64) (string, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	accountID := profile.StripeAccountID
	if accountID == "" {
		params := &stripe.AccountParams{
			Type: stripe.String(string(stripe.AccountTypeExpress)),
		}
		if profile.Email != "" {
			params.Email = stripe.String(profile.Email)
		}
		account, err := s.api.Accounts.New(params)
		if err != nil {
			return "", errors.New(502, "Failed to create Stripe account", err)
		}
		accountID = account.ID

		if err := s.profiles.SetStripeAccountID(ctx, userID, accountID); err != nil {
			return "", err
		}
	}

	link, err := s.api.AccountLinks.New(&stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(s.refreshURL),
		ReturnURL:  stripe.String(s.returnURL),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", errors.New(502, "Failed to create Stripe onboarding link", err)
	}

	return link.URL, nil
}

type AccountStatus struct {
	Linked          bool   `json:"linked"`
	AccountID       string `json:"account_id,omitempty"`
	DetailsComplete bool   `json:"details_complete"`
	ChargesEnabled  bool   `json:"charges_enabled"`
	PayoutsEnabled  bool   `json:"payouts_enabled"`
}

func (s *Service) Status(ctx context.Context, userID uint64) (*AccountStatus, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.StripeAccountID == "" {
		return &AccountStatus{Linked: false}, nil
	}

	account, err := s.api.Accounts.GetByID(profile.StripeAccountID, nil)
	if err != nil {
		return nil, errors.New(502, "Failed to fetch Stripe account", err)
	}

	return &AccountStatus{
		Linked:          true,
		AccountID:       account.ID,
		DetailsComplete: account.DetailsSubmitted,
		ChargesEnabled:  account.ChargesEnabled,
		PayoutsEnabled:  account.PayoutsEnabled,
	}, nil
}

package ports

import (
	"context"

	"github.com/custommatt/account-api/internal/core/domain"
)

// RegisterInput carries the raw registration request.
type RegisterInput struct {
	AccountType   string `json:"accountType"   validate:"required"`
	FirstName     string `json:"firstName"     validate:"required"`
	LastName      string `json:"lastName"      validate:"required"`
	PreferredName string `json:"preferredName"`
	Username      string `json:"username"      validate:"required"`
	Email         string `json:"email"         validate:"required"`
	Password      string `json:"password"      validate:"required"`
	HearAbout     string `json:"hearAbout"     validate:"required"`
	JoinSociety   bool   `json:"joinSociety"`

	LicenseNumber  string `json:"licenseNumber"`
	BusinessNumber string `json:"businessNumber"`
	ReferralName   string `json:"referralName"`
	LicensedState  string `json:"licensedState"`
	ZipCode        string `json:"zipCode"`
}

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by successful registrations and logins.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

// AccountService defines the account use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	SearchByZip(ctx context.Context, zip string) ([]domain.PublicAccount, error)
	Purge(ctx context.Context) (int64, error)
}

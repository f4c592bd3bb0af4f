package ports

import (
	"context"

	"github.com/custommatt/account-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create inserts a new account and assigns its ID. Uniqueness violations
	// surface as domain.ErrEmailTaken or domain.ErrUsernameTaken.
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	// SearchProfessionalsByZip returns stylists and salon owners registered
	// under zip, projected to their public fields.
	SearchProfessionalsByZip(ctx context.Context, zip string) ([]domain.PublicAccount, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// SearchCache keeps recent zip search results. Implementations must be safe
// to call when the backing store is unavailable; callers treat every error
// as a cache miss.
type SearchCache interface {
	Get(ctx context.Context, zip string) ([]domain.PublicAccount, bool, error)
	Set(ctx context.Context, zip string, accounts []domain.PublicAccount) error
	Invalidate(ctx context.Context, zip string) error
	Flush(ctx context.Context) error
}

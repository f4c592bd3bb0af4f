package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/custommatt/account-api/internal/core/domain"
	"github.com/custommatt/account-api/internal/core/ports"
)

const (
	defaultNotifyTimeout = 2 * time.Second

	// timingCredential is hashed once and verified against on unknown
	// emails so that login costs one hash comparison either way.
	timingCredential = "account-api-timing-equaliser"
)

// AccountDeps groups the collaborators of AccountService. Notifier and Cache
// are optional.
type AccountDeps struct {
	Repo          ports.AccountRepository
	Hasher        ports.PasswordHasher
	Tokens        ports.TokenIssuer
	Notifier      ports.Notifier
	Cache         ports.SearchCache
	NotifyTimeout time.Duration
	Logger        zerolog.Logger
}

// AccountService implements registration, login and account lookups.
type AccountService struct {
	repo          ports.AccountRepository
	hasher        ports.PasswordHasher
	tokens        ports.TokenIssuer
	notifier      ports.Notifier
	cache         ports.SearchCache
	validate      *validator.Validate
	notifyTimeout time.Duration
	now           func() time.Time
	log           zerolog.Logger

	timingOnce sync.Once
	timingHash string
}

func NewAccountService(deps AccountDeps) *AccountService {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Cache == nil {
		deps.Cache = nopCache{}
	}
	if deps.NotifyTimeout <= 0 {
		deps.NotifyTimeout = defaultNotifyTimeout
	}

	return &AccountService{
		repo:          deps.Repo,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		notifier:      deps.Notifier,
		cache:         deps.Cache,
		validate:      newInputValidator(),
		notifyTimeout: deps.NotifyTimeout,
		now:           func() time.Time { return time.Now().UTC() },
		log:           deps.Logger,
	}
}

// Register validates the input, creates the account and returns a token for
// it. The welcome notification never fails the registration.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if err := s.checkRequired(in); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	account, err := domain.NewAccount(domain.AccountDraft{
		AccountType:   domain.AccountType(in.AccountType),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PreferredName: in.PreferredName,
		Username:      in.Username,
		Email:         email,
		Password:      in.Password,
		HearAbout:     domain.HearAbout(in.HearAbout),
		JoinSociety:   in.JoinSociety,
		Conditional: domain.ConditionalFields{
			LicenseNumber:  in.LicenseNumber,
			BusinessNumber: in.BusinessNumber,
			ReferralName:   in.ReferralName,
			LicensedState:  in.LicensedState,
			ZipCode:        in.ZipCode,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, account); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().
		Str("account_id", account.ID).
		Str("account_type", string(account.AccountType())).
		Msg("account registered")

	if account.AccountType().Professional() {
		zip := account.Profile.Fields().ZipCode
		if err := s.cache.Invalidate(ctx, zip); err != nil {
			s.log.Warn().Err(err).Str("zip_code", zip).Msg("failed to invalidate search cache")
		}
	}

	s.sendWelcome(ctx, account)

	return &ports.AuthResult{Token: token, Account: account}, nil
}

// Login verifies the credentials and issues a token. Unknown emails and
// wrong passwords produce the same ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	if err := s.checkRequired(in); err != nil {
		return nil, err
	}

	account, err := s.repo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.verifyAgainstTimingHash(in.Password)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")
	return &ports.AuthResult{Token: token, Account: account}, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.repo.List(ctx)
}

// SearchByZip lists the professionals registered under zip.
func (s *AccountService) SearchByZip(ctx context.Context, zip string) ([]domain.PublicAccount, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return nil, domain.NewValidationError("zipCode", "is required")
	}
	if !domain.ValidZipCode(zip) {
		return nil, domain.NewValidationError("zipCode", "must look like 12345 or 12345-6789")
	}

	cached, hit, err := s.cache.Get(ctx, zip)
	if err != nil {
		s.log.Warn().Err(err).Str("zip_code", zip).Msg("search cache read failed")
	} else if hit {
		return cached, nil
	}

	accounts, err := s.repo.SearchProfessionalsByZip(ctx, zip)
	if err != nil {
		return nil, fmt.Errorf("search by zip: %w", err)
	}
	if len(accounts) == 0 {
		return nil, domain.ErrAccountNotFound
	}

	if err := s.cache.Set(ctx, zip, accounts); err != nil {
		s.log.Warn().Err(err).Str("zip_code", zip).Msg("search cache write failed")
	}
	return accounts, nil
}

// Purge deletes every account. Administrative only.
func (s *AccountService) Purge(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	if err := s.cache.Flush(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to flush search cache")
	}

	s.log.Warn().Int64("deleted", n).Msg("all accounts purged")
	return n, nil
}

// save runs the account's save hook and persists it.
func (s *AccountService) save(ctx context.Context, account *domain.Account) error {
	if err := account.BeforeSave(s.hasher, s.now()); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// verifyAgainstTimingHash spends the same work as a real password check.
func (s *AccountService) verifyAgainstTimingHash(plaintext string) {
	s.timingOnce.Do(func() {
		hash, err := s.hasher.Hash(timingCredential)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare timing hash")
			return
		}
		s.timingHash = hash
	})
	if s.timingHash != "" {
		_, _ = s.hasher.Verify(plaintext, s.timingHash)
	}
}

func (s *AccountService) sendWelcome(ctx context.Context, account *domain.Account) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	err := s.notifier.NotifyWelcome(ctx, ports.WelcomeMessage{
		AccountID:   account.ID,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Username:    account.Username,
		AccountType: string(account.AccountType()),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("welcome notification not delivered")
	}
}

func (s *AccountService) checkRequired(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	ve := &domain.ValidationError{}
	for _, fe := range verrs {
		ve.Add(fe.Field(), "is required")
	}
	return ve
}

// newInputValidator reports fields by their JSON names.
func newInputValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

type nopNotifier struct{}

func (nopNotifier) NotifyWelcome(context.Context, ports.WelcomeMessage) error { return nil }

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]domain.PublicAccount, bool, error) {
	return nil, false, nil
}
func (nopCache) Set(context.Context, string, []domain.PublicAccount) error { return nil }
func (nopCache) Invalidate(context.Context, string) error                   { return nil }
func (nopCache) Flush(context.Context) error                                { return nil }

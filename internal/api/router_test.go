package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custommatt/account-api/internal/api/handler"
	"github.com/custommatt/account-api/internal/core/domain"
	"github.com/custommatt/account-api/internal/core/ports"
	"github.com/custommatt/account-api/internal/core/service"
)

type fakeAccounts struct {
	account *domain.Account
}

func (f *fakeAccounts) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	return &ports.AuthResult{Token: "t", Account: f.account}, nil
}

func (f *fakeAccounts) Login(context.Context, ports.LoginInput) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (f *fakeAccounts) Get(_ context.Context, id string) (*domain.Account, error) {
	if id != f.account.ID {
		return nil, domain.ErrAccountNotFound
	}
	return f.account, nil
}

func (f *fakeAccounts) List(context.Context) ([]*domain.Account, error) {
	return []*domain.Account{f.account}, nil
}

func (f *fakeAccounts) SearchByZip(context.Context, string) ([]domain.PublicAccount, error) {
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccounts) Purge(context.Context) (int64, error) { return 1, nil }

func newTestRouter(t *testing.T) (http.Handler, *service.JWTIssuer, *domain.Account) {
	t.Helper()

	account, err := domain.NewAccount(domain.AccountDraft{
		AccountType: domain.AccountTypeRegularCustomer,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Username:    "ada",
		Email:       "ada@example.com",
		Password:    "pw",
		HearAbout:   domain.HearAboutOther,
	})
	require.NoError(t, err)
	account.ID = "665f1c2e9b1d4a0001a1b2c3"

	tokens, err := service.NewJWTIssuer("secret", time.Hour)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Accounts: &fakeAccounts{account: account},
		Tokens:   tokens,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": func(context.Context) error { return nil },
		},
		Logger:     zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
	return e, tokens, account
}

func do(h http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AccountRoutes(t *testing.T) {
	h, tokens, account := newTestRouter(t)

	token, err := tokens.Issue(account.ID)
	require.NoError(t, err)
	bearer := http.Header{"Authorization": []string{"Bearer " + token}}

	tests := []struct {
		name   string
		method string
		target string
		body   string
		header http.Header
		code   int
	}{
		{"login failure", http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`, nil, http.StatusBadRequest},
		{"user without token", http.MethodGet, "/api/auth/user", "", nil, http.StatusUnauthorized},
		{"user with token", http.MethodGet, "/api/auth/user", "", bearer, http.StatusOK},
		{"users", http.MethodGet, "/api/auth/users", "", nil, http.StatusOK},
		{"trash", http.MethodDelete, "/api/auth/trash", "", nil, http.StatusOK},
		{"search miss", http.MethodGet, "/api/auth/search?zipCode=99999", "", nil, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/auth/nope", "", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, tt.target, tt.body, tt.header)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code >= http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), `"message":`)
			}
		})
	}
}

func TestRouter_OperationalRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Generate one request so the echoprometheus collectors have samples.
	do(h, http.MethodGet, "/api/auth/users", "", nil)
	rec = do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "accounts_http_requests_total")
}

func TestRouter_SetsRequestID(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := do(h, http.MethodGet, "/health", "", nil)
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

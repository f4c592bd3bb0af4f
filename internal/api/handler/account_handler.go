package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custommatt/account-api/internal/api/metrics"
	"github.com/custommatt/account-api/internal/core/domain"
	"github.com/custommatt/account-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for account operations.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates a new account and returns a token for it.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	accountType := metricAccountType(req.AccountType)
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(accountType, "invalid").Inc()
		return err
	}

	result, err := h.service.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(accountType, registrationResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues(accountType, "created").Inc()

	return c.JSON(http.StatusCreated, tokenResponse{
		Message: "User registered successfully",
		Token:   result.Token,
	})
}

// Login authenticates an account and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	result, err := h.service.Login(c.Request().Context(), toLoginInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrValidation) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, tokenResponse{
		Message: "Login successful",
		Token:   result.Token,
	})
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  getUserResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/user [get]
func (h *AccountHandler) Me(c echo.Context) error {
	id, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	account, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, getUserResponse{User: toUserResponse(account)})
}

// List returns every account.
//
// @Summary      List accounts
// @Tags         auth
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/users [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: toUserResponses(accounts)})
}

// Purge deletes every account.
//
// @Summary      Delete all accounts
// @Tags         auth
// @Produce      json
// @Success      200  {object}  purgeResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/trash [delete]
func (h *AccountHandler) Purge(c echo.Context) error {
	n, err := h.service.Purge(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, purgeResponse{
		Message: "All users deleted successfully",
		Result:  purgeResult{DeletedCount: n},
	})
}

// Search lists the stylists and salon owners registered under a zip code.
//
// @Summary      Search professionals by zip code
// @Tags         auth
// @Produce      json
// @Param        zipCode  query     string  true  "Zip code (12345 or 12345-6789)"
// @Success      200      {object}  searchUsersResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/auth/search [get]
func (h *AccountHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return err
	}

	users, err := h.service.SearchByZip(c.Request().Context(), req.ZipCode)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAccountNotFound):
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "No users found for this zip code")
	case errors.Is(err, domain.ErrValidation):
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return err
	default:
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SearchesTotal.WithLabelValues("found").Inc()

	return c.JSON(http.StatusOK, searchUsersResponse{Users: toPublicUserResponses(users)})
}

// metricAccountType bounds the account_type label to known values.
func metricAccountType(raw string) string {
	if t := domain.AccountType(raw); t.Valid() {
		return raw
	}
	return "unknown"
}

func registrationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

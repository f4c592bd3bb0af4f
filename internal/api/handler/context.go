package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AccountIDKey is the echo context key the Auth middleware stores the
// authenticated account ID under.
const AccountIDKey = "account_id"

// ctxAccountID returns the authenticated account ID, failing with 401 when
// the Auth middleware did not run or found no subject.
func ctxAccountID(c echo.Context) (string, error) {
	id, _ := c.Get(AccountIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

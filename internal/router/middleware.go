package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/auth"
	"spicedums/internal/errors"
	"spicedums/internal/handler"
)

// RequireLogin rejects anonymous requests: 401 for data clients, a redirect to /login otherwise.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auth.CurrentUser(c) == nil {
			return unauthenticated(c)
		}
		return next(c)
	}
}

// RequireAdmin extends RequireLogin with a 403 for users without the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := auth.CurrentUser(c)
		if user == nil {
			return unauthenticated(c)
		}
		if !user.IsAdmin() {
			return deny(http.StatusForbidden, errors.ErrForbidden, "FORBIDDEN")
		}
		return next(c)
	}
}

func unauthenticated(c echo.Context) error {
	if handler.WantsJSON(c) {
		return deny(http.StatusUnauthorized, errors.ErrUnauthorized, "UNAUTHORIZED")
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

func deny(status int, err error, code string) error {
	return echo.NewHTTPError(status, errors.ErrorResponse{Error: err.Error(), Code: code})
}

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"spicedums/internal/errors"
)

// XMLHttpRequest is the X-Requested-With value sent by fetch/XHR callers.
const XMLHttpRequest = "XMLHttpRequest"

// WantsJSON reports whether the client asked for a data response instead of a redirect.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.EqualFold(req.Header.Get(echo.HeaderXRequestedWith), XMLHttpRequest) {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// fail converts a service error into an HTTP error carrying an ErrorResponse body.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// failOrRedirect answers data clients with an error body and browsers with a redirect.
// Server errors are always returned as errors.
func failOrRedirect(c echo.Context, err error, to string) error {
	httpErr := errors.MapErrorToHTTP(err)
	if WantsJSON(c) || httpErr.StatusCode >= http.StatusInternalServerError {
		return fail(err)
	}
	return redirectWithError(c, to, httpErr.Code)
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func redirectWithError(c echo.Context, to, code string) error {
	u, err := url.Parse(to)
	if err != nil {
		return redirect(c, to)
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	return redirect(c, u.String())
}

// back returns the same-site Referer path, or fallback.
func back(c echo.Context, fallback string) string {
	ref := c.Request().Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request().Host) {
		return fallback
	}
	if u.Path == "" {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// paramID parses a positive id path parameter; malformed ids are reported as notFound.
func paramID(c echo.Context, name string, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}

package auth

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// ContextKey is where the validated *Claims are stored on the echo context.
	ContextKey = "user"
	// CookieName is the cookie carrying the login token.
	CookieName = "token"
)

// ErrTokenRevoked is returned for tokens that were logged out.
var ErrTokenRevoked = errors.New("token revoked")

// Middleware reads the token from the Authorization header or the token cookie.
// Requests without a valid token continue anonymously.
func Middleware(jwtService *JWTService, store TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:             ContextKey,
		TokenLookup:            "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + CookieName,
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			revoked, _ := store.IsBlacklisted(c.Request().Context(), claims.ID)
			if revoked {
				return nil, ErrTokenRevoked
			}
			return claims, nil
		},
	})
}

// CurrentUser returns the claims of the logged-in user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *Claims {
	claims, _ := c.Get(ContextKey).(*Claims)
	return claims
}

// CurrentUserID returns the user id for order attribution; nil means guest.
func CurrentUserID(c echo.Context) *uint {
	claims := CurrentUser(c)
	if claims == nil {
		return nil
	}
	id := claims.UserID
	return &id
}

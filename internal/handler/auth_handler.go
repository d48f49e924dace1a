package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"spicedums/internal/auth"
	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request. Login accepts a username or an email.
type LoginRequest struct {
	Login    string `json:"login" form:"login" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register godoc
// @Summary Register a new customer
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return failOrRedirect(c, errors.ErrInvalidInput, "/register")
	}
	if err := c.Validate(&req); err != nil {
		return failOrRedirect(c, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err), "/register")
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return failOrRedirect(c, err, "/register")
	}

	if WantsJSON(c) {
		return c.JSON(http.StatusCreated, user)
	}
	return redirect(c, "/login")
}

// Login godoc
// @Summary Login with username or email
// @Description Sets the token cookie and returns the token for header use.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return failOrRedirect(c, errors.ErrInvalidInput, "/login")
	}
	if err := c.Validate(&req); err != nil {
		return failOrRedirect(c, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err), "/login")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return failOrRedirect(c, err, "/login")
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(auth.TokenExpiry),
	})

	if WantsJSON(c) {
		return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
	}
	if user.IsAdmin() {
		return redirect(c, "/admin/reports")
	}
	return redirect(c, "/")
}

// Logout godoc
// @Summary Logout
// @Description Revokes the current token and clears the cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), requestToken(c)); err != nil {
		return fail(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if WantsJSON(c) {
		return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
	}
	return redirect(c, "/")
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims := auth.CurrentUser(c)
	if claims == nil {
		return fail(errors.ErrUnauthorized)
	}
	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, user)
}

// FormResponse describes an auth form for clients that render their own UI.
type FormResponse struct {
	Action string   `json:"action"`
	Fields []string `json:"fields"`
	Error  string   `json:"error,omitempty"`
}

// LoginForm godoc
// @Summary Login form description
// @Tags auth
// @Produce json
// @Success 200 {object} FormResponse
// @Router /login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormResponse{Action: "/login", Fields: []string{"login", "password"}, Error: c.QueryParam("error")})
}

// RegisterForm godoc
// @Summary Registration form description
// @Tags auth
// @Produce json
// @Success 200 {object} FormResponse
// @Router /register [get]
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormResponse{Action: "/register", Fields: []string{"username", "email", "password"}, Error: c.QueryParam("error")})
}

func requestToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

package router

import (
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"spicedums/internal/auth"
	"spicedums/internal/config"
	"spicedums/internal/handler"
	"spicedums/internal/logger"
	"spicedums/internal/session"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Store        *handler.StoreHandler
	Review       *handler.ReviewHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Auth         *handler.AuthHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	Report       *handler.ReportHandler
	Seed         *handler.SeedHandler
}

// Deps are the cross-cutting components the middleware chain needs.
type Deps struct {
	Log        zerolog.Logger
	JWT        *auth.JWTService
	TokenStore auth.TokenStoreInterface
	Sessions   session.Store
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, deps Deps, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(deps.Log))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/images", filepath.Join(cfg.PublicDir, "images"))
	e.Static("/uploads", filepath.Join(cfg.PublicDir, "uploads"))

	app := e.Group("",
		session.Middleware(deps.Sessions, cfg.SessionTTL, deps.Log),
		auth.Middleware(deps.JWT, deps.TokenStore),
	)

	app.GET("/", h.Store.Home)
	app.GET("/product/:id", h.Store.Product)
	app.POST("/product/:id/review", h.Review.Create, RequireLogin)

	app.GET("/cart", h.Cart.Get)
	app.POST("/cart/add", h.Cart.Add)
	app.POST("/cart/update", h.Cart.Update)
	app.POST("/cart/remove", h.Cart.Remove)
	app.POST("/cart/clear", h.Cart.Clear)
	app.POST("/cart/checkout", h.Checkout.Cart)
	app.POST("/checkout", h.Checkout.Single)

	app.GET("/register", h.Auth.RegisterForm)
	app.POST("/register", h.Auth.Register)
	app.GET("/login", h.Auth.LoginForm)
	app.POST("/login", h.Auth.Login)
	app.POST("/logout", h.Auth.Logout)
	app.GET("/logout", h.Auth.Logout)
	app.GET("/me", h.Auth.Me)

	admin := app.Group("/admin", RequireAdmin)
	admin.GET("/products", h.AdminProduct.List)
	admin.POST("/products", h.AdminProduct.Create)
	admin.POST("/products/:id", h.AdminProduct.Update)
	admin.POST("/products/:id/delete", h.AdminProduct.Delete)
	admin.GET("/orders/:id", h.AdminOrder.Get)
	admin.POST("/orders/:id/delete", h.AdminOrder.Delete)
	admin.GET("/reports", h.Report.Page)
	admin.GET("/reports/json", h.Report.JSON)
	admin.GET("/seed/orders", h.Seed.SeedOrders)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

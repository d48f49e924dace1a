package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spicedums/docs"
	"spicedums/internal/auth"
	"spicedums/internal/cache"
	"spicedums/internal/config"
	"spicedums/internal/db"
	"spicedums/internal/events"
	"spicedums/internal/handler"
	"spicedums/internal/logger"
	"spicedums/internal/model"
	"spicedums/internal/repository"
	"spicedums/internal/router"
	"spicedums/internal/service"
	"spicedums/internal/session"
)

// @title Spicedums Storefront API
// @version 1.0
// @description Storefront with session cart, checkout, reviews and admin sales reports.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	decimal.MarshalJSONWithoutQuotes = true

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, sessions and caches degrade to empty")
	}
	cancelPing()

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, 256, log)
		kp.Start()
		publisher = kp
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaOrderTopic).Msg("order events enabled")
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	images := service.NewImageResolver(cfg.PublicDir)
	catalogService := service.NewCatalogService(productRepo, cacheClient, images, log)
	cartService := service.NewCartService(productRepo, images)
	orderService := service.NewOrderService(orderRepo, publisher, log)
	reviewService := service.NewReviewService(reviewRepo, productRepo, log)
	reportService := service.NewReportService(reportRepo, cfg.Location, log)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, log)
	userService := service.NewUserService(userRepo, cacheClient)
	seedService := service.NewSeedService(productRepo, userService, orderRepo, nil, log)

	if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error().Err(err).Msg("ensure admin account")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg,
		router.Deps{
			Log:        log,
			JWT:        jwtService,
			TokenStore: tokenStore,
			Sessions:   session.NewRedisStore(cacheClient, cfg.SessionTTL),
		},
		router.Handlers{
			Store:        handler.NewStoreHandler(catalogService, reviewService),
			Review:       handler.NewReviewHandler(reviewService),
			Cart:         handler.NewCartHandler(cartService),
			Checkout:     handler.NewCheckoutHandler(orderService, cfg.CheckoutPhone),
			Auth:         handler.NewAuthHandler(authService, userService),
			AdminProduct: handler.NewAdminProductHandler(catalogService, images),
			AdminOrder:   handler.NewAdminOrderHandler(orderService),
			Report:       handler.NewReportHandler(reportService),
			Seed:         handler.NewSeedHandler(seedService),
		},
	)

	docs.SwaggerInfo.Host = swaggerHost(cfg)
	log.Info().Str("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Msg("swagger documentation")

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("close event publisher")
	}
	log.Info().Msg("server stopped")
}

// migrate creates or updates the schema, dropping every table first when reset is set.
func migrate(gormDB *gorm.DB, reset bool, log zerolog.Logger) error {
	tables := []interface{}{
		&model.OrderItem{},
		&model.Order{},
		&model.Review{},
		&model.Product{},
		&model.User{},
	}
	if reset {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Warn().Err(err).Msg("drop table (may not exist)")
			}
		}
	}
	return gormDB.AutoMigrate(
		&model.Product{},
		&model.User{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
	)
}

// swaggerHost strips any scheme from SWAGGER_HOST, defaulting to the local port.
func swaggerHost(cfg *config.Config) string {
	if cfg.SwaggerHost == "" {
		return "localhost:" + cfg.ServerPort
	}
	host := strings.TrimPrefix(cfg.SwaggerHost, "https://")
	return strings.TrimPrefix(host, "http://")
}

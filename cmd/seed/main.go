package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"spicedums/internal/config"
	"spicedums/internal/db"
	"spicedums/internal/logger"
	"spicedums/internal/model"
	"spicedums/internal/repository"
	"spicedums/internal/service"
)

func main() {
	count := flag.Int("count", service.DefaultSeedCount, "number of orders to generate (1-200)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	if err := gormDB.AutoMigrate(&model.Order{}, &model.OrderItem{}); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	seeder := service.NewSeedService(
		repository.NewProductRepository(gormDB),
		service.NewUserService(repository.NewUserRepository(gormDB), nil),
		repository.NewOrderRepository(gormDB),
		nil,
		log,
	)

	res, err := seeder.SeedOrders(context.Background(), *count)
	if err != nil {
		log.Fatal().Err(err).Msg("seed orders")
	}
	log.Info().
		Int("inserted", res.Inserted).
		Time("from", res.From).
		Time("to", res.To).
		Msg("seed completed")
}

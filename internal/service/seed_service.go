package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/repository"
)

// Seeding bounds.
const (
	DefaultSeedCount = 10
	MaxSeedCount     = 200
	seedSpreadDays   = 30
	maxSeedLines     = 3
	maxSeedQty       = 4
)

// SeedResult summarises a seeding run.
type SeedResult struct {
	Inserted int       `json:"inserted"`
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
}

// SeedService generates demo orders from the current catalog.
type SeedService interface {
	SeedOrders(ctx context.Context, count int) (*SeedResult, error)
}

type seedService struct {
	products repository.ProductRepository
	users    UserService
	orders   repository.OrderRepository
	rng      *rand.Rand
	now      func() time.Time
	log      zerolog.Logger
}

// NewSeedService creates a seeder. rng may be nil for a time-seeded source.
func NewSeedService(products repository.ProductRepository, users UserService, orders repository.OrderRepository, rng *rand.Rand, log zerolog.Logger) SeedService {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &seedService{
		products: products,
		users:    users,
		orders:   orders,
		rng:      rng,
		now:      time.Now,
		log:      log.With().Str("component", "seed").Logger(),
	}
}

// ClampSeedCount bounds count to 1..MaxSeedCount.
func ClampSeedCount(count int) int {
	return min(max(count, 1), MaxSeedCount)
}

// SeedOrders inserts count random orders spread over the last 30 days, today included.
func (s *seedService) SeedOrders(ctx context.Context, count int) (*SeedResult, error) {
	count = ClampSeedCount(count)

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return nil, errors.ErrNoProducts
	}
	customers, err := s.users.ListCustomers(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("list customers, seeding guest orders only")
		customers = nil
	}

	now := s.now()
	orders := make([]model.Order, 0, count)
	for range count {
		orders = append(orders, s.randomOrder(products, customers, now))
	}
	if err := s.orders.CreateBatch(ctx, orders); err != nil {
		return nil, fmt.Errorf("insert seed orders: %w", err)
	}

	y, m, d := now.Date()
	return &SeedResult{
		Inserted: len(orders),
		From:     time.Date(y, m, d-(seedSpreadDays-1), 0, 0, 0, 0, now.Location()),
		To:       now,
	}, nil
}

func (s *seedService) randomOrder(products []model.Product, customers []model.User, now time.Time) model.Order {
	lines := 1 + s.rng.IntN(min(maxSeedLines, len(products)))
	picks := s.rng.Perm(len(products))[:lines]

	order := model.Order{Total: decimal.Zero, CreatedAt: s.randomTime(now)}
	// roughly one in three orders is a guest checkout
	if len(customers) > 0 && s.rng.IntN(3) != 0 {
		id := customers[s.rng.IntN(len(customers))].ID
		order.UserID = &id
	}
	for _, i := range picks {
		p := products[i]
		item := model.OrderItem{ProductID: p.ID, Qty: 1 + s.rng.IntN(maxSeedQty), Price: p.Price, Cost: p.Cost}
		order.Items = append(order.Items, item)
		order.Total = order.Total.Add(item.Subtotal())
	}
	return order
}

// randomTime picks a moment between the start of day now-29 and now.
func (s *seedService) randomTime(now time.Time) time.Time {
	y, m, d := now.Date()
	start := time.Date(y, m, d-(seedSpreadDays-1), 0, 0, 0, 0, now.Location())
	span := now.Sub(start)
	if span <= 0 {
		return now
	}
	return start.Add(time.Duration(s.rng.Int64N(int64(span))))
}

package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spicedums/internal/errors"
	"spicedums/internal/model"
)

// memoryOrders is an in-memory order store that also answers report queries.
type memoryOrders struct {
	MockReportRepository
	orders []model.Order
}

func (m *memoryOrders) CreateBatch(_ context.Context, orders []model.Order) error {
	for i := range orders {
		orders[i].ID = uint(len(m.orders) + 1)
		m.orders = append(m.orders, orders[i])
	}
	return nil
}

func (m *memoryOrders) OrdersBetween(_ context.Context, from, to time.Time) ([]model.OrderSnapshot, error) {
	var out []model.OrderSnapshot
	for _, o := range m.orders {
		if !o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, model.OrderSnapshot{ID: o.ID, Total: o.Total, CreatedAt: o.CreatedAt})
		}
	}
	return out, nil
}

func seedCatalog() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Sambal", Price: decimal.NewFromInt(10000), Cost: decimal.NewFromInt(6000)},
		{ID: 2, Name: "Dimsum", Price: decimal.NewFromInt(15000), Cost: decimal.NewFromInt(9000)},
		{ID: 3, Name: "Keripik", Price: decimal.NewFromInt(8000), Cost: decimal.NewFromInt(5000)},
		{ID: 4, Name: "Bakso", Price: decimal.NewFromInt(20000), Cost: decimal.NewFromInt(12000)},
	}
}

func TestSeedService_SeedOrders(t *testing.T) {
	products := new(MockProductRepository)
	products.On("List", mock.Anything).Return(seedCatalog(), nil)
	users := new(MockUserRepository)
	users.On("ListByRole", mock.Anything, model.RoleCustomer).Return([]model.User{{ID: 11}, {ID: 12}}, nil)
	orders := new(MockOrderRepository)

	var inserted []model.Order
	orders.On("CreateBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { inserted = args.Get(1).([]model.Order) }).
		Return(nil).Once()

	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewSeedService(products, NewUserService(users, nil), orders, rand.New(rand.NewPCG(1, 2)), zerolog.Nop()).(*seedService)
	svc.now = func() time.Time { return now }

	res, err := svc.SeedOrders(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Inserted)
	require.Len(t, inserted, 5)

	earliest := time.Date(2024, 4, 11, 0, 0, 0, 0, time.UTC)
	for _, o := range inserted {
		require.GreaterOrEqual(t, len(o.Items), 1)
		require.LessOrEqual(t, len(o.Items), 3)

		seen := map[uint]bool{}
		sum := decimal.Zero
		for _, it := range o.Items {
			assert.False(t, seen[it.ProductID], "products within an order are distinct")
			seen[it.ProductID] = true
			assert.GreaterOrEqual(t, it.Qty, 1)
			assert.LessOrEqual(t, it.Qty, 4)
			sum = sum.Add(it.Subtotal())
		}
		assert.True(t, o.Total.Equal(sum))
		assert.False(t, o.CreatedAt.Before(earliest))
		assert.False(t, o.CreatedAt.After(now))
		if o.UserID != nil {
			assert.Contains(t, []uint{11, 12}, *o.UserID)
		}
	}
	orders.AssertExpectations(t)
}

func TestSeedService_NoProducts(t *testing.T) {
	products := new(MockProductRepository)
	products.On("List", mock.Anything).Return([]model.Product{}, nil)
	orders := new(MockOrderRepository)

	svc := NewSeedService(products, NewUserService(new(MockUserRepository), nil), orders, nil, zerolog.Nop())
	_, err := svc.SeedOrders(context.Background(), 5)
	assert.ErrorIs(t, err, errors.ErrNoProducts)
	orders.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestClampSeedCount(t *testing.T) {
	assert.Equal(t, 1, ClampSeedCount(0))
	assert.Equal(t, 1, ClampSeedCount(-3))
	assert.Equal(t, 1, ClampSeedCount(1))
	assert.Equal(t, MaxSeedCount, ClampSeedCount(5000))
}

type seedOrderStore struct {
	MockOrderRepository
	mem *memoryOrders
}

func (s *seedOrderStore) CreateBatch(ctx context.Context, orders []model.Order) error {
	return s.mem.CreateBatch(ctx, orders)
}

func TestSeedService_ReportCountRisesBySeeded(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	mem := &memoryOrders{}
	mem.On("ItemCostBetween", mock.Anything, mock.Anything, mock.Anything).Return(decimal.Zero, nil)
	stubQuietSections(&mem.MockReportRepository)

	report := NewReportService(mem, time.UTC, zerolog.Nop()).(*reportService)
	report.now = func() time.Time { return now }
	query := ReportQuery{From: "2024-04-11", To: "2024-05-10"}
	before := report.Build(context.Background(), query).OrdersCount

	products := new(MockProductRepository)
	products.On("List", mock.Anything).Return(seedCatalog(), nil)
	users := new(MockUserRepository)
	users.On("ListByRole", mock.Anything, model.RoleCustomer).Return([]model.User{}, nil)

	seeder := NewSeedService(products, NewUserService(users, nil), &seedOrderStore{mem: mem}, rand.New(rand.NewPCG(7, 7)), zerolog.Nop()).(*seedService)
	seeder.now = func() time.Time { return now }
	_, err := seeder.SeedOrders(context.Background(), 5)
	require.NoError(t, err)

	after := report.Build(context.Background(), query).OrdersCount
	assert.Equal(t, before+5, after)
}

package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"spicedums/internal/errors"
	"spicedums/internal/model"
)

func newCartServiceUnderTest(t *testing.T) (*MockProductRepository, CartService) {
	repo := new(MockProductRepository)
	repo.On("FindByID", mock.Anything, uint(1)).Return(&model.Product{ID: 1, Name: "Sambal", Price: decimal.NewFromInt(10000)}, nil)
	repo.On("FindByID", mock.Anything, uint(2)).Return(&model.Product{ID: 2, Name: "Dimsum", Price: decimal.NewFromInt(15000)}, nil)
	repo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
	return repo, NewCartService(repo, NewImageResolver(t.TempDir()))
}

func assertTotal(t *testing.T, cart model.Cart) {
	t.Helper()
	want := decimal.Zero
	for _, it := range cart.Items {
		want = want.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	assert.True(t, cart.Total().Equal(want))
}

func TestCartService_AddTwiceMerges(t *testing.T) {
	repo, svc := newCartServiceUnderTest(t)
	ctx := context.Background()

	cart, err := svc.Add(ctx, model.Cart{}, 1, 2)
	require.NoError(t, err)
	assertTotal(t, cart)
	cart, err = svc.Add(ctx, cart, 1, 3)
	require.NoError(t, err)
	assertTotal(t, cart)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Qty)
	assert.Equal(t, PlaceholderImage, cart.Items[0].Image)
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestCartService_AddClampsQty(t *testing.T) {
	_, svc := newCartServiceUnderTest(t)
	cart, err := svc.Add(context.Background(), model.Cart{}, 2, -4)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Count())
}

func TestCartService_AddUnknownIsNoop(t *testing.T) {
	_, svc := newCartServiceUnderTest(t)
	start, err := svc.Add(context.Background(), model.Cart{}, 1, 1)
	require.NoError(t, err)

	cart, err := svc.Add(context.Background(), start, 99, 1)
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
	assert.Equal(t, start, cart)
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	_, svc := newCartServiceUnderTest(t)
	ctx := context.Background()
	cart, _ := svc.Add(ctx, model.Cart{}, 1, 1)
	cart, _ = svc.Add(ctx, cart, 2, 1)

	cart = svc.Update(cart, 2, 4)
	assertTotal(t, cart)
	assert.Equal(t, 5, cart.Count())

	unchanged := svc.Update(cart, 42, 3)
	assert.Equal(t, cart, unchanged)

	cart = svc.Update(cart, 1, 0)
	assertTotal(t, cart)
	assert.False(t, cart.Has(1))

	cart = svc.Update(cart, 2, -1)
	assert.True(t, cart.IsEmpty())

	cart, _ = svc.Add(ctx, cart, 1, 1)
	assert.Equal(t, cart, svc.Remove(cart, 42))
	assert.True(t, svc.Remove(cart, 1).IsEmpty())
	assert.True(t, svc.Clear().IsEmpty())
	assert.True(t, svc.Clear().Total().IsZero())
}

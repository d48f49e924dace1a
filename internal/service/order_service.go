package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spicedums/internal/errors"
	"spicedums/internal/events"
	"spicedums/internal/model"
	"spicedums/internal/repository"
)

// Receipt is a recorded order plus the product names needed to describe it.
type Receipt struct {
	Order        *model.Order
	ProductNames map[uint]string
}

// OrderService records checkouts and administers recorded orders.
type OrderService interface {
	// Checkout records lines as one order at live catalog prices.
	Checkout(ctx context.Context, userID *uint, lines []model.OrderLine) (*Receipt, error)
	GetOrder(ctx context.Context, id uint) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	orders    repository.OrderRepository
	publisher events.Publisher
	log       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, publisher events.Publisher, log zerolog.Logger) OrderService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &orderService{
		orders:    orders,
		publisher: publisher,
		log:       log.With().Str("component", "order").Logger(),
	}
}

// Checkout merges duplicate products, drops lines whose product no longer exists and
// writes the order with its items in a single transaction. Nothing is written when no
// line survives.
func (s *orderService) Checkout(ctx context.Context, userID *uint, lines []model.OrderLine) (*Receipt, error) {
	merged := mergeLines(lines)
	if len(merged) == 0 {
		return nil, errors.ErrEmptyOrder
	}

	var receipt *Receipt
	err := s.orders.WithTransaction(ctx, func(ctx context.Context, orders repository.OrderRepository, products repository.ProductRepository) error {
		ids := make([]uint, 0, len(merged))
		for _, l := range merged {
			ids = append(ids, l.ProductID)
		}
		catalog, err := products.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}

		order := &model.Order{UserID: userID, Total: decimal.Zero}
		names := make(map[uint]string, len(merged))
		for _, l := range merged {
			p, ok := catalog[l.ProductID]
			if !ok {
				s.log.Info().Uint("product_id", l.ProductID).Msg("dropping unknown product from checkout")
				continue
			}
			item := model.OrderItem{ProductID: p.ID, Qty: l.Qty, Price: p.Price, Cost: p.Cost}
			order.Items = append(order.Items, item)
			order.Total = order.Total.Add(item.Subtotal())
			names[p.ID] = p.Name
		}
		if len(order.Items) == 0 {
			return errors.ErrEmptyOrder
		}

		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		receipt = &Receipt{Order: order, ProductNames: names}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, receipt.Order)
	return receipt, nil
}

func (s *orderService) publish(ctx context.Context, order *model.Order) {
	ev, err := events.NewOrderRecorded(order)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		s.log.Warn().Err(err).Uint("order_id", order.ID).Msg("publish order recorded")
	}
}

func (s *orderService) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// DeleteOrder removes an order together with its items.
func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if !deleted {
		return errors.ErrOrderNotFound
	}
	return nil
}

// mergeLines sums quantities per product, keeping first-seen order. Quantities are clamped to 1.
func mergeLines(lines []model.OrderLine) []model.OrderLine {
	merged := make([]model.OrderLine, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.ProductID == 0 {
			continue
		}
		qty := max(l.Qty, 1)
		if i, ok := index[l.ProductID]; ok {
			merged[i].Qty += qty
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, model.OrderLine{ProductID: l.ProductID, Qty: qty})
	}
	return merged
}

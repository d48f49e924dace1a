package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spicedums/internal/model"
)

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateBatch(ctx context.Context, orders []model.Order) error
	FindByID(ctx context.Context, id uint) (*model.Order, error)
	Delete(ctx context.Context, id uint) (bool, error)
	// WithTransaction runs fn with order and product repositories bound to one transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, orders OrderRepository, products ProductRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and then every item row, all or nothing.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createOrder(tx, order)
	})
}

// CreateBatch inserts several orders with their items in a single transaction.
func (r *orderRepository) CreateBatch(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			if err := createOrder(tx, &orders[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func createOrder(tx *gorm.DB, order *model.Order) error {
	if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return tx.Create(&order.Items).Error
}

// FindByID finds an order by ID together with its items.
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order and its items.
func (r *orderRepository) Delete(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Order{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

// WithTransaction executes a function within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, orders OrderRepository, products ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &txOrderRepository{orderRepository{db: tx}}, &productRepository{db: tx})
	})
}

// txOrderRepository writes directly on an open transaction instead of nesting a new one.
type txOrderRepository struct {
	orderRepository
}

func (r *txOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return createOrder(r.db.WithContext(ctx), order)
}

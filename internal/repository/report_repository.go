package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spicedums/internal/model"
)

// ReportRepository reads the raw figures behind the sales report.
// Every range is half-open: from <= created_at < to.
type ReportRepository interface {
	OrdersBetween(ctx context.Context, from, to time.Time) ([]model.OrderSnapshot, error)
	ItemCostBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	SalesSummary(ctx context.Context, from, to time.Time) (model.SalesWindow, error)
	SalesByUser(ctx context.Context, from, to time.Time) ([]model.UserSalesRow, error)
	SalesByProduct(ctx context.Context, from, to time.Time) ([]model.ProductSalesRow, error)
	// ReviewSummary covers all reviews when since is zero.
	ReviewSummary(ctx context.Context, since time.Time) (model.ReviewStats, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) OrdersBetween(ctx context.Context, from, to time.Time) ([]model.OrderSnapshot, error) {
	var rows []model.OrderSnapshot
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("id, total, created_at").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").
		Scan(&rows).Error
	return rows, err
}

// ItemCostBetween sums the cost snapshot of every item sold in the range.
func (r *reportRepository) ItemCostBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := r.db.WithContext(ctx).Table("order_items AS oi").
		Select("COALESCE(SUM(oi.cost * oi.qty), 0)").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Row().Scan(&cost)
	return cost, err
}

func (r *reportRepository) SalesSummary(ctx context.Context, from, to time.Time) (model.SalesWindow, error) {
	var out model.SalesWindow
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0), COUNT(*)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Row().Scan(&out.Revenue, &out.Count)
	return out, err
}

// SalesByUser groups orders by buyer. Guest orders come back with a nil user and username.
func (r *reportRepository) SalesByUser(ctx context.Context, from, to time.Time) ([]model.UserSalesRow, error) {
	var rows []model.UserSalesRow
	err := r.db.WithContext(ctx).Table("orders AS o").
		Select("o.user_id AS user_id, u.username AS username, COALESCE(SUM(o.total), 0) AS revenue, COUNT(*) AS orders").
		Joins("LEFT JOIN users u ON u.id = o.user_id").
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Group("o.user_id, u.username").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}

// SalesByProduct groups order items by product. Items of deleted products keep counting with a nil name.
func (r *reportRepository) SalesByProduct(ctx context.Context, from, to time.Time) ([]model.ProductSalesRow, error) {
	var rows []model.ProductSalesRow
	err := r.db.WithContext(ctx).Table("order_items AS oi").
		Select("oi.product_id AS product_id, p.name AS name, COALESCE(SUM(oi.qty), 0) AS qty, COALESCE(SUM(oi.price * oi.qty), 0) AS revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("LEFT JOIN products p ON p.id = oi.product_id").
		Where("o.created_at >= ? AND o.created_at < ?", from, to).
		Group("oi.product_id, p.name").
		Order("revenue DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) ReviewSummary(ctx context.Context, since time.Time) (model.ReviewStats, error) {
	var out model.ReviewStats
	q := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(*), COALESCE(AVG(rating), 0)")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Row().Scan(&out.Count, &out.Average)
	return out, err
}

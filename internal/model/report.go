package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period selects trend granularity. Only PeriodYear changes bucketing (monthly).
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod returns the matching period, defaulting to week.
func ParsePeriod(s string) Period {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p
	default:
		return PeriodWeek
	}
}

// Placeholder labels for rows whose related record is gone.
const (
	GuestLabel          = "Guest"
	MissingProductLabel = "Produk"
)

// OrderSnapshot is the slice of an order the aggregator needs.
type OrderSnapshot struct {
	ID        uint            `json:"id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// UserSalesRow is a per-user rollup as read from the store. Username is nil for guests.
type UserSalesRow struct {
	UserID   *uint
	Username *string
	Revenue  decimal.Decimal
	Orders   int64
}

// ProductSalesRow is a per-product rollup as read from the store. Name is nil for deleted products.
type ProductSalesRow struct {
	ProductID uint
	Name      *string
	Qty       int64
	Revenue   decimal.Decimal
}

// SalesWindow is revenue and order count over a fixed window.
type SalesWindow struct {
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// ReviewStats is a review count and average rating.
type ReviewStats struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// Bucket is one trend slice keyed by day (2006-01-02) or month (2006-01).
type Bucket struct {
	Key     string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// UserSales is a salesByUser entry.
type UserSales struct {
	UserID   *uint           `json:"user_id"`
	Username string          `json:"username"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int64           `json:"orders"`
}

// ProductSales is a salesByProduct entry.
type ProductSales struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Qty       int64           `json:"qty"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Report is the full admin sales report.
type Report struct {
	Period string `json:"period"`
	From   string `json:"from"`
	To     string `json:"to"`

	Revenue     decimal.Decimal `json:"revenue"`
	OrdersCount int64           `json:"ordersCount"`
	AOV         decimal.Decimal `json:"aov"`
	Cost        decimal.Decimal `json:"cost"`
	Profit      decimal.Decimal `json:"profit"`

	Today     SalesWindow `json:"today"`
	Last7Days SalesWindow `json:"last7Days"`
	ThisMonth SalesWindow `json:"thisMonth"`

	Trend []Bucket `json:"trend"`
	Daily []Bucket `json:"daily"`

	SalesByUser    []UserSales    `json:"salesByUser"`
	SalesByProduct []ProductSales `json:"salesByProduct"`

	Reviews       ReviewStats `json:"reviews"`
	RecentReviews ReviewStats `json:"recentReviews"`
}

// EmptyReport returns a zeroed report with non-nil slices.
func EmptyReport() Report {
	return Report{
		Period:         string(PeriodWeek),
		Revenue:        decimal.Zero,
		AOV:            decimal.Zero,
		Cost:           decimal.Zero,
		Profit:         decimal.Zero,
		Today:          SalesWindow{Revenue: decimal.Zero},
		Last7Days:      SalesWindow{Revenue: decimal.Zero},
		ThisMonth:      SalesWindow{Revenue: decimal.Zero},
		Trend:          []Bucket{},
		Daily:          []Bucket{},
		SalesByUser:    []UserSales{},
		SalesByProduct: []ProductSales{},
	}
}

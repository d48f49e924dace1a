package service

import (
	"context"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spicedums/internal/model"
	"spicedums/internal/repository"
)

const dateLayout = "2006-01-02"

// ReportQuery is the raw report filter as received from the client.
type ReportQuery struct {
	Period string
	From   string
	To     string
}

// ReportService builds the admin sales report.
type ReportService interface {
	// Build never fails: each section that cannot be read is left at zero.
	Build(ctx context.Context, q ReportQuery) model.Report
}

type reportService struct {
	repo repository.ReportRepository
	loc  *time.Location
	now  func() time.Time
	log  zerolog.Logger
}

// NewReportService creates a report service bucketing days in loc.
func NewReportService(repo repository.ReportRepository, loc *time.Location, log zerolog.Logger) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		repo: repo,
		loc:  loc,
		now:  time.Now,
		log:  log.With().Str("component", "report").Logger(),
	}
}

func (s *reportService) Build(ctx context.Context, q ReportQuery) model.Report {
	report := model.EmptyReport()
	period := model.ParsePeriod(q.Period)
	report.Period = string(period)

	today := startOfDay(s.now().In(s.loc))
	from, to := s.dateRange(q.From, q.To, today)
	report.From = from.Format(dateLayout)
	report.To = to.Format(dateLayout)
	end := to.AddDate(0, 0, 1)

	if orders, err := s.repo.OrdersBetween(ctx, from, end); err != nil {
		s.warn(err, "orders")
	} else {
		for _, o := range orders {
			report.Revenue = report.Revenue.Add(o.Total)
		}
		report.OrdersCount = int64(len(orders))
		report.Trend = s.buckets(orders, period)
		report.Daily = reversed(report.Trend)
	}
	if report.OrdersCount > 0 {
		report.AOV = report.Revenue.DivRound(decimal.NewFromInt(report.OrdersCount), 2)
	}

	if cost, err := s.repo.ItemCostBetween(ctx, from, end); err != nil {
		s.warn(err, "cost")
	} else {
		report.Cost = cost
	}
	report.Profit = report.Revenue.Sub(report.Cost)

	tomorrow := today.AddDate(0, 0, 1)
	report.Today = s.window(ctx, "today", today, tomorrow)
	report.Last7Days = s.window(ctx, "last7Days", today.AddDate(0, 0, -6), tomorrow)
	report.ThisMonth = s.window(ctx, "thisMonth", time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc), tomorrow)

	if rows, err := s.repo.SalesByUser(ctx, from, end); err != nil {
		s.warn(err, "salesByUser")
	} else {
		report.SalesByUser = userSales(rows)
	}
	if rows, err := s.repo.SalesByProduct(ctx, from, end); err != nil {
		s.warn(err, "salesByProduct")
	} else {
		report.SalesByProduct = productSales(rows)
	}

	report.Reviews = s.reviews(ctx, time.Time{})
	report.RecentReviews = s.reviews(ctx, today.AddDate(0, 0, -6))
	return report
}

// dateRange uses from/to when both parse, swapping them if reversed; otherwise the last 7 days.
func (s *reportService) dateRange(rawFrom, rawTo string, today time.Time) (time.Time, time.Time) {
	from, errFrom := time.ParseInLocation(dateLayout, rawFrom, s.loc)
	to, errTo := time.ParseInLocation(dateLayout, rawTo, s.loc)
	if errFrom != nil || errTo != nil {
		return today.AddDate(0, 0, -6), today
	}
	if from.After(to) {
		from, to = to, from
	}
	return from, to
}

func (s *reportService) buckets(orders []model.OrderSnapshot, period model.Period) []model.Bucket {
	layout := dateLayout
	if period == model.PeriodYear {
		layout = "2006-01"
	}

	byKey := make(map[string]*model.Bucket)
	for _, o := range orders {
		key := o.CreatedAt.In(s.loc).Format(layout)
		b, ok := byKey[key]
		if !ok {
			b = &model.Bucket{Key: key, Revenue: decimal.Zero}
			byKey[key] = b
		}
		b.Revenue = b.Revenue.Add(o.Total)
		b.Count++
	}

	out := make([]model.Bucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	// both layouts sort lexically in time order
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func (s *reportService) window(ctx context.Context, name string, from, to time.Time) model.SalesWindow {
	w, err := s.repo.SalesSummary(ctx, from, to)
	if err != nil {
		s.warn(err, name)
		return model.SalesWindow{Revenue: decimal.Zero}
	}
	return w
}

func (s *reportService) reviews(ctx context.Context, since time.Time) model.ReviewStats {
	stats, err := s.repo.ReviewSummary(ctx, since)
	if err != nil {
		s.warn(err, "reviews")
		return model.ReviewStats{}
	}
	stats.Average = math.Round(stats.Average*100) / 100
	return stats
}

func (s *reportService) warn(err error, section string) {
	s.log.Warn().Err(err).Str("section", section).Msg("report section unavailable")
}

func userSales(rows []model.UserSalesRow) []model.UserSales {
	out := make([]model.UserSales, 0, len(rows))
	for _, r := range rows {
		name := model.GuestLabel
		if r.Username != nil && *r.Username != "" {
			name = *r.Username
		}
		out = append(out, model.UserSales{UserID: r.UserID, Username: name, Revenue: r.Revenue, Orders: r.Orders})
	}
	slices.SortStableFunc(out, func(a, b model.UserSales) int { return b.Revenue.Cmp(a.Revenue) })
	return out
}

func productSales(rows []model.ProductSalesRow) []model.ProductSales {
	out := make([]model.ProductSales, 0, len(rows))
	for _, r := range rows {
		name := model.MissingProductLabel
		if r.Name != nil && *r.Name != "" {
			name = *r.Name
		}
		out = append(out, model.ProductSales{ProductID: r.ProductID, Name: name, Qty: r.Qty, Revenue: r.Revenue})
	}
	slices.SortStableFunc(out, func(a, b model.ProductSales) int { return b.Revenue.Cmp(a.Revenue) })
	return out
}

func reversed(in []model.Bucket) []model.Bucket {
	out := slices.Clone(in)
	slices.Reverse(out)
	if out == nil {
		out = []model.Bucket{}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

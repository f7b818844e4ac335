// Package stats computes the vendor dashboard metrics: a point-in-time
// snapshot of sales, pending orders, new customers and fulfillment time,
// each paired with a percent change versus the prior comparable period.
package stats

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/mauroere/cafia/internal/orders"
)

// Filter narrows an aggregate query. Zero time bounds mean unbounded and an
// empty status set means all statuses.
type Filter struct {
	BusinessID string
	Statuses   []orders.OrderStatus
	From       time.Time
	To         time.Time
}

// ProductTotal is one row of the top-products grouping.
type ProductTotal struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	TotalQuantity int    `json:"total_quantity"`
}

// OrderStore is the read-side port the aggregator runs on. The Postgres
// implementation lives in postgres.go; tests use an in-memory fake.
type OrderStore interface {
	SumAmount(ctx context.Context, f Filter) (float64, error)
	CountOrders(ctx context.Context, f Filter) (int, error)
	CountDistinctCustomers(ctx context.Context, f Filter) (int, error)
	AvgFulfillment(ctx context.Context, f Filter) (time.Duration, error)
	ProductTotals(ctx context.Context, businessID string) ([]ProductTotal, error)
}

// Metric pairs a value with its percent change versus the prior period.
// PercentChange is 0 when the prior value is 0.
type Metric struct {
	Value         float64 `json:"value"`
	PercentChange float64 `json:"percent_change"`
}

type VendorStats struct {
	Sales                 Metric `json:"sales"`
	PendingOrders         Metric `json:"pending_orders"`
	NewCustomers          Metric `json:"new_customers"`
	AvgFulfillmentMinutes Metric `json:"avg_fulfillment_minutes"`
}

type Service struct {
	store OrderStore
	now   func() time.Time
}

func NewService(store OrderStore) *Service {
	return &Service{store: store, now: time.Now}
}

// terminalSuccess are the statuses that count as realized sales.
var terminalSuccess = []orders.OrderStatus{orders.StatusDelivered, orders.StatusPickedUp}

// VendorStats computes the dashboard snapshot for one business. "Today"
// runs from local midnight to now, "yesterday" is the prior full day.
func (s *Service) VendorStats(ctx context.Context, businessID string) (*VendorStats, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	today := Filter{BusinessID: businessID, From: todayStart}
	yesterday := Filter{BusinessID: businessID, From: yesterdayStart, To: todayStart}

	salesToday := today
	salesToday.Statuses = terminalSuccess
	salesYesterday := yesterday
	salesYesterday.Statuses = terminalSuccess

	todaySales, err := s.store.SumAmount(ctx, salesToday)
	if err != nil {
		return nil, err
	}
	yesterdaySales, err := s.store.SumAmount(ctx, salesYesterday)
	if err != nil {
		return nil, err
	}

	// Pending is a current count, not a windowed one; the baseline is the
	// count of orders that were created yesterday and are still pending.
	pendingToday, err := s.store.CountOrders(ctx, Filter{
		BusinessID: businessID,
		Statuses:   []orders.OrderStatus{orders.StatusPending},
	})
	if err != nil {
		return nil, err
	}
	pendingFilter := yesterday
	pendingFilter.Statuses = []orders.OrderStatus{orders.StatusPending}
	pendingYesterday, err := s.store.CountOrders(ctx, pendingFilter)
	if err != nil {
		return nil, err
	}

	customersToday, err := s.store.CountDistinctCustomers(ctx, today)
	if err != nil {
		return nil, err
	}
	customersYesterday, err := s.store.CountDistinctCustomers(ctx, yesterday)
	if err != nil {
		return nil, err
	}

	fulfillToday, err := s.store.AvgFulfillment(ctx, salesToday)
	if err != nil {
		return nil, err
	}
	fulfillYesterday, err := s.store.AvgFulfillment(ctx, salesYesterday)
	if err != nil {
		return nil, err
	}

	return &VendorStats{
		Sales: Metric{
			Value:         todaySales,
			PercentChange: percentChange(todaySales, yesterdaySales),
		},
		PendingOrders: Metric{
			Value:         float64(pendingToday),
			PercentChange: percentChange(float64(pendingToday), float64(pendingYesterday)),
		},
		NewCustomers: Metric{
			Value:         float64(customersToday),
			PercentChange: percentChange(float64(customersToday), float64(customersYesterday)),
		},
		AvgFulfillmentMinutes: Metric{
			Value:         math.Round(fulfillToday.Minutes()),
			PercentChange: percentChange(fulfillToday.Minutes(), fulfillYesterday.Minutes()),
		},
	}, nil
}

// TopProducts returns the best-selling products of a business by total
// ordered quantity. Ties break on product id ascending so the result is
// stable across stores.
func (s *Service) TopProducts(ctx context.Context, businessID string, limit int) ([]ProductTotal, error) {
	if limit <= 0 {
		limit = 5
	}
	totals, err := s.store.ProductTotals(ctx, businessID)
	if err != nil {
		return nil, err
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].TotalQuantity != totals[j].TotalQuantity {
			return totals[i].TotalQuantity > totals[j].TotalQuantity
		}
		return totals[i].ProductID < totals[j].ProductID
	})
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

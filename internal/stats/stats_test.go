package stats

import (
	"context"
	"testing"
	"time"

	"github.com/mauroere/cafia/internal/orders"
)

type fakeOrder struct {
	businessID string
	customerID string
	status     orders.OrderStatus
	amount     float64
	createdAt  time.Time
	updatedAt  time.Time
}

// fakeStore implements OrderStore in memory with the same Filter semantics
// as the Postgres store.
type fakeStore struct {
	orders []fakeOrder
	totals []ProductTotal
}

func (f *fakeStore) matches(o fakeOrder, flt Filter) bool {
	if o.businessID != flt.BusinessID {
		return false
	}
	if len(flt.Statuses) > 0 {
		found := false
		for _, s := range flt.Statuses {
			if o.status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !flt.From.IsZero() && o.createdAt.Before(flt.From) {
		return false
	}
	if !flt.To.IsZero() && !o.createdAt.Before(flt.To) {
		return false
	}
	return true
}

func (f *fakeStore) SumAmount(_ context.Context, flt Filter) (float64, error) {
	var sum float64
	for _, o := range f.orders {
		if f.matches(o, flt) {
			sum += o.amount
		}
	}
	return sum, nil
}

func (f *fakeStore) CountOrders(_ context.Context, flt Filter) (int, error) {
	count := 0
	for _, o := range f.orders {
		if f.matches(o, flt) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CountDistinctCustomers(_ context.Context, flt Filter) (int, error) {
	seen := make(map[string]bool)
	for _, o := range f.orders {
		if f.matches(o, flt) {
			seen[o.customerID] = true
		}
	}
	return len(seen), nil
}

func (f *fakeStore) AvgFulfillment(_ context.Context, flt Filter) (time.Duration, error) {
	var total time.Duration
	count := 0
	for _, o := range f.orders {
		if f.matches(o, flt) {
			total += o.updatedAt.Sub(o.createdAt)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return total / time.Duration(count), nil
}

func (f *fakeStore) ProductTotals(_ context.Context, businessID string) ([]ProductTotal, error) {
	return f.totals, nil
}

func newTestService(store *fakeStore, now time.Time) *Service {
	svc := NewService(store)
	svc.now = func() time.Time { return now }
	return svc
}

func TestVendorStats_NoOrders(t *testing.T) {
	svc := newTestService(&fakeStore{}, time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC))

	got, err := svc.VendorStats(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, m := range map[string]Metric{
		"sales":           got.Sales,
		"pending_orders":  got.PendingOrders,
		"new_customers":   got.NewCustomers,
		"avg_fulfillment": got.AvgFulfillmentMinutes,
	} {
		if m.Value != 0 || m.PercentChange != 0 {
			t.Errorf("%s = %+v, want zero value and zero change", name, m)
		}
	}
}

func TestVendorStats_Sales(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

	store := &fakeStore{orders: []fakeOrder{
		{businessID: "biz-1", customerID: "c1", status: orders.StatusDelivered, amount: 50, createdAt: today, updatedAt: today.Add(30 * time.Minute)},
		{businessID: "biz-1", customerID: "c2", status: orders.StatusDelivered, amount: 30, createdAt: today, updatedAt: today.Add(50 * time.Minute)},
		{businessID: "biz-1", customerID: "c3", status: orders.StatusDelivered, amount: 40, createdAt: yesterday, updatedAt: yesterday.Add(20 * time.Minute)},
		// In progress today, must not count as a sale.
		{businessID: "biz-1", customerID: "c4", status: orders.StatusPreparing, amount: 100, createdAt: today, updatedAt: today},
		// Another business entirely.
		{businessID: "biz-2", customerID: "c5", status: orders.StatusDelivered, amount: 999, createdAt: today, updatedAt: today},
	}}
	svc := newTestService(store, now)

	got, err := svc.VendorStats(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Sales.Value != 80 {
		t.Errorf("sales value = %v, want 80", got.Sales.Value)
	}
	if got.Sales.PercentChange != 100 {
		t.Errorf("sales change = %v, want 100", got.Sales.PercentChange)
	}
	// (30m + 50m) / 2 = 40 minutes for today's delivered orders.
	if got.AvgFulfillmentMinutes.Value != 40 {
		t.Errorf("avg fulfillment = %v, want 40", got.AvgFulfillmentMinutes.Value)
	}
	if got.AvgFulfillmentMinutes.PercentChange != 100 {
		t.Errorf("avg fulfillment change = %v, want 100", got.AvgFulfillmentMinutes.PercentChange)
	}
}

func TestVendorStats_PendingAndCustomers(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)

	store := &fakeStore{orders: []fakeOrder{
		// Pending counts regardless of age.
		{businessID: "biz-1", customerID: "c1", status: orders.StatusPending, amount: 10, createdAt: today, updatedAt: today},
		{businessID: "biz-1", customerID: "c1", status: orders.StatusPending, amount: 15, createdAt: lastWeek, updatedAt: lastWeek},
		{businessID: "biz-1", customerID: "c2", status: orders.StatusPending, amount: 20, createdAt: yesterday, updatedAt: yesterday},
		// Distinct customers today: c1 and c3.
		{businessID: "biz-1", customerID: "c3", status: orders.StatusConfirmed, amount: 30, createdAt: today, updatedAt: today},
	}}
	svc := newTestService(store, now)

	got, err := svc.VendorStats(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.PendingOrders.Value != 3 {
		t.Errorf("pending orders = %v, want 3", got.PendingOrders.Value)
	}
	// 3 pending now vs 1 created yesterday: +200%.
	if got.PendingOrders.PercentChange != 200 {
		t.Errorf("pending change = %v, want 200", got.PendingOrders.PercentChange)
	}
	if got.NewCustomers.Value != 2 {
		t.Errorf("new customers = %v, want 2", got.NewCustomers.Value)
	}
	if got.NewCustomers.PercentChange != 100 {
		t.Errorf("new customers change = %v, want 100", got.NewCustomers.PercentChange)
	}
}

func TestTopProducts_TieBreak(t *testing.T) {
	store := &fakeStore{totals: []ProductTotal{
		{ProductID: "prod-a", ProductName: "Alfajor", TotalQuantity: 5},
		{ProductID: "prod-d", ProductName: "Donas", TotalQuantity: 9},
		{ProductID: "prod-c", ProductName: "Cafe", TotalQuantity: 2},
		{ProductID: "prod-b", ProductName: "Brownie", TotalQuantity: 9},
	}}
	svc := newTestService(store, time.Now())

	got, err := svc.TopProducts(context.Background(), "biz-1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"prod-b", "prod-d", "prod-a"}
	if len(got) != len(want) {
		t.Fatalf("got %d products, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ProductID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].ProductID, id)
		}
	}
}

func TestTopProducts_DefaultLimit(t *testing.T) {
	store := &fakeStore{totals: []ProductTotal{
		{ProductID: "p1", TotalQuantity: 1},
		{ProductID: "p2", TotalQuantity: 2},
		{ProductID: "p3", TotalQuantity: 3},
		{ProductID: "p4", TotalQuantity: 4},
		{ProductID: "p5", TotalQuantity: 5},
		{ProductID: "p6", TotalQuantity: 6},
	}}
	svc := newTestService(store, time.Now())

	got, err := svc.TopProducts(context.Background(), "biz-1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d products, want default limit 5", len(got))
	}
	if got[0].ProductID != "p6" {
		t.Errorf("top product = %s, want p6", got[0].ProductID)
	}
}

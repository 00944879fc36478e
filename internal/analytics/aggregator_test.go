package analytics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
)

// memSource answers the aggregator's queries from in-memory orders with the
// same filter semantics as the SQL source.
type memSource struct {
	orders      []order.Order
	menus       map[string]int
	subscribers map[string][]int
	staff       map[string]int
	err         error
}

func newMemSource() *memSource {
	return &memSource{
		menus:       map[string]int{},
		subscribers: map[string][]int{},
		staff:       map[string]int{},
	}
}

func (m *memSource) add(o order.Order) {
	if o.Status == "" {
		o.Status = order.StatusPending
	}
	if o.TotalAmount.IsZero() {
		o.TotalAmount = order.SumItems(o.Items)
	}
	m.orders = append(m.orders, o)
}

func (m *memSource) match(f OrderFilter) []order.Order {
	var out []order.Order
	for _, o := range m.orders {
		if o.VendorID != f.VendorID {
			continue
		}
		if !f.CreatedFrom.IsZero() && o.CreatedAt.Before(f.CreatedFrom) {
			continue
		}
		if !f.CreatedBefore.IsZero() && !o.CreatedAt.Before(f.CreatedBefore) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (m *memSource) CountOrders(_ context.Context, f OrderFilter) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.match(f)), nil
}

func (m *memSource) SumOrderTotals(_ context.Context, f OrderFilter) (decimal.Decimal, error) {
	if m.err != nil {
		return decimal.Zero, m.err
	}
	total := decimal.Zero
	for _, o := range m.match(f) {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

func (m *memSource) CountDistinctCustomers(_ context.Context, vendorID string) (int, error) {
	seen := map[string]bool{}
	for _, o := range m.match(OrderFilter{VendorID: vendorID}) {
		if o.CustomerEmail != nil {
			seen[*o.CustomerEmail] = true
		}
	}
	return len(seen), nil
}

func (m *memSource) CountMenus(_ context.Context, vendorID string) (int, error) {
	return m.menus[vendorID], nil
}

func (m *memSource) SumSubscribers(_ context.Context, vendorID string) (int, error) {
	n := 0
	for _, c := range m.subscribers[vendorID] {
		n += c
	}
	return n, nil
}

func (m *memSource) CountDeliveryStaff(_ context.Context, vendorID string) (int, error) {
	return m.staff[vendorID], nil
}

func (m *memSource) OrderPoints(_ context.Context, vendorID string, from, to time.Time) ([]OrderPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []OrderPoint
	for _, o := range m.match(OrderFilter{VendorID: vendorID}) {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		out = append(out, OrderPoint{CreatedAt: o.CreatedAt, TotalAmount: o.TotalAmount})
	}
	return out, nil
}

func (m *memSource) LineItems(_ context.Context, vendorID string) ([]LineItemFact, error) {
	if m.err != nil {
		return nil, m.err
	}
	orders := m.match(OrderFilter{VendorID: vendorID})
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	var out []LineItemFact
	for _, o := range orders {
		for _, it := range o.Items {
			out = append(out, LineItemFact{
				OrderID:   o.ID,
				Name:      it.Name,
				Price:     it.Price,
				Quantity:  it.Quantity,
				OrderedAt: o.CreatedAt,
			})
		}
	}
	return out, nil
}

const vendorID = "vendor-1"

var now = time.Date(2024, 9, 28, 15, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func email(s string) *string { return &s }

func newTestAggregator(src Source) *Aggregator {
	return New(src, clock.NewFake(now), time.UTC)
}

func TestSummary_NoData(t *testing.T) {
	got, err := newTestAggregator(newMemSource()).Summary(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, ZeroSummary(), got)
}

func TestSummary_ScenarioA(t *testing.T) {
	src := newMemSource()
	for i, amount := range []string{"120.00", "80.00", "100.00"} {
		src.add(order.Order{
			ID:          fmt.Sprintf("o%d", i),
			VendorID:    vendorID,
			TotalAmount: dec(amount),
			Status:      order.StatusDelivered,
			CreatedAt:   now.Add(-time.Duration(i+1) * time.Hour),
		})
	}

	got, err := newTestAggregator(src).Summary(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, 3, got.TodayOrders)
	assert.Equal(t, 300.00, got.TodayRevenue)
	assert.Equal(t, 300.00, got.TotalRevenue)
	assert.Equal(t, 3, got.CompletedOrders)
	assert.Equal(t, 0, got.PendingOrders)
}

func TestSummary_Counters(t *testing.T) {
	src := newMemSource()
	yesterday := now.Add(-24 * time.Hour)
	src.add(order.Order{ID: "a", VendorID: vendorID, TotalAmount: dec("50.10"), Status: order.StatusPending, CreatedAt: yesterday, CustomerEmail: email("a@x.in")})
	src.add(order.Order{ID: "b", VendorID: vendorID, TotalAmount: dec("20.25"), Status: order.StatusOutForDelivery, CreatedAt: now, CustomerEmail: email("a@x.in")})
	src.add(order.Order{ID: "c", VendorID: vendorID, TotalAmount: dec("9.65"), Status: order.StatusCancelled, CreatedAt: now, CustomerEmail: email("b@x.in")})
	src.add(order.Order{ID: "d", VendorID: vendorID, TotalAmount: dec("5"), Status: order.StatusDelivered, CreatedAt: now})
	src.add(order.Order{ID: "other", VendorID: "vendor-2", TotalAmount: dec("999"), Status: order.StatusPending, CreatedAt: now})
	src.menus[vendorID] = 4
	src.subscribers[vendorID] = []int{10, 0, 5}
	src.staff[vendorID] = 2

	got, err := newTestAggregator(src).Summary(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, Summary{
		TotalOrders:         4,
		TotalRevenue:        85.00,
		TotalMenuItems:      4,
		TotalCustomers:      2,
		ActiveSubscriptions: 15,
		DeliveryStaff:       2,
		TodayRevenue:        34.90,
		TodayOrders:         3,
		PendingOrders:       2,
		CompletedOrders:     1,
	}, got)
}

func TestSummary_TodayWindowIsLocalMidnight(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	src := newMemSource()
	// 2024-09-28 00:30 IST, still the 27th in UTC
	src.add(order.Order{ID: "early", VendorID: vendorID, TotalAmount: dec("40"), CreatedAt: time.Date(2024, 9, 27, 19, 0, 0, 0, time.UTC)})
	// 2024-09-27 23:59 IST
	src.add(order.Order{ID: "late", VendorID: vendorID, TotalAmount: dec("60"), CreatedAt: time.Date(2024, 9, 27, 18, 29, 0, 0, time.UTC)})

	agg := New(src, clock.NewFake(time.Date(2024, 9, 27, 20, 0, 0, 0, time.UTC)), ist)
	got, err := agg.Summary(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TodayOrders)
	assert.Equal(t, 40.0, got.TodayRevenue)
}

func TestSummary_Idempotent(t *testing.T) {
	src := newMemSource()
	src.add(order.Order{ID: "a", VendorID: vendorID, TotalAmount: dec("12.345"), CreatedAt: now})
	agg := newTestAggregator(src)

	first, err := agg.Summary(context.Background(), vendorID)
	require.NoError(t, err)
	second, err := agg.Summary(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummary_StoreUnavailable(t *testing.T) {
	src := newMemSource()
	src.err = fmt.Errorf("%w: dial tcp 10.0.0.5:5432: connect: connection refused", apperr.ErrStoreUnavailable)

	_, err := newTestAggregator(src).Summary(context.Background(), vendorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStoreUnavailable))
}

func TestTrends_NoData(t *testing.T) {
	agg := newTestAggregator(newMemSource())

	revenue, err := agg.RevenueTrend(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, revenue, TrendDays)
	for _, p := range revenue {
		assert.Zero(t, p.Revenue)
	}

	counts, err := agg.OrderTrend(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, counts, TrendDays)
	for _, p := range counts {
		assert.Zero(t, p.Orders)
	}
}

func TestTrends_ScenarioC_Dates(t *testing.T) {
	want := []string{"2024-09-22", "2024-09-23", "2024-09-24", "2024-09-25", "2024-09-26", "2024-09-27", "2024-09-28"}
	agg := newTestAggregator(newMemSource())

	revenue, err := agg.RevenueTrend(context.Background(), vendorID)
	require.NoError(t, err)
	counts, err := agg.OrderTrend(context.Background(), vendorID)
	require.NoError(t, err)

	for i, day := range want {
		assert.Equal(t, day, revenue[i].Date)
		assert.Equal(t, day, counts[i].Date)
	}
}

func TestTrends_Bucketing(t *testing.T) {
	src := newMemSource()
	at := func(day, h, m int) time.Time { return time.Date(2024, 9, day, h, m, 0, 0, time.UTC) }

	src.add(order.Order{ID: "1", VendorID: vendorID, TotalAmount: dec("10.10"), CreatedAt: at(28, 9, 0)})
	src.add(order.Order{ID: "2", VendorID: vendorID, TotalAmount: dec("5.205"), CreatedAt: at(28, 23, 30)})
	src.add(order.Order{ID: "3", VendorID: vendorID, TotalAmount: dec("7"), CreatedAt: at(25, 12, 0)})
	// before the start of the window (2024-09-22 23:59:59.999999)
	src.add(order.Order{ID: "4", VendorID: vendorID, TotalAmount: dec("100"), CreatedAt: at(22, 12, 0)})
	src.add(order.Order{ID: "5", VendorID: vendorID, TotalAmount: dec("3"), CreatedAt: time.Date(2024, 9, 22, 23, 59, 59, 999999000, time.UTC)})
	// after the end
	src.add(order.Order{ID: "6", VendorID: vendorID, TotalAmount: dec("1000"), CreatedAt: at(29, 0, 0)})

	agg := newTestAggregator(src)

	revenue, err := agg.RevenueTrend(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, []RevenuePoint{
		{Date: "2024-09-22", Revenue: 3},
		{Date: "2024-09-23", Revenue: 0},
		{Date: "2024-09-24", Revenue: 0},
		{Date: "2024-09-25", Revenue: 7},
		{Date: "2024-09-26", Revenue: 0},
		{Date: "2024-09-27", Revenue: 0},
		{Date: "2024-09-28", Revenue: 15.31},
	}, revenue)

	counts, err := agg.OrderTrend(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, []OrderCountPoint{
		{Date: "2024-09-22", Orders: 1},
		{Date: "2024-09-23", Orders: 0},
		{Date: "2024-09-24", Orders: 0},
		{Date: "2024-09-25", Orders: 1},
		{Date: "2024-09-26", Orders: 0},
		{Date: "2024-09-27", Orders: 0},
		{Date: "2024-09-28", Orders: 2},
	}, counts)
}

func TestPopularDishes_NoData(t *testing.T) {
	src := newMemSource()
	src.add(order.Order{ID: "empty", VendorID: vendorID, TotalAmount: dec("1"), CreatedAt: now})

	got, err := newTestAggregator(src).PopularDishes(context.Background(), vendorID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPopularDishes_ScenarioB(t *testing.T) {
	src := newMemSource()
	src.add(order.Order{ID: "1", VendorID: vendorID, CreatedAt: now, Items: []order.LineItem{
		{Name: "Dal Rice", Price: dec("80"), Quantity: 2},
		{Name: "Lassi", Price: dec("30"), Quantity: 1},
	}})

	got, err := newTestAggregator(src).PopularDishes(context.Background(), vendorID)
	require.NoError(t, err)
	assert.Equal(t, []Dish{
		{ID: "1", Name: "Dal Rice", Orders: 2, Revenue: 160.00, Price: 80},
		{ID: "2", Name: "Lassi", Orders: 1, Revenue: 30.00, Price: 30},
	}, got)
}

func TestPopularDishes_RankingAndPrice(t *testing.T) {
	src := newMemSource()
	src.add(order.Order{ID: "old", VendorID: vendorID, CreatedAt: now.Add(-48 * time.Hour), Items: []order.LineItem{
		{Name: "Paneer Tikka", Price: dec("250"), Quantity: 1},
		{Name: "Naan", Price: dec("45"), Quantity: 6},
		{Name: "Biryani", Price: dec("280"), Quantity: 2},
	}})
	src.add(order.Order{ID: "new", VendorID: vendorID, CreatedAt: now, Items: []order.LineItem{
		{Name: "Paneer Tikka", Price: dec("270"), Quantity: 1},
		{Name: "Dal Makhani", Price: dec("180"), Quantity: 2},
		{Name: "Butter Chicken", Price: dec("320"), Quantity: 1},
		{Name: "Kulfi", Price: dec("60.333"), Quantity: 1},
	}})

	got, err := newTestAggregator(src).PopularDishes(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, got, PopularDishesN)

	assert.Equal(t, Dish{ID: "1", Name: "Naan", Orders: 6, Revenue: 270, Price: 45}, got[0])
	// three dishes tie on 2 units and are ordered by name
	assert.Equal(t, "Biryani", got[1].Name)
	assert.Equal(t, "Dal Makhani", got[2].Name)
	assert.Equal(t, Dish{ID: "4", Name: "Paneer Tikka", Orders: 2, Revenue: 520, Price: 270}, got[3])
	assert.Equal(t, Dish{ID: "5", Name: "Butter Chicken", Orders: 1, Revenue: 320, Price: 320}, got[4])
}

func TestMoneyRounding(t *testing.T) {
	assert.Equal(t, 0.13, money(dec("0.125")))
	assert.Equal(t, 100.0, money(dec("33.333").Add(dec("33.333")).Add(dec("33.334"))))
	assert.Equal(t, 15.31, money(dec("15.305")))
	assert.Equal(t, 0.0, money(decimal.Zero))
}

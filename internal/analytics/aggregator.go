// Package analytics computes the dashboard reports for one vendor: summary
// counters, the 7-day revenue and order-count trends, and the popular dish
// ranking. Every report is recomputed from the store on each call.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
)

const (
	TrendDays      = 7
	PopularDishesN = 5
	dateLayout     = "2006-01-02"
	endOfDayNanos  = 999999000
	moneyPlaces    = 2
)

type Summary struct {
	TotalOrders         int     `json:"totalOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalMenuItems      int     `json:"totalMenuItems"`
	TotalCustomers      int     `json:"totalCustomers"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	DeliveryStaff       int     `json:"deliveryStaff"`
	TodayRevenue        float64 `json:"todayRevenue"`
	TodayOrders         int     `json:"todayOrders"`
	PendingOrders       int     `json:"pendingOrders"`
	CompletedOrders     int     `json:"completedOrders"`
}

// ZeroSummary is what a caller without a vendor sees.
func ZeroSummary() Summary { return Summary{} }

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type OrderCountPoint struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

type Dish struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Price   float64 `json:"price"`
}

type Aggregator struct {
	src Source
	clk clock.Clock
	loc *time.Location
}

// New builds an Aggregator. loc is the zone "today" and calendar days are
// evaluated in; nil means UTC.
func New(src Source, clk clock.Clock, loc *time.Location) *Aggregator {
	if clk == nil {
		clk = clock.System{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{src: src, clk: clk, loc: loc}
}

func money(d decimal.Decimal) float64 {
	return d.Round(moneyPlaces).InexactFloat64()
}

func (a *Aggregator) localMidnight(t time.Time) time.Time {
	y, m, d := t.In(a.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.loc)
}

func (a *Aggregator) Summary(ctx context.Context, vendorID string) (Summary, error) {
	var (
		s   Summary
		err error
	)
	all := OrderFilter{VendorID: vendorID}

	if s.TotalOrders, err = a.src.CountOrders(ctx, all); err != nil {
		return Summary{}, fmt.Errorf("counting orders: %w", err)
	}
	revenue, err := a.src.SumOrderTotals(ctx, all)
	if err != nil {
		return Summary{}, fmt.Errorf("summing revenue: %w", err)
	}
	s.TotalRevenue = money(revenue)

	if s.TotalMenuItems, err = a.src.CountMenus(ctx, vendorID); err != nil {
		return Summary{}, fmt.Errorf("counting menus: %w", err)
	}
	if s.TotalCustomers, err = a.src.CountDistinctCustomers(ctx, vendorID); err != nil {
		return Summary{}, fmt.Errorf("counting customers: %w", err)
	}
	// sums subscribers of every plan, active or not
	if s.ActiveSubscriptions, err = a.src.SumSubscribers(ctx, vendorID); err != nil {
		return Summary{}, fmt.Errorf("summing subscribers: %w", err)
	}
	if s.DeliveryStaff, err = a.src.CountDeliveryStaff(ctx, vendorID); err != nil {
		return Summary{}, fmt.Errorf("counting delivery staff: %w", err)
	}

	todayStart := a.localMidnight(a.clk.Now())
	today := OrderFilter{
		VendorID:      vendorID,
		CreatedFrom:   todayStart,
		CreatedBefore: todayStart.Add(24 * time.Hour),
	}
	if s.TodayOrders, err = a.src.CountOrders(ctx, today); err != nil {
		return Summary{}, fmt.Errorf("counting today's orders: %w", err)
	}
	todayRevenue, err := a.src.SumOrderTotals(ctx, today)
	if err != nil {
		return Summary{}, fmt.Errorf("summing today's revenue: %w", err)
	}
	s.TodayRevenue = money(todayRevenue)

	pending := OrderFilter{VendorID: vendorID, Statuses: order.PendingStatuses}
	if s.PendingOrders, err = a.src.CountOrders(ctx, pending); err != nil {
		return Summary{}, fmt.Errorf("counting pending orders: %w", err)
	}
	completed := OrderFilter{VendorID: vendorID, Statuses: []string{order.StatusDelivered}}
	if s.CompletedOrders, err = a.src.CountOrders(ctx, completed); err != nil {
		return Summary{}, fmt.Errorf("counting completed orders: %w", err)
	}

	logger.FromContext(ctx).Debug("dashboard summary computed",
		zap.String("vendor_id", vendorID),
		zap.Int("total_orders", s.TotalOrders),
	)
	return s, nil
}

// trendWindow returns the outer bounds of the 7-day window and its day keys,
// oldest first. The end is the last microsecond of today; the start is the
// same wall-clock instant six days earlier, not midnight.
func (a *Aggregator) trendWindow() (start, end time.Time, days []string) {
	now := a.clk.Now().In(a.loc)
	y, m, d := now.Date()
	end = time.Date(y, m, d, 23, 59, 59, endOfDayNanos, a.loc)
	start = end.AddDate(0, 0, -(TrendDays - 1))

	days = make([]string, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		days = append(days, time.Date(y, m, d-i, 0, 0, 0, 0, a.loc).Format(dateLayout))
	}
	return start, end, days
}

// bucket groups the points inside [start, end] by local calendar date.
func (a *Aggregator) bucket(points []OrderPoint, start, end time.Time, fn func(day string, p OrderPoint)) {
	for _, p := range points {
		t := p.CreatedAt.In(a.loc)
		if t.Before(start) || t.After(end) {
			continue
		}
		fn(t.Format(dateLayout), p)
	}
}

func (a *Aggregator) RevenueTrend(ctx context.Context, vendorID string) ([]RevenuePoint, error) {
	start, end, days := a.trendWindow()
	points, err := a.src.OrderPoints(ctx, vendorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading orders for revenue trend: %w", err)
	}

	sums := make(map[string]decimal.Decimal, TrendDays)
	a.bucket(points, start, end, func(day string, p OrderPoint) {
		sums[day] = sums[day].Add(p.TotalAmount)
	})

	out := make([]RevenuePoint, 0, TrendDays)
	for _, day := range days {
		out = append(out, RevenuePoint{Date: day, Revenue: money(sums[day])})
	}
	return out, nil
}

func (a *Aggregator) OrderTrend(ctx context.Context, vendorID string) ([]OrderCountPoint, error) {
	start, end, days := a.trendWindow()
	points, err := a.src.OrderPoints(ctx, vendorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading orders for order trend: %w", err)
	}

	counts := make(map[string]int, TrendDays)
	a.bucket(points, start, end, func(day string, _ OrderPoint) {
		counts[day]++
	})

	out := make([]OrderCountPoint, 0, TrendDays)
	for _, day := range days {
		out = append(out, OrderCountPoint{Date: day, Orders: counts[day]})
	}
	return out, nil
}

type dishTotals struct {
	name    string
	orders  int
	revenue decimal.Decimal
	price   decimal.Decimal
	priceAt time.Time
}

// PopularDishes ranks dishes by units sold across all of the vendor's orders.
// A dish's price is its unit price in the most recent order that contains
// it; ties on units sold are broken by name.
func (a *Aggregator) PopularDishes(ctx context.Context, vendorID string) ([]Dish, error) {
	facts, err := a.src.LineItems(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("loading line items: %w", err)
	}

	byName := make(map[string]*dishTotals)
	for _, f := range facts {
		t, ok := byName[f.Name]
		if !ok {
			t = &dishTotals{name: f.Name, price: f.Price, priceAt: f.OrderedAt}
			byName[f.Name] = t
		} else if f.OrderedAt.After(t.priceAt) {
			t.price, t.priceAt = f.Price, f.OrderedAt
		}
		t.orders += f.Quantity
		t.revenue = t.revenue.Add(f.Price.Mul(decimal.NewFromInt(int64(f.Quantity))))
	}

	ranked := make([]*dishTotals, 0, len(byName))
	for _, t := range byName {
		ranked = append(ranked, t)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].orders != ranked[j].orders {
			return ranked[i].orders > ranked[j].orders
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > PopularDishesN {
		ranked = ranked[:PopularDishesN]
	}

	out := make([]Dish, 0, len(ranked))
	for i, t := range ranked {
		out = append(out, Dish{
			ID:      strconv.Itoa(i + 1),
			Name:    t.name,
			Orders:  t.orders,
			Revenue: money(t.revenue),
			Price:   money(t.price),
		})
	}
	return out, nil
}

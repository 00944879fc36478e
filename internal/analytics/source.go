package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderFilter selects a vendor's orders. CreatedFrom is inclusive,
// CreatedBefore exclusive; zero times and an empty Statuses mean no bound.
type OrderFilter struct {
	VendorID      string
	CreatedFrom   time.Time
	CreatedBefore time.Time
	Statuses      []string
}

// OrderPoint is the slice of an order the trend reports need.
type OrderPoint struct {
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
}

// LineItemFact is one unwound line item.
type LineItemFact struct {
	OrderID   string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	OrderedAt time.Time
}

// Source is the read side of the store the aggregator reduces over.
type Source interface {
	CountOrders(ctx context.Context, f OrderFilter) (int, error)
	SumOrderTotals(ctx context.Context, f OrderFilter) (decimal.Decimal, error)
	CountDistinctCustomers(ctx context.Context, vendorID string) (int, error)
	CountMenus(ctx context.Context, vendorID string) (int, error)
	SumSubscribers(ctx context.Context, vendorID string) (int, error)
	CountDeliveryStaff(ctx context.Context, vendorID string) (int, error)
	// OrderPoints returns orders created in [from, to], both ends inclusive.
	OrderPoints(ctx context.Context, vendorID string, from, to time.Time) ([]OrderPoint, error)
	// LineItems unwinds the items of every order, most recent order first.
	LineItems(ctx context.Context, vendorID string) ([]LineItemFact, error)
}

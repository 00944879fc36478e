// Package ingest turns OrderPlaced messages from the broker into stored
// orders.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
	"github.com/MikeMC777/vendor-dashboard/internal/metrics"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
	"github.com/MikeMC777/vendor-dashboard/internal/store"
	"github.com/MikeMC777/vendor-dashboard/internal/vendor"
)

// OrderPlaced is the message published by the storefront when a customer
// checks out.
type OrderPlaced struct {
	OrderID         string           `json:"orderId"`
	VendorID        string           `json:"vendorId"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   string           `json:"customerEmail"`
	Items           []order.LineItem `json:"items"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	Status          string           `json:"status"`
	DeliveryAddress string           `json:"deliveryAddress"`
	CreatedAt       *time.Time       `json:"createdAt"`
}

type VendorLookup interface {
	GetByID(ctx context.Context, id string) (*vendor.Vendor, error)
}

type OrderWriter interface {
	Create(ctx context.Context, o *order.Order) error
}

type Handler struct {
	vendors VendorLookup
	orders  OrderWriter
	clk     clock.Clock
	metrics *metrics.Metrics
}

func NewHandler(vendors VendorLookup, orders OrderWriter, clk clock.Clock, m *metrics.Metrics) *Handler {
	if clk == nil {
		clk = clock.System{}
	}
	return &Handler{vendors: vendors, orders: orders, clk: clk, metrics: m}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Build validates msg and turns it into an order.
func (h *Handler) Build(msg OrderPlaced) (*order.Order, error) {
	if _, err := uuid.Parse(msg.VendorID); err != nil {
		return nil, invalid("vendorId %q is not a uuid", msg.VendorID)
	}
	if len(msg.Items) == 0 {
		return nil, invalid("order has no items")
	}
	for i, it := range msg.Items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, invalid("item %d has no name", i)
		}
		if it.Quantity <= 0 {
			return nil, invalid("item %d (%s) has quantity %d", i, it.Name, it.Quantity)
		}
		if it.Price.IsNegative() {
			return nil, invalid("item %d (%s) has negative price", i, it.Name)
		}
		if !store.AmountFits(it.Total()) {
			return nil, invalid("item %d (%s) amount is too large", i, it.Name)
		}
	}

	o := &order.Order{
		ID:              msg.OrderID,
		VendorID:        msg.VendorID,
		CustomerName:    msg.CustomerName,
		CustomerPhone:   msg.CustomerPhone,
		Items:           msg.Items,
		Status:          msg.Status,
		DeliveryAddress: msg.DeliveryAddress,
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	} else if _, err := uuid.Parse(o.ID); err != nil {
		return nil, invalid("orderId %q is not a uuid", o.ID)
	}
	if email := strings.TrimSpace(msg.CustomerEmail); email != "" {
		o.CustomerEmail = &email
	}
	if o.Status == "" {
		o.Status = order.StatusPending
	}
	if !order.ValidStatus(o.Status) {
		return nil, invalid("unknown status %q", o.Status)
	}

	if msg.TotalAmount != nil {
		if msg.TotalAmount.IsNegative() {
			return nil, invalid("negative totalAmount")
		}
		o.TotalAmount = *msg.TotalAmount
	} else {
		o.TotalAmount = order.SumItems(msg.Items)
	}
	if !store.AmountFits(o.TotalAmount) {
		return nil, invalid("totalAmount %s is too large", o.TotalAmount.String())
	}

	now := h.clk.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	if msg.CreatedAt != nil && !msg.CreatedAt.IsZero() {
		o.CreatedAt = msg.CreatedAt.UTC()
	}
	return o, nil
}

// Handle stores one message body. Errors wrapping ErrInvalidInput mean the
// message can never succeed; anything else is worth redelivering.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	log := logger.FromContext(ctx)

	var msg OrderPlaced
	if err := json.Unmarshal(body, &msg); err != nil {
		h.metrics.OrderIngested("rejected")
		return invalid("decoding message: %v", err)
	}
	o, err := h.Build(msg)
	if err != nil {
		h.metrics.OrderIngested("rejected")
		return err
	}

	if _, err := h.vendors.GetByID(ctx, o.VendorID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.metrics.OrderIngested("rejected")
			return invalid("vendor %s does not exist", o.VendorID)
		}
		h.metrics.OrderIngested("retried")
		return err
	}

	if err := h.orders.Create(ctx, o); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			// redelivery of an order we already stored
			h.metrics.OrderIngested("duplicate")
			log.Info("duplicate order ignored", zap.String("order_id", o.ID))
			return nil
		}
		h.metrics.OrderIngested("retried")
		return err
	}

	h.metrics.OrderIngested("stored")
	log.Info("order stored",
		zap.String("order_id", o.ID),
		zap.String("vendor_id", o.VendorID),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)
	return nil
}

// Retryable reports whether a failed message should go back on the queue.
func Retryable(err error) bool {
	return err != nil && !errors.Is(err, apperr.ErrInvalidInput)
}

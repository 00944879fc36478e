package subscription

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

const DefaultDuration = "monthly"

type Subscription struct {
	ID              string          `json:"id"`
	VendorID        string          `json:"vendorId"`
	PlanName        string          `json:"planName"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Duration        string          `json:"duration"`
	Features        []string        `json:"features"`
	IsActive        bool            `json:"isActive"`
	SubscriberCount int             `json:"subscriberCount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateSubscriptionRequest payload of creation. Price may be a number or a
// numeric string; anything else is stored as 0.
// swagger:model CreateSubscriptionRequest
type CreateSubscriptionRequest struct {
	PlanName    string          `json:"planName"    example:"Monthly Lunch"`
	Description string          `json:"description" example:"22 lunches a month"`
	Price       json.RawMessage `json:"price"       swaggertype:"number" example:"2400"`
	Duration    string          `json:"duration"    example:"monthly"`
	Features    []string        `json:"features"`
	IsActive    *bool           `json:"isActive"`
}

// UpdateSubscriptionRequest payload of partial update. subscriberCount is not
// client settable.
// swagger:model UpdateSubscriptionRequest
type UpdateSubscriptionRequest struct {
	PlanName    *string         `json:"planName"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price" swaggertype:"number"`
	Duration    *string         `json:"duration"`
	Features    *[]string       `json:"features"`
	IsActive    *bool           `json:"isActive"`
}

// ParsePrice reads a price leniently: JSON numbers and numeric strings parse,
// everything else (absent, null, blank, garbage) is zero.
func ParsePrice(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
	} else {
		s = string(raw)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func New(req CreateSubscriptionRequest) (*Subscription, error) {
	s := &Subscription{
		PlanName:    strings.TrimSpace(req.PlanName),
		Description: req.Description,
		Price:       ParsePrice(req.Price),
		Duration:    req.Duration,
		Features:    req.Features,
		IsActive:    true,
	}
	if s.Duration == "" {
		s.Duration = DefaultDuration
	}
	if s.Features == nil {
		s.Features = []string{}
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	return s, s.validate()
}

func (req UpdateSubscriptionRequest) Apply(s *Subscription) error {
	if req.PlanName != nil {
		s.PlanName = strings.TrimSpace(*req.PlanName)
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Price != nil {
		s.Price = ParsePrice(req.Price)
	}
	if req.Duration != nil {
		s.Duration = *req.Duration
	}
	if req.Features != nil {
		s.Features = *req.Features
		if s.Features == nil {
			s.Features = []string{}
		}
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	return s.validate()
}

func (s *Subscription) validate() error {
	if s.Price.IsNegative() {
		return apperr.Invalid("price must be non-negative")
	}
	if !store.AmountFits(s.Price) {
		return apperr.Invalid("price is too large")
	}
	return nil
}

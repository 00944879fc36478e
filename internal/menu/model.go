package menu

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/store"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"

	DefaultAvailability = "daily"
)

type Menu struct {
	ID           string          `json:"id"`
	VendorID     string          `json:"vendorId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	MealType     string          `json:"mealType"`
	Availability string          `json:"availability"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	IsPublished  bool            `json:"isPublished"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CreateMenuRequest payload of creation.
// swagger:model CreateMenuRequest
type CreateMenuRequest struct {
	Name         string          `json:"name"         example:"Thali"`
	Description  string          `json:"description"  example:"Rice, dal, two sabzi"`
	Price        decimal.Decimal `json:"price"        swaggertype:"number" example:"120"`
	Category     string          `json:"category"     example:"veg"`
	MealType     string          `json:"mealType"     example:"lunch"`
	Availability string          `json:"availability" example:"daily"`
	StartDate    string          `json:"startDate"    example:"2024-10-01"`
	EndDate      string          `json:"endDate"      example:"2024-10-31"`
	IsPublished  bool            `json:"isPublished"`
}

// UpdateMenuRequest payload of partial update.
// swagger:model UpdateMenuRequest
type UpdateMenuRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price" swaggertype:"number"`
	Category     *string          `json:"category"`
	MealType     *string          `json:"mealType"`
	Availability *string          `json:"availability"`
	StartDate    *string          `json:"startDate"`
	EndDate      *string          `json:"endDate"`
	IsPublished  *bool            `json:"isPublished"`
}

func validMealType(s string) bool {
	return s == MealBreakfast || s == MealLunch || s == MealDinner
}

// New builds a menu from req, filling defaults. It does not assign ids.
func New(req CreateMenuRequest) (*Menu, error) {
	m := &Menu{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		MealType:     req.MealType,
		Availability: req.Availability,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsPublished:  req.IsPublished,
	}
	if m.MealType == "" {
		m.MealType = MealBreakfast
	}
	if m.Availability == "" {
		m.Availability = DefaultAvailability
	}
	return m, m.validate()
}

// Apply merges the set fields of req into m.
func (req UpdateMenuRequest) Apply(m *Menu) error {
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Price != nil {
		m.Price = *req.Price
	}
	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.MealType != nil {
		m.MealType = *req.MealType
	}
	if req.Availability != nil {
		m.Availability = *req.Availability
	}
	if req.StartDate != nil {
		m.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		m.EndDate = *req.EndDate
	}
	if req.IsPublished != nil {
		m.IsPublished = *req.IsPublished
	}
	return m.validate()
}

func (m *Menu) validate() error {
	if m.Price.IsNegative() {
		return apperr.Invalid("price must be non-negative")
	}
	if !store.AmountFits(m.Price) {
		return apperr.Invalid("price is too large")
	}
	if !validMealType(m.MealType) {
		return apperr.Invalid("mealType must be one of breakfast, lunch, dinner")
	}
	return nil
}

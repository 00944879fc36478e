package menu

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
)

func TestNew_Defaults(t *testing.T) {
	m, err := New(CreateMenuRequest{Name: "  Poha  ", Price: decimal.NewFromInt(40)})
	require.NoError(t, err)
	assert.Equal(t, "Poha", m.Name)
	assert.Equal(t, MealBreakfast, m.MealType)
	assert.Equal(t, DefaultAvailability, m.Availability)
	assert.False(t, m.IsPublished)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(CreateMenuRequest{Name: "x", MealType: "brunch"})
	assert.Error(t, err)

	_, err = New(CreateMenuRequest{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.Error(t, err)

	_, err = New(CreateMenuRequest{Name: "x", Price: decimal.New(1, 12)})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUpdate_OnlyTouchesSetFields(t *testing.T) {
	m, err := New(CreateMenuRequest{Name: "Thali", Price: decimal.NewFromInt(120), MealType: MealLunch, Category: "veg"})
	require.NoError(t, err)

	var req UpdateMenuRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price":"135.50","isPublished":true}`), &req))
	require.NoError(t, req.Apply(m))

	assert.Equal(t, "Thali", m.Name)
	assert.Equal(t, "veg", m.Category)
	assert.Equal(t, MealLunch, m.MealType)
	assert.True(t, m.Price.Equal(decimal.RequireFromString("135.50")))
	assert.True(t, m.IsPublished)

	bad := MealDinner + "x"
	assert.Error(t, UpdateMenuRequest{MealType: &bad}.Apply(m))
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
	"github.com/MikeMC777/vendor-dashboard/internal/vendor"
)

type stubVendors struct {
	known map[string]bool
	err   error
}

func (s *stubVendors) GetByID(_ context.Context, id string) (*vendor.Vendor, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.known[id] {
		return nil, apperr.ErrNotFound
	}
	return &vendor.Vendor{ID: id}, nil
}

type stubOrders struct {
	stored []*order.Order
	err    error
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, o)
	return nil
}

type mockDelivery struct{ mock.Mock }

func (m *mockDelivery) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *mockDelivery) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

var testNow = time.Date(2024, 9, 28, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Handler, *stubOrders, string) {
	t.Helper()
	vid := uuid.NewString()
	orders := &stubOrders{}
	h := NewHandler(&stubVendors{known: map[string]bool{vid: true}}, orders, clock.NewFake(testNow), nil)
	return h, orders, vid
}

func TestHandle_StoresOrderWithComputedTotal(t *testing.T) {
	h, orders, vid := setup(t)
	body := fmt.Sprintf(`{
		"vendorId": %q,
		"customerName": "Asha",
		"customerEmail": "asha@example.com",
		"items": [{"name":"Dal Rice","price":80,"quantity":2},{"name":"Lassi","price":"30","quantity":1}]
	}`, vid)

	require.NoError(t, h.Handle(context.Background(), []byte(body)))
	require.Len(t, orders.stored, 1)

	o := orders.stored[0]
	assert.Equal(t, "190", o.TotalAmount.String())
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, testNow, o.CreatedAt)
	require.NotNil(t, o.CustomerEmail)
	assert.Equal(t, "asha@example.com", *o.CustomerEmail)
	_, err := uuid.Parse(o.ID)
	assert.NoError(t, err)
}

func TestHandle_KeepsExplicitFields(t *testing.T) {
	h, orders, vid := setup(t)
	oid := uuid.NewString()
	body := fmt.Sprintf(`{
		"orderId": %q, "vendorId": %q, "status": "delivered", "totalAmount": 150.5,
		"createdAt": "2024-09-27T18:45:00+05:30",
		"items": [{"name":"Thali","price":150.5,"quantity":1}]
	}`, oid, vid)

	require.NoError(t, h.Handle(context.Background(), []byte(body)))
	o := orders.stored[0]
	assert.Equal(t, oid, o.ID)
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, "150.5", o.TotalAmount.String())
	assert.Equal(t, time.Date(2024, 9, 27, 13, 15, 0, 0, time.UTC), o.CreatedAt)
	assert.Nil(t, o.CustomerEmail)
}

func TestHandle_RejectsBadInput(t *testing.T) {
	h, orders, vid := setup(t)
	cases := map[string]string{
		"not json":       `{`,
		"no items":       fmt.Sprintf(`{"vendorId":%q,"items":[]}`, vid),
		"zero quantity":  fmt.Sprintf(`{"vendorId":%q,"items":[{"name":"x","price":1,"quantity":0}]}`, vid),
		"negative price": fmt.Sprintf(`{"vendorId":%q,"items":[{"name":"x","price":-1,"quantity":1}]}`, vid),
		"bad status":     fmt.Sprintf(`{"vendorId":%q,"status":"lost","items":[{"name":"x","price":1,"quantity":1}]}`, vid),
		"bad vendor id":  `{"vendorId":"v1","items":[{"name":"x","price":1,"quantity":1}]}`,
		"huge line":      fmt.Sprintf(`{"vendorId":%q,"items":[{"name":"x","price":1e12,"quantity":1}]}`, vid),
		"huge sum":       fmt.Sprintf(`{"vendorId":%q,"items":[{"name":"x","price":6000000000,"quantity":1},{"name":"y","price":6000000000,"quantity":1}]}`, vid),
		"huge total":     fmt.Sprintf(`{"vendorId":%q,"totalAmount":1e12,"items":[{"name":"x","price":1,"quantity":1}]}`, vid),
		"unknown vendor": fmt.Sprintf(`{"vendorId":%q,"items":[{"name":"x","price":1,"quantity":1}]}`, uuid.NewString()),
	}
	for name, body := range cases {
		err := h.Handle(context.Background(), []byte(body))
		assert.ErrorIs(t, err, apperr.ErrInvalidInput, name)
		assert.False(t, Retryable(err), name)
	}
	assert.Empty(t, orders.stored)
}

func TestHandle_StoreFailureIsRetryable(t *testing.T) {
	h, orders, vid := setup(t)
	orders.err = fmt.Errorf("%w: connection reset", apperr.ErrStoreUnavailable)

	err := h.Handle(context.Background(), []byte(fmt.Sprintf(`{"vendorId":%q,"items":[{"name":"x","price":1,"quantity":1}]}`, vid)))
	require.Error(t, err)
	assert.True(t, Retryable(err))
}

func TestHandle_DuplicateIsAcked(t *testing.T) {
	h, orders, vid := setup(t)
	orders.err = fmt.Errorf("%w: orders_pkey", apperr.ErrConflict)

	err := h.Handle(context.Background(), []byte(fmt.Sprintf(`{"orderId":%q,"vendorId":%q,"items":[{"name":"x","price":1,"quantity":1}]}`, uuid.NewString(), vid)))
	assert.NoError(t, err)
}

func TestDispatch(t *testing.T) {
	ok := func(context.Context, []byte) error { return nil }
	bad := func(context.Context, []byte) error { return fmt.Errorf("%w: no items", apperr.ErrInvalidInput) }
	down := func(context.Context, []byte) error { return errors.New("store down") }

	d := &mockDelivery{}
	d.On("Ack", false).Return(nil).Twice()
	d.On("Nack", false, true).Return(nil).Once()

	Dispatch(context.Background(), d, nil, ok)
	Dispatch(context.Background(), d, nil, bad)
	Dispatch(context.Background(), d, nil, down)

	d.AssertExpectations(t)
}

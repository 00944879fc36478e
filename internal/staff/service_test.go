package staff

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/auth"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
)

type memRepo struct {
	mu   sync.Mutex
	byID map[string]*Staff
}

func newMemRepo() *memRepo { return &memRepo{byID: map[string]*Staff{}} }

func (m *memRepo) phoneTaken(s *Staff) bool {
	for _, o := range m.byID {
		if o.ID != s.ID && o.VendorID == s.VendorID && o.Phone == s.Phone {
			return true
		}
	}
	return false
}

func (m *memRepo) Create(_ context.Context, s *Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phoneTaken(s) {
		return apperr.ErrConflict
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (*Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memRepo) GetByID(ctx context.Context, vendorID, id string) (*Staff, error) {
	s, err := m.Get(ctx, id)
	if err != nil || s.VendorID != vendorID {
		return nil, apperr.ErrNotFound
	}
	return s, nil
}

func (m *memRepo) ListByVendor(_ context.Context, vendorID string) ([]Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Staff{}
	for _, s := range m.byID {
		if s.VendorID == vendorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memRepo) ListByPhone(_ context.Context, phone string) ([]Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Staff{}
	for _, s := range m.byID {
		if s.Phone == phone {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, s *Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.ID]; !ok {
		return apperr.ErrNotFound
	}
	if m.phoneTaken(s) {
		return apperr.ErrConflict
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memRepo) UpdateLocation(_ context.Context, id string, lat, lng float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	s.Location = Location{Lat: &lat, Lng: &lng, UpdatedAt: &at}
	return nil
}

func (m *memRepo) Delete(_ context.Context, vendorID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok || s.VendorID != vendorID {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

// countingLimiter allows the first limit hits per key.
type countingLimiter struct {
	limit int
	hits  map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.hits[key]++
	return l.hits[key] <= l.limit, nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) error {
	delete(l.hits, key)
	return nil
}

var testNow = time.Date(2024, 9, 28, 8, 0, 0, 0, time.UTC)

func newTestService(repo Repository, lim LoginLimiter) (*Service, *auth.Verifier) {
	clk := clock.NewFake(testNow)
	iss := auth.NewIssuer("staff-secret", 1440*time.Minute, clk)
	return NewService(repo, iss, lim, clk, nil), auth.NewVerifier("staff-secret", "", clk)
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(PasswordLength)
	require.NoError(t, err)
	assert.Len(t, pw, PasswordLength)
	assert.Regexp(t, `^[A-Za-z0-9]{10}$`, pw)

	other, err := GeneratePassword(PasswordLength)
	require.NoError(t, err)
	assert.NotEqual(t, pw, other)
}

func TestCreate_ReturnsTemporaryPassword(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, nil)

	st, err := svc.Create(context.Background(), "v1", CreateStaffRequest{Name: "Ravi", Phone: "+911"})
	require.NoError(t, err)
	require.NotNil(t, st.TemporaryPassword)
	assert.Len(t, *st.TemporaryPassword, PasswordLength)
	assert.Equal(t, DefaultVehicleType, st.VehicleType)
	assert.True(t, st.IsActive)
	assert.True(t, CheckPassword(st.PasswordHash, *st.TemporaryPassword))

	_, err = svc.Create(context.Background(), "v1", CreateStaffRequest{Name: "Dup", Phone: "+911"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, 409, apperr.HTTPStatusCode(err))

	// another vendor may reuse the number
	_, err = svc.Create(context.Background(), "v2", CreateStaffRequest{Name: "Other", Phone: "+911"})
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), "v1", CreateStaffRequest{Name: "NoPhone"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestUpdate_ClearsTemporaryPassword(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, nil)
	st, err := svc.Create(context.Background(), "v1", CreateStaffRequest{Name: "Ravi", Phone: "+911"})
	require.NoError(t, err)

	var req UpdateStaffRequest
	require.NoError(t, json.Unmarshal([]byte(`{"temporaryPassword":null,"assignedZone":"HSR"}`), &req))
	got, err := svc.Update(context.Background(), "v1", st.ID, req)
	require.NoError(t, err)
	assert.Nil(t, got.TemporaryPassword)
	assert.Equal(t, "HSR", got.AssignedZone)

	require.NoError(t, json.Unmarshal([]byte(`{"temporaryPassword":"letmein"}`), &req))
	_, err = svc.Update(context.Background(), "v1", st.ID, req)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Update(context.Background(), "v2", st.ID, UpdateStaffRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLogin(t *testing.T) {
	repo := newMemRepo()
	svc, ver := newTestService(repo, nil)
	st, err := svc.Create(context.Background(), "v1", CreateStaffRequest{Name: "Ravi", Phone: "+911"})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), LoginRequest{Phone: "+911", Password: *st.TemporaryPassword})
	require.NoError(t, err)
	assert.Equal(t, st.ID, res.Staff.ID)
	assert.Nil(t, res.Staff.TemporaryPassword)
	assert.Equal(t, testNow.Add(24*time.Hour), res.ExpiresAt)

	claims, err := ver.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, st.ID, claims.Subject)
	assert.Equal(t, auth.RoleDelivery, claims.Role)

	_, err = svc.Login(context.Background(), LoginRequest{Phone: "+911", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(context.Background(), LoginRequest{Phone: "+000", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLogin_InactiveStaffRejected(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, nil)
	inactive := false
	st, err := svc.Create(context.Background(), "v1", CreateStaffRequest{Phone: "+911", IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Phone: "+911", Password: *st.TemporaryPassword})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLogin_Throttled(t *testing.T) {
	repo := newMemRepo()
	lim := &countingLimiter{limit: 2, hits: map[string]int{}}
	svc, _ := newTestService(repo, lim)
	st, err := svc.Create(context.Background(), "v1", CreateStaffRequest{Phone: "+911"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), LoginRequest{Phone: "+911", Password: "nope"})
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	}
	_, err = svc.Login(context.Background(), LoginRequest{Phone: "+911", Password: *st.TemporaryPassword})
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
	assert.Equal(t, 429, apperr.HTTPStatusCode(err))
}

func TestLocation(t *testing.T) {
	repo := newMemRepo()
	svc, _ := newTestService(repo, nil)
	st, err := svc.Create(context.Background(), "v1", CreateStaffRequest{Phone: "+911"})
	require.NoError(t, err)

	loc, err := svc.Location(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Nil(t, loc.Lat)

	lat, lng := 12.9352, 77.6245
	updated, err := svc.UpdateLocation(context.Background(), st.ID, LocationRequest{Lat: &lat, Lng: &lng})
	require.NoError(t, err)
	require.NotNil(t, updated.Location.Lat)
	assert.Equal(t, lat, *updated.Location.Lat)
	assert.Equal(t, testNow, *updated.Location.UpdatedAt)

	bad := 200.0
	_, err = svc.UpdateLocation(context.Background(), st.ID, LocationRequest{Lat: &bad, Lng: &lng})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

// Package staff manages a vendor's delivery staff and the delivery portal
// sign-in.
package staff

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/auth"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
	"github.com/MikeMC777/vendor-dashboard/internal/metrics"
)

// LoginLimiter throttles login attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type TokenIssuer interface {
	Issue(subject, role string) (string, time.Time, error)
}

var errInvalidCredentials = apperr.New(apperr.ErrUnauthorized, http.StatusUnauthorized, "invalid credentials")

type Service struct {
	repo    Repository
	issuer  TokenIssuer
	limiter LoginLimiter
	clk     clock.Clock
	metrics *metrics.Metrics
}

func NewService(repo Repository, issuer TokenIssuer, limiter LoginLimiter, clk clock.Clock, m *metrics.Metrics) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{repo: repo, issuer: issuer, limiter: limiter, clk: clk, metrics: m}
}

// Create registers a staff member with a generated password. The returned
// record carries the plain password in TemporaryPassword.
func (s *Service) Create(ctx context.Context, vendorID string, req CreateStaffRequest) (*Staff, error) {
	st, err := newStaff(req)
	if err != nil {
		return nil, err
	}
	pw, err := GeneratePassword(PasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(pw)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now().UTC()
	st.ID = uuid.NewString()
	st.VendorID = vendorID
	st.PasswordHash = hash
	st.TemporaryPassword = &pw
	st.CreatedAt, st.UpdatedAt = now, now

	if err := s.repo.Create(ctx, st); err != nil {
		return nil, phoneConflict(err)
	}
	return st, nil
}

// Update applies req to the vendor's staff member id.
func (s *Service) Update(ctx context.Context, vendorID, id string, req UpdateStaffRequest) (*Staff, error) {
	st, err := s.repo.GetByID(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(st); err != nil {
		return nil, err
	}
	st.UpdatedAt = s.clk.Now().UTC()
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, phoneConflict(err)
	}
	return st, nil
}

func phoneConflict(err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		return apperr.New(apperr.ErrConflict, http.StatusConflict, "staff with this phone already exists")
	}
	return err
}

// Login checks phone and password and returns a signed staff token. Attempts
// are throttled per phone number.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)
	phone := strings.TrimSpace(req.Phone)
	if phone == "" || req.Password == "" {
		return nil, apperr.Invalid("phone and password are required")
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, phone)
		if err != nil {
			// fail open
			log.Warn("login limiter unavailable", zap.Error(err))
		} else if !ok {
			s.metrics.LoginAttempt("throttled")
			return nil, apperr.New(apperr.ErrRateLimited, http.StatusTooManyRequests, "too many login attempts, try again later")
		}
	}

	candidates, err := s.repo.ListByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		st := &candidates[i]
		if !st.IsActive || !CheckPassword(st.PasswordHash, req.Password) {
			continue
		}
		token, exp, err := s.issuer.Issue(st.ID, auth.RoleDelivery)
		if err != nil {
			return nil, err
		}
		if s.limiter != nil {
			if err := s.limiter.Reset(ctx, phone); err != nil {
				log.Warn("resetting login limiter", zap.Error(err))
			}
		}
		st.TemporaryPassword = nil
		s.metrics.LoginAttempt("ok")
		log.Info("delivery staff signed in", zap.String("staff_id", st.ID))
		return &LoginResponse{Token: token, ExpiresAt: exp, Staff: st}, nil
	}

	s.metrics.LoginAttempt("invalid")
	return nil, errInvalidCredentials
}

func (s *Service) UpdateLocation(ctx context.Context, staffID string, req LocationRequest) (*Staff, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLocation(ctx, staffID, *req.Lat, *req.Lng, s.clk.Now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, staffID)
}

func (s *Service) Location(ctx context.Context, staffID string) (Location, error) {
	st, err := s.repo.Get(ctx, staffID)
	if err != nil {
		return Location{}, err
	}
	return st.Location, nil
}

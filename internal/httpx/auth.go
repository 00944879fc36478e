package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/auth"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
)

const (
	ctxCallerID = "caller_id"
	ctxStaffID  = "staff_id"
)

type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

func bearer(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func verify(c *gin.Context, v TokenVerifier) (*auth.Claims, bool) {
	raw := bearer(c)
	if raw == "" {
		Fail(c, apperr.ErrUnauthorized)
		return nil, false
	}
	claims, err := v.Verify(raw)
	if err != nil {
		logger.FromContext(c.Request.Context()).Debug("token rejected", zap.Error(err))
		Fail(c, apperr.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}

// RequireCaller verifies the identity provider token and stores its subject
// as the caller id.
func RequireCaller(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, v)
		if !ok {
			return
		}
		if claims.Role == auth.RoleDelivery {
			Fail(c, apperr.ErrUnauthorized)
			return
		}
		c.Set(ctxCallerID, claims.Subject)
		ctx := logger.WithContext(c.Request.Context(),
			logger.FromContext(c.Request.Context()).With(zap.String("caller_id", claims.Subject)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireStaff accepts only delivery staff tokens.
func RequireStaff(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := verify(c, v)
		if !ok {
			return
		}
		if claims.Role != auth.RoleDelivery {
			Fail(c, apperr.ErrUnauthorized)
			return
		}
		c.Set(ctxStaffID, claims.Subject)
		c.Next()
	}
}

func CallerID(c *gin.Context) string { return c.GetString(ctxCallerID) }

func StaffID(c *gin.Context) string { return c.GetString(ctxStaffID) }

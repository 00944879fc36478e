package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/logger"
)

const readyTimeout = 2 * time.Second

func readinessChecks(pool *pgxpool.Pool, rdb *redis.Client) map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"postgres": pool.Ping,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

func healthzHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}
}

// readyzHandler reports 503 while any dependency check fails.
func readyzHandler(checks map[string]func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.FromContext(ctx).Warn("readiness check failed", zap.String("check", name), zap.Error(err))
				result[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "up"
		}
		c.JSON(status, result)
	}
}

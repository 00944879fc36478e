// @title        Vendor Dashboard API
// @version      1.0
// @description  Vendor operations dashboard: profile, menus, orders, subscriptions, delivery staff and analytics.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/vendor-dashboard/internal/analytics"
	"github.com/MikeMC777/vendor-dashboard/internal/auth"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/config"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
	"github.com/MikeMC777/vendor-dashboard/internal/menu"
	"github.com/MikeMC777/vendor-dashboard/internal/metrics"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
	"github.com/MikeMC777/vendor-dashboard/internal/ratelimit"
	"github.com/MikeMC777/vendor-dashboard/internal/staff"
	"github.com/MikeMC777/vendor-dashboard/internal/store"
	"github.com/MikeMC777/vendor-dashboard/internal/subscription"
	"github.com/MikeMC777/vendor-dashboard/internal/vendor"

	_ "github.com/MikeMC777/vendor-dashboard/docs"
)

const serviceName = "vendor-service"

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	log = log.With(zap.String("service", serviceName))

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// numbers, not strings, on the wire
	decimal.MarshalJSONWithoutQuotes = true
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("connecting to postgres", zap.Error(err))
	}
	defer pool.Close()
	if err := store.Migrate(ctx, pool); err != nil {
		log.Fatal("applying schema", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, login throttling fails open", zap.Error(err))
		}
	} else {
		log.Info("redis not configured, login throttling disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	clk := clock.System{}
	staffRepo := staff.NewPGRepo(pool)
	var limiter *ratelimit.Limiter
	if rdb != nil {
		limiter = ratelimit.New(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginWindow)
	}

	a := &app{
		log:           log,
		clk:           clk,
		loc:           cfg.Dashboard.Location(),
		metrics:       m,
		gatherer:      reg,
		callerTokens:  auth.NewVerifier(cfg.Auth.VendorJWTSecret, cfg.Auth.VendorJWTIssuer, clk),
		staffTokens:   auth.NewVerifier(cfg.Auth.StaffJWTSecret, "", clk),
		vendors:       vendor.NewService(vendor.NewPGRepo(pool), clk, m, cfg.Dashboard.AutoProvision),
		reports:       analytics.New(analytics.NewPGSource(pool), clk, cfg.Dashboard.Location()),
		menus:         menu.NewPGRepo(pool),
		orders:        order.NewPGRepo(pool),
		subscriptions: subscription.NewPGRepo(pool),
		staffRepo:     staffRepo,
		staff: staff.NewService(staffRepo,
			auth.NewIssuer(cfg.Auth.StaffJWTSecret, cfg.Auth.StaffTokenTTL, clk),
			limiter, clk, m),
		checks: readinessChecks(pool, rdb),
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      newRouter(a),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		log.Fatal("listening for grpc health", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}
	go func() {
		log.Info("grpc health listening", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcSrv.Serve(lis); err != nil {
			log.Error("grpc health server stopped", zap.Error(err))
		}
	}()

	go func() {
		log.Info("vendor-service listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	grpcSrv.GracefulStop()
}

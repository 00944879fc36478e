package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/config"
	"github.com/MikeMC777/vendor-dashboard/internal/ingest"
	"github.com/MikeMC777/vendor-dashboard/internal/logger"
	"github.com/MikeMC777/vendor-dashboard/internal/metrics"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
	"github.com/MikeMC777/vendor-dashboard/internal/store"
	"github.com/MikeMC777/vendor-dashboard/internal/vendor"
)

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
	log = log.With(zap.String("service", "order-ingest"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	pool, err := store.NewPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("connecting to postgres", zap.Error(err))
	}
	defer pool.Close()
	if err := store.Migrate(ctx, pool); err != nil {
		log.Fatal("applying schema", zap.Error(err))
	}

	consumer, err := ingest.NewConsumer(cfg.RabbitMQ)
	if err != nil {
		log.Fatal("connecting to rabbitmq", zap.Error(err))
	}
	defer consumer.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	metricsSrv := &http.Server{Addr: cfg.RabbitMQ.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	h := ingest.NewHandler(vendor.NewPGRepo(pool), order.NewPGRepo(pool), clock.System{}, m)
	err = consumer.Consume(ctx, h.Handle)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", zap.Error(err))
		return
	}
	log.Info("order-ingest stopped")
}

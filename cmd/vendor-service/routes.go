package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/MikeMC777/vendor-dashboard/internal/analytics"
	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/menu"
	"github.com/MikeMC777/vendor-dashboard/internal/metrics"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
	"github.com/MikeMC777/vendor-dashboard/internal/staff"
	"github.com/MikeMC777/vendor-dashboard/internal/subscription"
	"github.com/MikeMC777/vendor-dashboard/internal/vendor"
)

type vendorService interface {
	GetOrCreate(ctx context.Context, callerID string) (*vendor.Vendor, bool, error)
	UpdateProfile(ctx context.Context, v *vendor.Vendor, p vendor.Profile) (*vendor.Vendor, error)
}

type reportService interface {
	Summary(ctx context.Context, vendorID string) (analytics.Summary, error)
	RevenueTrend(ctx context.Context, vendorID string) ([]analytics.RevenuePoint, error)
	OrderTrend(ctx context.Context, vendorID string) ([]analytics.OrderCountPoint, error)
	PopularDishes(ctx context.Context, vendorID string) ([]analytics.Dish, error)
}

type staffService interface {
	Create(ctx context.Context, vendorID string, req staff.CreateStaffRequest) (*staff.Staff, error)
	Update(ctx context.Context, vendorID, id string, req staff.UpdateStaffRequest) (*staff.Staff, error)
	Login(ctx context.Context, req staff.LoginRequest) (*staff.LoginResponse, error)
	UpdateLocation(ctx context.Context, staffID string, req staff.LocationRequest) (*staff.Staff, error)
	Location(ctx context.Context, staffID string) (staff.Location, error)
}

// app holds everything the handlers need.
type app struct {
	log      *zap.Logger
	clk      clock.Clock
	loc      *time.Location
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	callerTokens httpx.TokenVerifier
	staffTokens  httpx.TokenVerifier

	vendors       vendorService
	reports       reportService
	menus         menu.Repository
	orders        order.Repository
	subscriptions subscription.Repository
	staffRepo     staff.Repository
	staff         staffService

	checks map[string]func(context.Context) error
}

const (
	ctxVendor        = "vendor"
	ctxVendorCreated = "vendor_created"
)

// withVendor resolves the caller's vendor, provisioning it on first use.
// When no vendor can be resolved the request continues without one so the
// dashboard can degrade; handlers that need it call mustVendor.
func withVendor(vendors vendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, created, err := vendors.GetOrCreate(c.Request.Context(), httpx.CallerID(c))
		switch {
		case err == nil:
			c.Set(ctxVendor, v)
			c.Set(ctxVendorCreated, created)
		case errors.Is(err, apperr.ErrVendorNotFound):
		default:
			httpx.Fail(c, err)
			return
		}
		c.Next()
	}
}

func currentVendor(c *gin.Context) *vendor.Vendor {
	if v, ok := c.Get(ctxVendor); ok {
		return v.(*vendor.Vendor)
	}
	return nil
}

func mustVendor(c *gin.Context) (*vendor.Vendor, bool) {
	v := currentVendor(c)
	if v == nil {
		httpx.Fail(c, apperr.ErrVendorNotFound)
		return nil, false
	}
	return v, true
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(a.log), httpx.Logger(), httpx.Metrics(a.metrics))

	r.GET("/healthz", healthzHandler())
	r.GET("/readyz", readyzHandler(a.checks))
	if a.gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(a.gatherer)))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	delivery := api.Group("/delivery")
	delivery.POST("/login", deliveryLoginHandler(a.staff))
	delivery.GET("/location/:id", getStaffLocationHandler(a.staff))
	staffOnly := delivery.Group("", httpx.RequireStaff(a.staffTokens))
	staffOnly.GET("/assignments", listAssignmentsHandler(a.orders))
	staffOnly.POST("/location", updateLocationHandler(a.staff))

	v := api.Group("", httpx.RequireCaller(a.callerTokens), withVendor(a.vendors))

	v.GET("/vendors/me", getVendorHandler())
	v.POST("/vendors", createVendorHandler(a.vendors))
	v.PUT("/vendors/me", updateVendorHandler(a.vendors))
	v.PUT("/vendors/payment-settings", updatePaymentSettingsHandler(a.vendors))

	v.GET("/menus", listMenusHandler(a.menus))
	v.POST("/menus", createMenuHandler(a.menus, a.clk))
	v.PUT("/menus/:id", updateMenuHandler(a.menus, a.clk))
	v.DELETE("/menus/:id", deleteMenuHandler(a.menus))

	v.GET("/orders", listOrdersHandler(a.orders, a.clk, a.loc))
	v.GET("/orders/:id", getOrderHandler(a.orders))
	v.PUT("/orders/:id", updateOrderStatusHandler(a.orders, a.clk))
	v.PUT("/orders/:id/assign", assignOrderHandler(a.orders, a.clk))

	v.GET("/subscriptions", listSubscriptionsHandler(a.subscriptions))
	v.POST("/subscriptions", createSubscriptionHandler(a.subscriptions, a.clk))
	v.PUT("/subscriptions/:id", updateSubscriptionHandler(a.subscriptions, a.clk))
	v.DELETE("/subscriptions/:id", deleteSubscriptionHandler(a.subscriptions))

	v.GET("/delivery-staff", listStaffHandler(a.staffRepo))
	v.POST("/delivery-staff", createStaffHandler(a.staff))
	v.PUT("/delivery-staff/:id", updateStaffHandler(a.staff))
	v.DELETE("/delivery-staff/:id", deleteStaffHandler(a.staffRepo))

	dash := v.Group("/dashboard")
	dash.GET("/stats", statsHandler(a.reports, a.metrics))
	dash.GET("/revenue", revenueHandler(a.reports, a.metrics))
	dash.GET("/order-trend", orderTrendHandler(a.reports, a.metrics))
	dash.GET("/popular-dishes", popularDishesHandler(a.reports, a.metrics))
	dash.GET("/orders", recentOrdersHandler(a.orders))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httpx.HTTPError{Error: "route not found"})
	})
	return r
}

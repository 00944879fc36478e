package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/vendor-dashboard/internal/analytics"
	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/metrics"
)

const (
	reportStats   = "stats"
	reportRevenue = "revenue"
	reportOrders  = "order_trend"
	reportDishes  = "popular_dishes"
)

// report runs fn for the current vendor. Without a vendor the fallback is
// served instead.
func report[T any](m *metrics.Metrics, name string, fallback T, fn func(c *gin.Context, vendorID string) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := currentVendor(c)
		if v == nil {
			m.Report(name, "degraded")
			c.JSON(http.StatusOK, fallback)
			return
		}
		out, err := fn(c, v.ID)
		if err != nil {
			m.Report(name, "error")
			httpx.Fail(c, err)
			return
		}
		m.Report(name, "ok")
		c.JSON(http.StatusOK, out)
	}
}

// statsHandler godoc
// @Summary     Summary counters
// @Description Order, revenue, menu, customer, subscriber and staff counters for the caller's vendor.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.Summary
// @Failure     503 {object} httpx.HTTPError
// @Router      /api/dashboard/stats [get]
func statsHandler(reports reportService, m *metrics.Metrics) gin.HandlerFunc {
	return report(m, reportStats, analytics.ZeroSummary(), func(c *gin.Context, vendorID string) (analytics.Summary, error) {
		return reports.Summary(c.Request.Context(), vendorID)
	})
}

// revenueHandler godoc
// @Summary     Revenue over the last 7 days
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.RevenuePoint
// @Failure     503 {object} httpx.HTTPError
// @Router      /api/dashboard/revenue [get]
func revenueHandler(reports reportService, m *metrics.Metrics) gin.HandlerFunc {
	return report(m, reportRevenue, []analytics.RevenuePoint{}, func(c *gin.Context, vendorID string) ([]analytics.RevenuePoint, error) {
		return reports.RevenueTrend(c.Request.Context(), vendorID)
	})
}

// orderTrendHandler godoc
// @Summary     Order count over the last 7 days
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.OrderCountPoint
// @Failure     503 {object} httpx.HTTPError
// @Router      /api/dashboard/order-trend [get]
func orderTrendHandler(reports reportService, m *metrics.Metrics) gin.HandlerFunc {
	return report(m, reportOrders, []analytics.OrderCountPoint{}, func(c *gin.Context, vendorID string) ([]analytics.OrderCountPoint, error) {
		return reports.OrderTrend(c.Request.Context(), vendorID)
	})
}

// popularDishesHandler godoc
// @Summary     Top dishes by quantity ordered
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.Dish
// @Failure     503 {object} httpx.HTTPError
// @Router      /api/dashboard/popular-dishes [get]
func popularDishesHandler(reports reportService, m *metrics.Metrics) gin.HandlerFunc {
	return report(m, reportDishes, []analytics.Dish{}, func(c *gin.Context, vendorID string) ([]analytics.Dish, error) {
		return reports.PopularDishes(c.Request.Context(), vendorID)
	})
}

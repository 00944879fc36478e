package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/order"
)

const (
	recentOrdersLimit = 10
	assignmentsLimit  = 20
)

// createdFrom turns the date filter of the order list into a lower bound.
func createdFrom(filter string, now time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch filter {
	case "":
		return time.Time{}, true
	case "today":
		return midnight, true
	case "week":
		return midnight.AddDate(0, 0, -6), true
	case "month":
		return midnight.AddDate(0, 0, -29), true
	}
	return time.Time{}, false
}

// listOrdersHandler godoc
// @Summary  List orders
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    status query string false "Order status"
// @Param    date   query string false "today, week or month"
// @Success  200 {array} order.Order
// @Failure  400 {object} httpx.HTTPError
// @Router   /api/orders [get]
func listOrdersHandler(repo order.Repository, clk clock.Clock, loc *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		status := c.Query("status")
		if status != "" && !order.ValidStatus(status) {
			httpx.BadRequest(c, "invalid status")
			return
		}
		from, ok := createdFrom(c.Query("date"), clk.Now(), loc)
		if !ok {
			httpx.BadRequest(c, "date must be today, week or month")
			return
		}

		items, err := repo.ListByVendor(c.Request.Context(), v.ID, order.Query{Status: status, CreatedFrom: from})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// getOrderHandler godoc
// @Summary  Get order
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "Order ID"
// @Success  200 {object} order.Order
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/orders/{id} [get]
func getOrderHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		o, err := repo.GetByID(c.Request.Context(), v.ID, id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderStatusHandler godoc
// @Summary     Change order status
// @Description delivered and cancelled orders can no longer change.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string                    true "Order ID"
// @Param       body body order.UpdateStatusRequest true "New status"
// @Success     200 {object} order.Order
// @Failure     400 {object} httpx.HTTPError
// @Failure     404 {object} httpx.HTTPError
// @Failure     409 {object} httpx.HTTPError
// @Router      /api/orders/{id} [put]
func updateOrderStatusHandler(repo order.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if !order.ValidStatus(req.Status) {
			httpx.BadRequest(c, "invalid status")
			return
		}

		ctx := c.Request.Context()
		if err := repo.UpdateStatus(ctx, v.ID, id, req.Status, clk.Now().UTC()); err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := repo.GetByID(ctx, v.ID, id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// assignOrderHandler godoc
// @Summary  Assign order to delivery staff
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string              true "Order ID"
// @Param    body body order.AssignRequest true "Staff member"
// @Success  200 {object} order.Order
// @Failure  400 {object} httpx.HTTPError
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/orders/{id}/assign [put]
func assignOrderHandler(repo order.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		var req order.AssignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if _, err := uuid.Parse(req.StaffID); err != nil {
			httpx.BadRequest(c, "invalid staffId")
			return
		}

		ctx := c.Request.Context()
		if err := repo.AssignStaff(ctx, v.ID, id, req.StaffID, clk.Now().UTC()); err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := repo.GetByID(ctx, v.ID, id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// recentOrdersHandler godoc
// @Summary  Recent orders
// @Tags     dashboard
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} order.Order
// @Router   /api/dashboard/orders [get]
func recentOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := currentVendor(c)
		if v == nil {
			c.JSON(http.StatusOK, []order.Order{})
			return
		}
		items, err := repo.ListByVendor(c.Request.Context(), v.ID, order.Query{Limit: recentOrdersLimit})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// listAssignmentsHandler godoc
// @Summary  Orders assigned to the signed-in staff member
// @Tags     delivery
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} order.Order
// @Failure  401 {object} httpx.HTTPError
// @Router   /api/delivery/assignments [get]
func listAssignmentsHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repo.ListByStaff(c.Request.Context(), httpx.StaffID(c), assignmentsLimit)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/subscription"
)

// listSubscriptionsHandler godoc
// @Summary  List subscription plans
// @Tags     subscriptions
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} subscription.Subscription
// @Router   /api/subscriptions [get]
func listSubscriptionsHandler(repo subscription.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		items, err := repo.ListByVendor(c.Request.Context(), v.ID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// createSubscriptionHandler godoc
// @Summary     Create subscription plan
// @Description A price that is not a number is stored as 0.
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body subscription.CreateSubscriptionRequest true "Plan"
// @Success     201 {object} subscription.Subscription
// @Failure     400 {object} httpx.HTTPError
// @Router      /api/subscriptions [post]
func createSubscriptionHandler(repo subscription.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		var req subscription.CreateSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		s, err := subscription.New(req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		now := clk.Now().UTC()
		s.ID = uuid.NewString()
		s.VendorID = v.ID
		s.CreatedAt, s.UpdatedAt = now, now

		if err := repo.Create(c.Request.Context(), s); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

// updateSubscriptionHandler godoc
// @Summary  Update subscription plan
// @Tags     subscriptions
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                                 true "Subscription ID"
// @Param    body body subscription.UpdateSubscriptionRequest true "Fields to change"
// @Success  200 {object} subscription.Subscription
// @Failure  400 {object} httpx.HTTPError
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/subscriptions/{id} [put]
func updateSubscriptionHandler(repo subscription.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		var req subscription.UpdateSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}

		s, err := repo.GetByID(c.Request.Context(), v.ID, id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if err := req.Apply(s); err != nil {
			httpx.Fail(c, err)
			return
		}
		s.UpdatedAt = clk.Now().UTC()
		if err := repo.Update(c.Request.Context(), s); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// deleteSubscriptionHandler godoc
// @Summary  Delete subscription plan
// @Tags     subscriptions
// @Security BearerAuth
// @Param    id path string true "Subscription ID"
// @Success  204
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/subscriptions/{id} [delete]
func deleteSubscriptionHandler(repo subscription.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), v.ID, id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, httpx.HTTPError{Error: "subscription not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/vendor-dashboard/internal/clock"
	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/menu"
)

// listMenusHandler godoc
// @Summary  List menus
// @Tags     menus
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} menu.Menu
// @Router   /api/menus [get]
func listMenusHandler(repo menu.Repository) gin.HandlerFunc {
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

// createMenuHandler godoc
// @Summary  Create menu
// @Tags     menus
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body menu.CreateMenuRequest true "Menu"
// @Success  201 {object} menu.Menu
// @Failure  400 {object} httpx.HTTPError
// @Router   /api/menus [post]
func createMenuHandler(repo menu.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		var req menu.CreateMenuRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		m, err := menu.New(req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		now := clk.Now().UTC()
		m.ID = uuid.NewString()
		m.VendorID = v.ID
		m.CreatedAt, m.UpdatedAt = now, now

		if err := repo.Create(c.Request.Context(), m); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, m)
	}
}

// updateMenuHandler godoc
// @Summary  Update menu
// @Tags     menus
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                 true "Menu ID"
// @Param    body body menu.UpdateMenuRequest true "Fields to change"
// @Success  200 {object} menu.Menu
// @Failure  400 {object} httpx.HTTPError
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/menus/{id} [put]
func updateMenuHandler(repo menu.Repository, clk clock.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		var req menu.UpdateMenuRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}

		m, err := repo.GetByID(c.Request.Context(), v.ID, id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if err := req.Apply(m); err != nil {
			httpx.Fail(c, err)
			return
		}
		m.UpdatedAt = clk.Now().UTC()
		if err := repo.Update(c.Request.Context(), m); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// deleteMenuHandler godoc
// @Summary  Delete menu
// @Tags     menus
// @Security BearerAuth
// @Param    id path string true "Menu ID"
// @Success  204
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/menus/{id} [delete]
func deleteMenuHandler(repo menu.Repository) gin.HandlerFunc {
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
			c.JSON(http.StatusNotFound, httpx.HTTPError{Error: "menu not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/staff"
)

// listStaffHandler godoc
// @Summary  List delivery staff
// @Tags     delivery-staff
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} staff.Staff
// @Router   /api/delivery-staff [get]
func listStaffHandler(repo staff.Repository) gin.HandlerFunc {
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

// createStaffHandler godoc
// @Summary     Add delivery staff
// @Description The response carries the generated temporaryPassword.
// @Tags        delivery-staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body staff.CreateStaffRequest true "Staff member"
// @Success     201 {object} staff.Staff
// @Failure     400 {object} httpx.HTTPError
// @Failure     409 {object} httpx.HTTPError
// @Router      /api/delivery-staff [post]
func createStaffHandler(svc staffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		var req staff.CreateStaffRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		st, err := svc.Create(c.Request.Context(), v.ID, req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, st)
	}
}

// updateStaffHandler godoc
// @Summary     Update delivery staff
// @Description Send temporaryPassword: null to clear the generated password.
// @Tags        delivery-staff
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id   path string                   true "Staff ID"
// @Param       body body staff.UpdateStaffRequest true "Fields to change"
// @Success     200 {object} staff.Staff
// @Failure     400 {object} httpx.HTTPError
// @Failure     404 {object} httpx.HTTPError
// @Failure     409 {object} httpx.HTTPError
// @Router      /api/delivery-staff/{id} [put]
func updateStaffHandler(svc staffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		var req staff.UpdateStaffRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		st, err := svc.Update(c.Request.Context(), v.ID, id, req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// deleteStaffHandler godoc
// @Summary  Remove delivery staff
// @Tags     delivery-staff
// @Security BearerAuth
// @Param    id path string true "Staff ID"
// @Success  204
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/delivery-staff/{id} [delete]
func deleteStaffHandler(repo staff.Repository) gin.HandlerFunc {
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
			c.JSON(http.StatusNotFound, httpx.HTTPError{Error: "delivery staff not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// deliveryLoginHandler godoc
// @Summary  Delivery staff login
// @Tags     delivery
// @Accept   json
// @Produce  json
// @Param    body body staff.LoginRequest true "Phone and password"
// @Success  200 {object} staff.LoginResponse
// @Failure  400 {object} httpx.HTTPError
// @Failure  401 {object} httpx.HTTPError
// @Failure  429 {object} httpx.HTTPError
// @Router   /api/delivery/login [post]
func deliveryLoginHandler(svc staffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req staff.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		res, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// updateLocationHandler godoc
// @Summary  Report current location
// @Tags     delivery
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body staff.LocationRequest true "Position"
// @Success  200 {object} staff.Location
// @Failure  400 {object} httpx.HTTPError
// @Failure  401 {object} httpx.HTTPError
// @Router   /api/delivery/location [post]
func updateLocationHandler(svc staffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req staff.LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		st, err := svc.UpdateLocation(c.Request.Context(), httpx.StaffID(c), req)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, st.Location)
	}
}

// getStaffLocationHandler godoc
// @Summary  Last known location of a staff member
// @Tags     delivery
// @Produce  json
// @Param    id path string true "Staff ID"
// @Success  200 {object} staff.Location
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/delivery/location/{id} [get]
func getStaffLocationHandler(svc staffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.UUIDParam(c, "id")
		if !ok {
			return
		}
		loc, err := svc.Location(c.Request.Context(), id)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, loc)
	}
}

package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/vendor-dashboard/internal/httpx"
	"github.com/MikeMC777/vendor-dashboard/internal/vendor"
)

// PaymentSettingsRequest updates how customers pay the vendor.
// swagger:model PaymentSettingsRequest
type PaymentSettingsRequest struct {
	UpiID     *string `json:"upiId"     example:"meals.by.asha@okaxis"`
	QRCodeURL *string `json:"qrCodeUrl" example:"https://cdn.example.com/qr/asha.png"`
}

// getVendorHandler godoc
// @Summary     Current vendor
// @Description Returns the caller's vendor profile, creating a default one on first use.
// @Tags        vendors
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} vendor.Vendor
// @Failure     401 {object} httpx.HTTPError
// @Failure     404 {object} httpx.HTTPError
// @Router      /api/vendors/me [get]
func getVendorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// createVendorHandler godoc
// @Summary     Register vendor
// @Description Get-or-create the caller's vendor and apply any profile fields sent.
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body vendor.Profile false "Profile fields"
// @Success     201 {object} vendor.Vendor
// @Success     200 {object} vendor.Vendor
// @Failure     400 {object} httpx.HTTPError
// @Router      /api/vendors [post]
func createVendorHandler(vendors vendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		var p vendor.Profile
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&p); err != nil {
				httpx.BadRequest(c, "invalid json")
				return
			}
		}
		if !p.Empty() {
			updated, err := vendors.UpdateProfile(c.Request.Context(), v, p)
			if err != nil {
				httpx.Fail(c, err)
				return
			}
			v = updated
		}

		status := http.StatusOK
		if c.GetBool(ctxVendorCreated) {
			status = http.StatusCreated
		}
		c.JSON(status, v)
	}
}

// updateVendorHandler godoc
// @Summary     Update vendor profile
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body vendor.Profile true "Fields to change"
// @Success     200 {object} vendor.Vendor
// @Failure     400 {object} httpx.HTTPError
// @Router      /api/vendors/me [put]
func updateVendorHandler(vendors vendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		var p vendor.Profile
		if err := c.ShouldBindJSON(&p); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		updated, err := vendors.UpdateProfile(c.Request.Context(), v, p)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// updatePaymentSettingsHandler godoc
// @Summary     Update payment settings
// @Description upiId must look like name@bank.
// @Tags        vendors
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       body body PaymentSettingsRequest true "UPI id and QR code"
// @Success     200 {object} vendor.Vendor
// @Failure     400 {object} httpx.HTTPError
// @Router      /api/vendors/payment-settings [put]
func updatePaymentSettingsHandler(vendors vendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := mustVendor(c)
		if !ok {
			return
		}
		var req PaymentSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if req.UpiID != nil && !vendor.ValidUPI(*req.UpiID) {
			httpx.BadRequest(c, "invalid UPI ID format")
			return
		}
		updated, err := vendors.UpdateProfile(c.Request.Context(), v, vendor.Profile{
			UpiID:     req.UpiID,
			QRCodeURL: req.QRCodeURL,
		})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

package staff

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/MikeMC777/vendor-dashboard/internal/apperr"
)

const DefaultVehicleType = "bike"

// Location is the last position a staff member reported. All fields are nil
// until the first report.
type Location struct {
	Lat       *float64   `json:"lat"`
	Lng       *float64   `json:"lng"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type Staff struct {
	ID            string `json:"id"`
	VendorID      string `json:"vendorId"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	VehicleType   string `json:"vehicleType"`
	LicenseNumber string `json:"licenseNumber"`
	AssignedZone  string `json:"assignedZone"`
	PasswordHash  string `json:"-"`
	// TemporaryPassword is shown to the vendor until they clear it.
	TemporaryPassword *string   `json:"temporaryPassword,omitempty"`
	IsActive          bool      `json:"isActive"`
	AssignedOrders    int       `json:"assignedOrders"`
	Location          Location  `json:"location"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateStaffRequest payload of creation.
// swagger:model CreateStaffRequest
type CreateStaffRequest struct {
	Name          string `json:"name"          example:"Ravi Kumar"`
	Phone         string `json:"phone"         example:"+919812345678"`
	Email         string `json:"email"         example:"ravi@example.com"`
	Address       string `json:"address"`
	VehicleType   string `json:"vehicleType"   example:"bike"`
	LicenseNumber string `json:"licenseNumber"`
	AssignedZone  string `json:"assignedZone"  example:"Koramangala"`
	IsActive      *bool  `json:"isActive"`
}

// UpdateStaffRequest payload of partial update. temporaryPassword accepts
// only null, which clears it.
// swagger:model UpdateStaffRequest
type UpdateStaffRequest struct {
	Name              *string         `json:"name"`
	Phone             *string         `json:"phone"`
	Email             *string         `json:"email"`
	Address           *string         `json:"address"`
	VehicleType       *string         `json:"vehicleType"`
	LicenseNumber     *string         `json:"licenseNumber"`
	AssignedZone      *string         `json:"assignedZone"`
	IsActive          *bool           `json:"isActive"`
	TemporaryPassword json.RawMessage `json:"temporaryPassword" swaggertype:"string"`
}

// LoginRequest is the delivery portal login.
// swagger:model LoginRequest
type LoginRequest struct {
	Phone    string `json:"phone"    example:"+919812345678"`
	Password string `json:"password" example:"aB3dE5gH7j"`
}

// LoginResponse carries the staff token.
// swagger:model LoginResponse
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Staff     *Staff    `json:"staff"`
}

// LocationRequest is a position report from the delivery app.
// swagger:model LocationRequest
type LocationRequest struct {
	Lat *float64 `json:"lat" example:"12.9352"`
	Lng *float64 `json:"lng" example:"77.6245"`
}

func (req LocationRequest) Validate() error {
	if req.Lat == nil || req.Lng == nil {
		return apperr.Invalid("lat and lng are required")
	}
	if *req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180 {
		return apperr.Invalid("lat/lng out of range")
	}
	return nil
}

func newStaff(req CreateStaffRequest) (*Staff, error) {
	s := &Staff{
		Name:          strings.TrimSpace(req.Name),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         req.Email,
		Address:       req.Address,
		VehicleType:   req.VehicleType,
		LicenseNumber: req.LicenseNumber,
		AssignedZone:  req.AssignedZone,
		IsActive:      true,
	}
	if s.VehicleType == "" {
		s.VehicleType = DefaultVehicleType
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if s.Phone == "" {
		return nil, apperr.Invalid("phone is required")
	}
	return s, nil
}

// Apply merges req into s.
func (req UpdateStaffRequest) Apply(s *Staff) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Name, req.Name)
	set(&s.Email, req.Email)
	set(&s.Address, req.Address)
	set(&s.VehicleType, req.VehicleType)
	set(&s.LicenseNumber, req.LicenseNumber)
	set(&s.AssignedZone, req.AssignedZone)
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return apperr.Invalid("phone must not be empty")
		}
		s.Phone = phone
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if req.TemporaryPassword != nil {
		if !bytes.Equal(bytes.TrimSpace(req.TemporaryPassword), []byte("null")) {
			return apperr.Invalid("temporaryPassword can only be cleared")
		}
		s.TemporaryPassword = nil
	}
	return nil
}

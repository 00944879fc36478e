package order

// UpdateStatusRequest changes an order's status.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"preparing"`
}

// AssignRequest hands an order to a delivery staff member.
// swagger:model AssignRequest
type AssignRequest struct {
	StaffID string `json:"staffId" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

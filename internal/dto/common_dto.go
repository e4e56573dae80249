package dto

import (
	"github.com/google/uuid"

	"rtis.uz/deptrecords/internal/model"
)

type DepartmentResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PositionResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProfileShort is the author/owner snapshot embedded in work and file
// responses. ID is the linked account ID, which is what author pickers
// on the client side work with.
type ProfileShort struct {
	ID         uuid.UUID  `json:"id"`
	ProfileID  uuid.UUID  `json:"profile_id"`
	FullName   string     `json:"full_name"`
	Role       model.Role `json:"role"`
	EmployeeID string     `json:"user_id"`
}

func NewProfileShort(p *model.Profile) ProfileShort {
	short := ProfileShort{
		ID:         p.UserID,
		ProfileID:  p.ID,
		Role:       p.Role,
		EmployeeID: p.EmployeeID,
	}
	if p.User != nil {
		short.FullName = p.User.FullName()
	}
	return short
}

func NewDepartmentResponse(d *model.Department) *DepartmentResponse {
	if d == nil {
		return nil
	}
	return &DepartmentResponse{ID: d.ID, Name: d.Name}
}

package dto

import (
	"github.com/google/uuid"

	"rtis.uz/deptrecords/internal/model"
)

type ProfileNameInput struct {
	Language   model.NameLanguage `json:"language" binding:"required"`
	FirstName  string             `json:"first_name" binding:"required"`
	LastName   string             `json:"last_name" binding:"required"`
	FatherName string             `json:"father_name"`
}

type EmploymentInput struct {
	Type       model.EmploymentType `json:"employment_type" binding:"required"`
	Rate       float64              `json:"rate"`
	Department *uint                `json:"department"`
	Position   *uint                `json:"position"`
	IsActive   *bool                `json:"is_active"`
}

// UserWriteInput is the admin create/update payload. All fields are
// optional so the same shape serves partial updates; create-time
// requirements are enforced by the service. Names and employments are
// replaced wholesale when present.
type UserWriteInput struct {
	Username    *string            `json:"username"`
	Password    *string            `json:"password"`
	FirstName   *string            `json:"first_name"`
	LastName    *string            `json:"last_name"`
	Email       *string            `json:"email"`
	Role        *model.Role        `json:"role"`
	Department  *uint              `json:"department"`
	Position    *uint              `json:"position"`
	Phone       *string            `json:"phone"`
	BirthDate   *string            `json:"birth_date"` // "2006-01-02"
	Scopus      *string            `json:"scopus"`
	Scholar     *string            `json:"scholar"`
	ResearchID  *string            `json:"research_id"`
	EmployeeID  *string            `json:"user_id"`
	Names       []ProfileNameInput `json:"names"`
	Employments []EmploymentInput  `json:"employments"`
}

type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Profile   ProfileResponse `json:"profile"`
}

type UpdateProfileInput struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Scopus     *string `json:"scopus"`
	Scholar    *string `json:"scholar"`
	ResearchID *string `json:"research_id"`
	EmployeeID *string `json:"user_id"`
}

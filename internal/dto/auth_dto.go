package dto

import (
	"time"

	"github.com/google/uuid"

	"rtis.uz/deptrecords/internal/model"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    ProfileResponse `json:"user"`
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type ProfileNameResponse struct {
	Language   model.NameLanguage `json:"language"`
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	FatherName string             `json:"father_name"`
}

type EmploymentResponse struct {
	ID         uint                 `json:"id"`
	Type       model.EmploymentType `json:"employment_type"`
	Rate       float64              `json:"rate"`
	Department *DepartmentResponse  `json:"department"`
	Position   *string              `json:"position"`
	IsActive   bool                 `json:"is_active"`
}

// ProfileResponse is the profile snapshot returned by login, /auth/me
// and the user-management read endpoints. ID is the account ID.
type ProfileResponse struct {
	ID          uuid.UUID             `json:"id"`
	ProfileID   uuid.UUID             `json:"profile_id"`
	Username    string                `json:"username"`
	FirstName   string                `json:"first_name"`
	LastName    string                `json:"last_name"`
	Email       string                `json:"email"`
	Role        model.Role            `json:"role"`
	Department  *DepartmentResponse   `json:"department"`
	Position    *string               `json:"position"`
	Phone       string                `json:"phone"`
	BirthDate   *time.Time            `json:"birth_date"`
	Scopus      string                `json:"scopus"`
	Scholar     string                `json:"scholar"`
	ResearchID  string                `json:"research_id"`
	EmployeeID  string                `json:"user_id"`
	AvatarURL   *string               `json:"avatar_url"`
	Names       []ProfileNameResponse `json:"names,omitempty"`
	Employments []EmploymentResponse  `json:"employments,omitempty"`
}

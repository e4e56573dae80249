package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleHOD     Role = "HOD"
	RoleTeacher Role = "TEACHER"
)

// HasTeacherAccess reports whether the role carries teacher-level
// capability. HOD implicitly does.
func (r Role) HasTeacherAccess() bool {
	return r == RoleTeacher || r == RoleHOD
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleHOD || r == RoleTeacher
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:254" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName is "First Last", falling back to the username.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

type Profile struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User         *User       `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Role         Role        `gorm:"size:20;not null;default:TEACHER" json:"role"`
	DepartmentID *uint       `json:"department_id"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"department,omitempty"`
	PositionID   *uint       `json:"position_id"`
	Position     *Position   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"position,omitempty"`
	Phone        string      `gorm:"size:32" json:"phone"`
	BirthDate    *time.Time  `json:"birth_date,omitempty"`
	Scopus       string      `gorm:"size:255" json:"scopus"`
	Scholar      string      `gorm:"size:255" json:"scholar"`
	ResearchID   string      `gorm:"size:128" json:"research_id"`
	EmployeeID   string      `gorm:"size:64" json:"employee_id"`
	AvatarPath   *string     `gorm:"type:text" json:"avatar_path,omitempty"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	Names       []ProfileName `gorm:"constraint:OnDelete:CASCADE" json:"names,omitempty"`
	Employments []Employment  `gorm:"constraint:OnDelete:CASCADE" json:"employments,omitempty"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type NameLanguage string

const (
	NameLangUzbek         NameLanguage = "uz"
	NameLangUzbekCyrillic NameLanguage = "uzc"
	NameLangRussian       NameLanguage = "ru"
	NameLangEnglish       NameLanguage = "en"
)

// ProfileName is one localized spelling of a person's name, at most one
// per language per profile.
type ProfileName struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	ProfileID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_profile_name_lang" json:"profile_id"`
	Language   NameLanguage `gorm:"size:3;not null;uniqueIndex:idx_profile_name_lang" json:"language"`
	FirstName  string       `gorm:"size:150;not null" json:"first_name"`
	LastName   string       `gorm:"size:150;not null" json:"last_name"`
	FatherName string       `gorm:"size:150" json:"father_name"`
}

type EmploymentType string

const (
	EmploymentMain     EmploymentType = "MAIN"
	EmploymentInternal EmploymentType = "INTERNAL"
	EmploymentExternal EmploymentType = "EXTERNAL"
)

type Employment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProfileID    uuid.UUID      `gorm:"type:uuid;not null" json:"profile_id"`
	Type         EmploymentType `gorm:"size:20;not null;column:employment_type" json:"employment_type"`
	Rate         float64        `gorm:"type:decimal(5,2)" json:"rate"`
	DepartmentID *uint          `json:"department_id"`
	Department   *Department    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"department,omitempty"`
	PositionID   *uint          `json:"position_id"`
	Position     *Position      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"position,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

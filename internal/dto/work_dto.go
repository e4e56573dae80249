package dto

import (
	"mime/multipart"
	"time"

	"rtis.uz/deptrecords/internal/model"
)

// WorkInput carries the fields common to all four work kinds. Pointer
// fields distinguish "not sent" from zero values so updates only touch
// what the client provided. Authors accepts profile IDs or account IDs
// (resolved transparently); nil means untouched, empty means cleared.
type WorkInput struct {
	Title               *string             `json:"title" form:"title"`
	Year                AcademicYear        `json:"year" form:"year"`
	Language            *model.WorkLanguage `json:"language" form:"language"`
	Authors             []string            `json:"authors" form:"authors"`
	Owner               *string             `json:"owner" form:"owner"`
	Department          *uint               `json:"department" form:"department"`
	IsDepartmentVisible *bool               `json:"is_department_visible" form:"is_department_visible"`
}

type MethodicalWorkInput struct {
	WorkInput
	Type        *model.MethodicalWorkType `json:"type" form:"type"`
	Publisher   *string                   `json:"publisher" form:"publisher"`
	Description *string                   `json:"description" form:"description"`
}

type ResearchWorkInput struct {
	WorkInput
	Type  *model.ResearchWorkType `json:"type" form:"type"`
	Venue *string                 `json:"venue" form:"venue"`
	Link  *string                 `json:"link" form:"link"`
}

type CertificateInput struct {
	WorkInput
	Type        *model.CertificateType `json:"type" form:"type"`
	Publisher   *string                `json:"publisher" form:"publisher"`
	Description *string                `json:"description" form:"description"`
}

type SoftwareCertificateInput struct {
	WorkInput
	Type         *model.SoftwareCertificateType `json:"type" form:"type"`
	IssuedBy     *string                        `json:"issued_by" form:"issued_by"`
	CertNumber   *string                        `json:"cert_number" form:"cert_number"`
	ApprovalDate *string                        `json:"approval_date" form:"approval_date"` // "2006-01-02"
}

// WorkFiles holds the multipart file parts a work request may carry.
// Only methodical works use PermissionFile.
type WorkFiles struct {
	File           *multipart.FileHeader
	PermissionFile *multipart.FileHeader
}

type WorkFilter struct {
	Year     string `form:"year"`
	Language string `form:"language"`
	Type     string `form:"type"`
	Search   string `form:"search"`
}

type WorkResponse struct {
	ID                  uint               `json:"id"`
	Title               string             `json:"title"`
	Year                string             `json:"year"`
	Language            model.WorkLanguage `json:"language"`
	FileURL             *string            `json:"file_url"`
	Authors             []ProfileShort     `json:"authors"`
	Owner               ProfileShort       `json:"owner"`
	Department          *DepartmentResponse `json:"department"`
	IsDepartmentVisible bool               `json:"is_department_visible"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type MethodicalWorkResponse struct {
	WorkResponse
	Type              model.MethodicalWorkType `json:"type"`
	Publisher         string                   `json:"publisher"`
	Description       string                   `json:"description"`
	PermissionFileURL *string                  `json:"permission_file_url"`
}

type ResearchWorkResponse struct {
	WorkResponse
	Type  model.ResearchWorkType `json:"type"`
	Venue string                 `json:"venue"`
	Link  string                 `json:"link"`
}

type CertificateResponse struct {
	WorkResponse
	Type        model.CertificateType `json:"type"`
	Publisher   string                `json:"publisher"`
	Description string                `json:"description"`
}

type SoftwareCertificateResponse struct {
	WorkResponse
	Type         model.SoftwareCertificateType `json:"type"`
	IssuedBy     string                        `json:"issued_by"`
	CertNumber   string                        `json:"cert_number"`
	ApprovalDate *time.Time                    `json:"approval_date"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type WorkLanguage string

const (
	WorkLangUzbek   WorkLanguage = "UZ"
	WorkLangRussian WorkLanguage = "RU"
	WorkLangEnglish WorkLanguage = "EN"
	WorkLangOther   WorkLanguage = "OTHER"
)

func (l WorkLanguage) Valid() bool {
	switch l {
	case WorkLangUzbek, WorkLangRussian, WorkLangEnglish, WorkLangOther:
		return true
	}
	return false
}

// WorkBase carries the fields shared by all four work kinds. Year is the
// academic-year string "YYYY-YYYY" (e.g. "2024-2025").
// IsDepartmentVisible carries no gorm default tag: a default would make
// gorm drop an explicit false from the INSERT. The create path sets the
// default instead.
type WorkBase struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	Title               string       `gorm:"size:255;not null" json:"title"`
	Year                string       `gorm:"size:9;not null;index" json:"year"`
	Language            WorkLanguage `gorm:"size:16;not null;default:UZ" json:"language"`
	OwnerID             uuid.UUID    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner               *Profile     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	DepartmentID        uint         `gorm:"not null;index" json:"department_id"`
	Department          *Department  `gorm:"constraint:OnDelete:CASCADE" json:"department,omitempty"`
	IsDepartmentVisible bool         `gorm:"not null" json:"is_department_visible"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// WorkTables names the physical tables behind one work kind. The
// authorization scope builder needs them to phrase the co-author
// membership test as a subquery.
type WorkTables struct {
	Kind   string // stats/search key, e.g. "certificate"
	Join   string // join table, e.g. "certificate_authors"
	JoinFK string // work FK column inside the join table
}

var (
	MethodicalWorkTables = WorkTables{
		Kind:   "methodical",
		Join:   "methodical_work_authors",
		JoinFK: "methodical_work_id",
	}
	ResearchWorkTables = WorkTables{
		Kind:   "research",
		Join:   "research_work_authors",
		JoinFK: "research_work_id",
	}
	CertificateTables = WorkTables{
		Kind:   "certificate",
		Join:   "certificate_authors",
		JoinFK: "certificate_id",
	}
	SoftwareCertificateTables = WorkTables{
		Kind:   "software_certificate",
		Join:   "software_certificate_authors",
		JoinFK: "software_certificate_id",
	}
)

type MethodicalWorkType string

const (
	MethodicalInstruction MethodicalWorkType = "INSTRUCTION"
	MethodicalGuide       MethodicalWorkType = "GUIDE"
	MethodicalStudyGuide  MethodicalWorkType = "STUDY_GUIDE"
	MethodicalTextbook    MethodicalWorkType = "TEXTBOOK"
)

func (t MethodicalWorkType) Valid() bool {
	switch t {
	case MethodicalInstruction, MethodicalGuide, MethodicalStudyGuide, MethodicalTextbook:
		return true
	}
	return false
}

type MethodicalWork struct {
	WorkBase
	Type               MethodicalWorkType `gorm:"size:32;not null;index" json:"type"`
	Publisher          string             `gorm:"size:255" json:"publisher"`
	Description        string             `gorm:"type:text" json:"description"`
	FilePath           *string            `gorm:"type:text" json:"file_path,omitempty"`
	PermissionFilePath *string            `gorm:"type:text" json:"permission_file_path,omitempty"`
	Authors            []Profile          `gorm:"many2many:methodical_work_authors" json:"authors,omitempty"`
}

type ResearchWorkType string

const (
	ResearchLocalArticle     ResearchWorkType = "LOCAL_ARTICLE"
	ResearchForeignArticle   ResearchWorkType = "FOREIGN_ARTICLE"
	ResearchLocalThesis      ResearchWorkType = "LOCAL_THESIS"
	ResearchForeignThesis    ResearchWorkType = "FOREIGN_THESIS"
	ResearchLocalMonograph   ResearchWorkType = "LOCAL_MONOGRAPH"
	ResearchForeignMonograph ResearchWorkType = "FOREIGN_MONOGRAPH"
)

func (t ResearchWorkType) Valid() bool {
	switch t {
	case ResearchLocalArticle, ResearchForeignArticle, ResearchLocalThesis,
		ResearchForeignThesis, ResearchLocalMonograph, ResearchForeignMonograph:
		return true
	}
	return false
}

type ResearchWork struct {
	WorkBase
	Type     ResearchWorkType `gorm:"size:32;not null;index" json:"type"`
	Venue    string           `gorm:"size:255;not null" json:"venue"`
	Link     string           `gorm:"size:255" json:"link"`
	FilePath *string          `gorm:"type:text" json:"file_path,omitempty"`
	Authors  []Profile        `gorm:"many2many:research_work_authors" json:"authors,omitempty"`
}

type CertificateType string

const (
	CertificateLocal         CertificateType = "LOCAL"
	CertificateInternational CertificateType = "INTERNATIONAL"
)

func (t CertificateType) Valid() bool {
	return t == CertificateLocal || t == CertificateInternational
}

type Certificate struct {
	WorkBase
	Type        CertificateType `gorm:"size:32;not null;index" json:"type"`
	Publisher   string          `gorm:"size:255" json:"publisher"`
	Description string          `gorm:"type:text" json:"description"`
	FilePath    *string         `gorm:"type:text" json:"file_path,omitempty"`
	Authors     []Profile       `gorm:"many2many:certificate_authors" json:"authors,omitempty"`
}

type SoftwareCertificateType string

const (
	SoftwareCertDGU SoftwareCertificateType = "DGU"
	SoftwareCertBGU SoftwareCertificateType = "BGU"
)

func (t SoftwareCertificateType) Valid() bool {
	return t == SoftwareCertDGU || t == SoftwareCertBGU
}

type SoftwareCertificate struct {
	WorkBase
	Type         SoftwareCertificateType `gorm:"size:32;not null;index" json:"type"`
	IssuedBy     string                  `gorm:"size:255" json:"issued_by"`
	CertNumber   string                  `gorm:"size:255" json:"cert_number"`
	ApprovalDate *time.Time              `json:"approval_date,omitempty"`
	FilePath     *string                 `gorm:"type:text" json:"file_path,omitempty"`
	Authors      []Profile               `gorm:"many2many:software_certificate_authors" json:"authors,omitempty"`
}

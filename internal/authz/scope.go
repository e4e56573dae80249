// Package authz centralizes the role-based visibility rules that every
// resource endpoint consults. Instead of repeating a three-way role
// switch in each handler, services ask this package for a query scope
// (applied server-side, so unauthorized rows never leave the process)
// and for per-record read/write predicates.
package authz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/model"
)

// Tier is how much of the record space a profile may see.
type Tier int

const (
	TierAll Tier = iota
	TierDepartment
	TierPersonal
)

// TierFor maps a role to its visibility tier: ADMIN sees everything,
// HOD their department, TEACHER their own records.
func TierFor(p *model.Profile) Tier {
	switch p.Role {
	case model.RoleAdmin:
		return TierAll
	case model.RoleHOD:
		return TierDepartment
	default:
		return TierPersonal
	}
}

// WorkRef is the slice of a work record the predicates need. Services
// build it from a loaded record with its author set.
type WorkRef struct {
	OwnerID      uuid.UUID
	DepartmentID uint
	DeptVisible  bool
	AuthorIDs    []uuid.UUID
}

func isAuthor(ids []uuid.UUID, profileID uuid.UUID) bool {
	for _, id := range ids {
		if id == profileID {
			return true
		}
	}
	return false
}

// CanWriteWork decides create/update/delete access: ADMIN everywhere,
// HOD inside their own department, TEACHER on owned or co-authored
// records only. The visibility flag never grants write access.
func CanWriteWork(p *model.Profile, w WorkRef) bool {
	switch p.Role {
	case model.RoleAdmin:
		return true
	case model.RoleHOD:
		return p.DepartmentID != nil && *p.DepartmentID == w.DepartmentID
	case model.RoleTeacher:
		return w.OwnerID == p.ID || isAuthor(w.AuthorIDs, p.ID)
	}
	return false
}

// CanReadWork extends write access with the department-visibility
// carve-outs: HOD may read visible records outside their department,
// TEACHER visible records inside their own.
func CanReadWork(p *model.Profile, w WorkRef) bool {
	if CanWriteWork(p, w) {
		return true
	}
	switch p.Role {
	case model.RoleHOD:
		return w.DeptVisible
	case model.RoleTeacher:
		return w.DeptVisible && p.DepartmentID != nil && *p.DepartmentID == w.DepartmentID
	}
	return false
}

// WorkReadScope restricts a query over one work kind to rows the
// profile may read. The TEACHER union (owned, co-authored,
// department-visible in department) is phrased with a join-table
// subquery so rows are not duplicated.
func WorkReadScope(p *model.Profile, t model.WorkTables) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch p.Role {
		case model.RoleAdmin:
			return db
		case model.RoleHOD:
			if p.DepartmentID == nil {
				return db.Where("is_department_visible = ?", true)
			}
			return db.Where("department_id = ? OR is_department_visible = ?",
				*p.DepartmentID, true)
		case model.RoleTeacher:
			coauthored := "id IN (SELECT " + t.JoinFK + " FROM " + t.Join + " WHERE profile_id = ?)"
			if p.DepartmentID == nil {
				return db.Where("owner_id = ? OR "+coauthored, p.ID, p.ID)
			}
			return db.Where(
				"owner_id = ? OR "+coauthored+" OR (is_department_visible = ? AND department_id = ?)",
				p.ID, p.ID, true, *p.DepartmentID)
		}
		return db.Where("1 = 0")
	}
}

// PersonalScope limits a work query to records owned or co-authored by
// the profile, with no visibility carve-out. Personal statistics use it.
func PersonalScope(p *model.Profile, t model.WorkTables) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		coauthored := "id IN (SELECT " + t.JoinFK + " FROM " + t.Join + " WHERE profile_id = ?)"
		return db.Where("owner_id = ? OR "+coauthored, p.ID, p.ID)
	}
}

// DepartmentScope limits a work query to one department.
func DepartmentScope(departmentID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("department_id = ?", departmentID)
	}
}

// AllScope leaves the query unrestricted.
func AllScope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db }
}

// FileScope restricts a stored-file query. Files have no visibility
// carve-out: HOD sees every file owned in-department, TEACHER only
// their own, and ADMIN is gated by an operator toggle (default deny).
func FileScope(p *model.Profile, adminCanView bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch p.Role {
		case model.RoleAdmin:
			if adminCanView {
				return db
			}
			return db.Where("1 = 0")
		case model.RoleHOD:
			if p.DepartmentID == nil {
				return db.Where("1 = 0")
			}
			return db.Where(
				"owner_id IN (SELECT id FROM profiles WHERE department_id = ?)",
				*p.DepartmentID)
		case model.RoleTeacher:
			return db.Where("owner_id = ?", p.ID)
		}
		return db.Where("1 = 0")
	}
}

// CanAccessFile is the per-record counterpart of FileScope.
func CanAccessFile(p *model.Profile, owner *model.Profile, adminCanView bool) bool {
	switch p.Role {
	case model.RoleAdmin:
		return adminCanView
	case model.RoleHOD:
		return p.DepartmentID != nil && owner.DepartmentID != nil &&
			*p.DepartmentID == *owner.DepartmentID
	case model.RoleTeacher:
		return owner.ID == p.ID
	}
	return false
}

package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rtis.uz/deptrecords/internal/authz"
	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
)

// WorkRepository serves one of the four structurally identical work
// kinds. The type parameter picks the table; the WorkTables metadata
// tells the authorization scope how to phrase the co-author test, so
// the role-based filtering is written once for all kinds.
type WorkRepository[T any] struct {
	db     *gorm.DB
	tables model.WorkTables
}

func NewWorkRepository[T any](db *gorm.DB, tables model.WorkTables) *WorkRepository[T] {
	return &WorkRepository[T]{db: db, tables: tables}
}

func (r *WorkRepository[T]) Tables() model.WorkTables {
	return r.tables
}

func (r *WorkRepository[T]) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner.User").
		Preload("Authors.User").
		Preload("Department")
}

// List returns the records the actor may read, newest academic year
// first, with the optional year/language/type/title filters applied
// server-side.
func (r *WorkRepository[T]) List(ctx context.Context, actor *model.Profile, f dto.WorkFilter) ([]T, error) {
	q := r.preload(r.db.WithContext(ctx)).
		Scopes(authz.WorkReadScope(actor, r.tables))

	if f.Year != "" {
		q = q.Where("year = ?", f.Year)
	}
	if f.Language != "" {
		q = q.Where("language = ?", f.Language)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var items []T
	if err := q.Order("year DESC").Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Find loads one record within the actor's read scope; records outside
// it surface as not found, never as data.
func (r *WorkRepository[T]) Find(ctx context.Context, actor *model.Profile, id uint) (*T, error) {
	var item T
	if err := r.preload(r.db.WithContext(ctx)).
		Scopes(authz.WorkReadScope(actor, r.tables)).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists the record together with its author join rows; gorm
// writes both inside one transaction, so a half-created record with a
// dangling author set cannot remain.
func (r *WorkRepository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Update applies the given column changes and, when authors is non-nil,
// replaces the author set wholesale, both inside one transaction. The
// record arrives with its associations preloaded; without the Omit,
// gorm re-asserts the loaded Owner/Department FKs and silently discards
// owner_id and department_id entries from fields.
func (r *WorkRepository[T]) Update(ctx context.Context, rec *T, fields map[string]any, authors []model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(rec).Omit(clause.Associations).Updates(fields).Error; err != nil {
				return err
			}
		}

		if authors != nil {
			if err := tx.Model(rec).Association("Authors").Replace(authors); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *WorkRepository[T]) Delete(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(rec).Error
}

// Stats computes the totals and year/type/language breakdowns under the
// given scope, fresh on every call.
func (r *WorkRepository[T]) Stats(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (dto.WorkStats, error) {
	var stats dto.WorkStats

	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(scope).
		Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	groups := []struct {
		column string
		dest   *[]dto.GroupCount
	}{
		{"year", &stats.ByYear},
		{"type", &stats.ByType},
		{"language", &stats.ByLanguage},
	}

	for _, g := range groups {
		if err := r.db.WithContext(ctx).Model(new(T)).Scopes(scope).
			Select(g.column + " AS value, COUNT(*) AS total").
			Group(g.column).
			Order(g.column).
			Scan(g.dest).Error; err != nil {
			return stats, err
		}
	}

	return stats, nil
}

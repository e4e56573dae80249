package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/model"
)

// LookupRepository serves the Department and Position reference tables.
type LookupRepository interface {
	Departments(ctx context.Context) ([]model.Department, error)
	Positions(ctx context.Context) ([]model.Position, error)
	DepartmentByID(ctx context.Context, id uint) (*model.Department, error)
	PositionByID(ctx context.Context, id uint) (*model.Position, error)
	// DefaultDepartment returns the named default department, or nil when
	// it has not been seeded.
	DefaultDepartment(ctx context.Context) (*model.Department, error)
	CreateDepartment(ctx context.Context, d *model.Department) error
	CreatePosition(ctx context.Context, p *model.Position) error
}

type lookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) Departments(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	if err := r.db.WithContext(ctx).Order("name").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *lookupRepository) Positions(ctx context.Context) ([]model.Position, error) {
	var positions []model.Position
	if err := r.db.WithContext(ctx).Order("name").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *lookupRepository) DepartmentByID(ctx context.Context, id uint) (*model.Department, error) {
	var department model.Department
	if err := r.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (r *lookupRepository) PositionByID(ctx context.Context, id uint) (*model.Position, error) {
	var position model.Position
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *lookupRepository) CreateDepartment(ctx context.Context, d *model.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *lookupRepository) CreatePosition(ctx context.Context, p *model.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *lookupRepository) DefaultDepartment(ctx context.Context) (*model.Department, error) {
	var department model.Department
	err := r.db.WithContext(ctx).
		Where("name = ?", model.DefaultDepartmentName).
		First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/authz"
	"rtis.uz/deptrecords/internal/model"
)

type FileRepository interface {
	List(ctx context.Context, actor *model.Profile, adminCanView bool) ([]model.StoredFile, error)
	Find(ctx context.Context, actor *model.Profile, adminCanView bool, id uint) (*model.StoredFile, error)
	Create(ctx context.Context, f *model.StoredFile) error
	Delete(ctx context.Context, f *model.StoredFile) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) scoped(ctx context.Context, actor *model.Profile, adminCanView bool) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Owner.User").
		Preload("Owner.Department").
		Scopes(authz.FileScope(actor, adminCanView))
}

func (r *fileRepository) List(ctx context.Context, actor *model.Profile, adminCanView bool) ([]model.StoredFile, error) {
	var files []model.StoredFile
	if err := r.scoped(ctx, actor, adminCanView).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (r *fileRepository) Find(ctx context.Context, actor *model.Profile, adminCanView bool, id uint) (*model.StoredFile, error) {
	var f model.StoredFile
	if err := r.scoped(ctx, actor, adminCanView).
		Where("id = ?", id).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fileRepository) Create(ctx context.Context, f *model.StoredFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fileRepository) Delete(ctx context.Context, f *model.StoredFile) error {
	return r.db.WithContext(ctx).Delete(f).Error
}

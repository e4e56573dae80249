package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/model"
)

// reservedUsernames never appear in staff listings.
var reservedUsernames = []string{"admin", "djangoadmin"}

type UserRepository interface {
	// Create persists the account and its profile in one transaction, so
	// an account never exists without a profile.
	Create(ctx context.Context, user *model.User, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	// FindAllStaff lists accounts for author pickers and user management,
	// excluding admin accounts and reserved usernames.
	FindAllStaff(ctx context.Context) ([]*model.User, error)
	// Update saves user and profile changes together; names and
	// employments, when non-nil, are replaced wholesale inside the same
	// transaction.
	Update(ctx context.Context, user *model.User, profile *model.Profile,
		names []model.ProfileName, employments []model.Employment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

func (r *userRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Profile").
		Preload("Profile.Department").
		Preload("Profile.Position").
		Preload("Profile.Names").
		Preload("Profile.Employments").
		Preload("Profile.Employments.Department").
		Preload("Profile.Employments.Position")
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.preload(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.preload(r.db.WithContext(ctx)).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindProfileByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		Preload("Position").
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *userRepository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Department").
		Preload("Position").
		Where("user_id = ?", userID).
		First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *userRepository) FindAllStaff(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.preload(r.db.WithContext(ctx)).
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.role <> ?", model.RoleAdmin).
		Where("LOWER(users.username) NOT IN ?", reservedUsernames).
		Order("users.username").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User, profile *model.Profile,
	names []model.ProfileName, employments []model.Employment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		if profile != nil {
			if err := tx.Save(profile).Error; err != nil {
				return err
			}

			if names != nil {
				if err := replaceOwned(tx, profile.ID, &model.ProfileName{}, names); err != nil {
					return err
				}
			}
			if employments != nil {
				if err := replaceOwned(tx, profile.ID, &model.Employment{}, employments); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func replaceOwned[T any](tx *gorm.DB, profileID uuid.UUID, zero any, rows []T) error {
	if err := tx.Where("profile_id = ?", profileID).Delete(zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile model.Profile
		err := tx.Where("user_id = ?", id).First(&profile).Error
		if err == nil {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&model.ProfileName{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&model.Employment{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}

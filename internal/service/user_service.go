package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
	"rtis.uz/deptrecords/pkg/storage"
)

// UserService is the admin-facing account management surface. Every
// account carries a profile; the two are created and deleted together.
type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Create(ctx context.Context, input dto.UserWriteInput) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UserWriteInput) (*dto.UserResponse, error)
	Delete(ctx context.Context, actorUserID, id uuid.UUID) error
}

type userService struct {
	repo    repository.UserRepository
	lookups repository.LookupRepository
	files   storage.FileStorage
}

func NewUserService(repo repository.UserRepository, lookups repository.LookupRepository, files storage.FileStorage) UserService {
	return &userService{
		repo:    repo,
		lookups: lookups,
		files:   files,
	}
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindAllStaff(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user, s.files))
	}
	return responses, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, s.files)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, input dto.UserWriteInput) (*dto.UserResponse, error) {
	if input.Username == nil || strings.TrimSpace(*input.Username) == "" {
		return nil, apperror.BadRequest("username is required")
	}
	if input.Password == nil || *input.Password == "" {
		return nil, apperror.BadRequest("password is required")
	}
	if len(*input.Password) < 6 {
		return nil, apperror.BadRequest("password must be at least 6 characters")
	}

	username := strings.TrimSpace(*input.Username)
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, apperror.BadRequest("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := model.RoleTeacher
	if input.Role != nil {
		role = *input.Role
		if !role.Valid() {
			return nil, apperror.BadRequest(fmt.Sprintf("invalid role: %s", role))
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashed),
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}

	profile := &model.Profile{Role: role}
	if err := s.applyProfileInput(ctx, profile, input); err != nil {
		return nil, err
	}

	// New staff land in the default department unless one was named.
	if profile.DepartmentID == nil {
		dept, err := s.lookups.DefaultDepartment(ctx)
		if err != nil {
			return nil, err
		}
		if dept != nil {
			profile.DepartmentID = &dept.ID
		}
	}

	for _, n := range input.Names {
		profile.Names = append(profile.Names, model.ProfileName{
			Language:   n.Language,
			FirstName:  n.FirstName,
			LastName:   n.LastName,
			FatherName: n.FatherName,
		})
	}
	for _, e := range input.Employments {
		profile.Employments = append(profile.Employments, buildEmployment(e))
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	return s.Get(ctx, user.ID)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, input dto.UserWriteInput) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.Profile
	if profile == nil {
		return nil, apperror.New(http.StatusNotFound, "profile not found", apperror.ErrNotFound)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username != "" && username != user.Username {
			if _, err := s.repo.FindByUsername(ctx, username); err == nil {
				return nil, apperror.BadRequest("username already taken")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Username = username
		}
	}
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 6 {
			return nil, apperror.BadRequest("password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperror.BadRequest(fmt.Sprintf("invalid role: %s", *input.Role))
		}
		profile.Role = *input.Role
	}

	if err := s.applyProfileInput(ctx, profile, input); err != nil {
		return nil, err
	}

	var names []model.ProfileName
	if input.Names != nil {
		names = make([]model.ProfileName, 0, len(input.Names))
		for _, n := range input.Names {
			names = append(names, model.ProfileName{
				ProfileID:  profile.ID,
				Language:   n.Language,
				FirstName:  n.FirstName,
				LastName:   n.LastName,
				FatherName: n.FatherName,
			})
		}
	}

	var employments []model.Employment
	if input.Employments != nil {
		employments = make([]model.Employment, 0, len(input.Employments))
		for _, e := range input.Employments {
			employment := buildEmployment(e)
			employment.ProfileID = profile.ID
			employments = append(employments, employment)
		}
	}

	// Detach loaded associations so Save doesn't re-create the rows the
	// wholesale replacement just wrote.
	profile.Names = nil
	profile.Employments = nil
	user.Profile = nil

	if err := s.repo.Update(ctx, user, profile, names, employments); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes the account and its profile. Works the person owns or
// co-authored stay; their author entry keeps the historical record.
func (s *userService) Delete(ctx context.Context, actorUserID, id uuid.UUID) error {
	if actorUserID == id {
		return apperror.BadRequest("You cannot delete yourself.")
	}
	return s.repo.Delete(ctx, id)
}

// applyProfileInput copies the flat profile fields from the write
// payload, validating department and position references.
func (s *userService) applyProfileInput(ctx context.Context, profile *model.Profile, input dto.UserWriteInput) error {
	if input.Department != nil {
		if _, err := s.lookups.DepartmentByID(ctx, *input.Department); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.BadRequest("department not found")
			}
			return err
		}
		profile.DepartmentID = input.Department
	}
	if input.Position != nil {
		if _, err := s.lookups.PositionByID(ctx, *input.Position); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.BadRequest("position not found")
			}
			return err
		}
		profile.PositionID = input.Position
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.BirthDate != nil {
		birthDate, err := parseDate(*input.BirthDate)
		if err != nil {
			return err
		}
		profile.BirthDate = birthDate
	}
	if input.Scopus != nil {
		profile.Scopus = strings.TrimSpace(*input.Scopus)
	}
	if input.Scholar != nil {
		profile.Scholar = strings.TrimSpace(*input.Scholar)
	}
	if input.ResearchID != nil {
		profile.ResearchID = strings.TrimSpace(*input.ResearchID)
	}
	if input.EmployeeID != nil {
		profile.EmployeeID = strings.TrimSpace(*input.EmployeeID)
	}
	return nil
}

func buildEmployment(e dto.EmploymentInput) model.Employment {
	employment := model.Employment{
		Type:         e.Type,
		Rate:         e.Rate,
		DepartmentID: e.Department,
		PositionID:   e.Position,
		IsActive:     true,
	}
	if e.IsActive != nil {
		employment.IsActive = *e.IsActive
	}
	return employment
}

// parseDate accepts the "2006-01-02" date format used across the API.
// Empty input clears the field.
func parseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("invalid date format: %s", value))
	}
	return &parsed, nil
}

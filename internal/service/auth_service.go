package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/config"
	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
	"rtis.uz/deptrecords/pkg/storage"
)

// maxAvatarSize caps avatar uploads at 5 MB.
const maxAvatarSize = 5 << 20

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput, ip string) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*dto.ProfileResponse, error)
}

type authService struct {
	repo  repository.UserRepository
	files storage.FileStorage
	rdb   *redis.Client
	cfg   *config.Config
}

func NewAuthService(repo repository.UserRepository, files storage.FileStorage, rdb *redis.Client, cfg *config.Config) AuthService {
	return &authService{
		repo:  repo,
		files: files,
		rdb:   rdb,
		cfg:   cfg,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput, ip string) (*dto.AuthResponse, error) {
	allowed, err := CheckLoginRateLimit(ctx, s.rdb, input.Username, ip, s.cfg.LoginRateBurst)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.New(http.StatusTooManyRequests,
			"too many failed login attempts, try again later", apperror.ErrRateLimitExceeded)
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.failLogin(ctx, input.Username, ip)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, s.failLogin(ctx, input.Username, ip)
	}

	if err := ClearLoginRateLimit(ctx, s.rdb, input.Username, ip); err != nil {
		return nil, err
	}

	access, err := SignToken(s.cfg.JWTSecret, user.ID, TokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := SignToken(s.cfg.JWTSecret, user.ID, TokenTypeRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Access:  access,
		Refresh: refresh,
		User:    dto.NewProfileResponse(user, s.files),
	}, nil
}

func (s *authService) failLogin(ctx context.Context, username, ip string) error {
	if err := RecordLoginFailure(ctx, s.rdb, username, ip, s.cfg.LoginRateLimit); err != nil {
		return err
	}
	return apperror.New(http.StatusUnauthorized, "invalid credentials", apperror.ErrUnauthorized)
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// user is re-read so a deleted account stops refreshing immediately.
func (s *authService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error) {
	claims, err := ParseToken(s.cfg.JWTSecret, input.Refresh, TokenTypeRefresh)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, err.Error(), apperror.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "invalid token claims", apperror.ErrUnauthorized)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.New(http.StatusUnauthorized, "user not found", apperror.ErrUnauthorized)
	}

	access, err := SignToken(s.cfg.JWTSecret, user.ID, TokenTypeAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{Access: access}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProfileResponse(user, s.files)
	return &resp, nil
}

// UpdateMe lets any authenticated user touch the contact fields of
// their own profile. Role, department and position stay admin-only.
func (s *authService) UpdateMe(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile
	if profile == nil {
		return nil, apperror.New(http.StatusNotFound, "profile not found", apperror.ErrNotFound)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.BirthDate != nil {
		birthDate, err := parseDate(*input.BirthDate)
		if err != nil {
			return nil, err
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

	if err := s.repo.Update(ctx, user, profile, nil, nil); err != nil {
		return nil, err
	}

	return s.Me(ctx, userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return apperror.BadRequest("Joriy parol noto'g'ri")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	return s.repo.Update(ctx, user, nil, nil, nil)
}

// UpdateAvatar replaces the caller's avatar. Only images up to 5 MB are
// accepted; the previous file is removed from storage once the new one
// is saved.
func (s *authService) UpdateAvatar(ctx context.Context, userID uuid.UUID, file *multipart.FileHeader) (*dto.ProfileResponse, error) {
	if file == nil {
		return nil, apperror.BadRequest("avatar file is required")
	}
	if file.Size > maxAvatarSize {
		return nil, apperror.BadRequest("avatar must not exceed 5 MB")
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return nil, apperror.BadRequest("avatar must be an image")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile
	if profile == nil {
		return nil, apperror.New(http.StatusNotFound, "profile not found", apperror.ErrNotFound)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ref, err := s.files.Save(ctx, src, "avatars", file.Filename)
	if err != nil {
		return nil, err
	}

	oldRef := profile.AvatarPath
	profile.AvatarPath = &ref
	if err := s.repo.Update(ctx, user, profile, nil, nil); err != nil {
		return nil, err
	}

	if oldRef != nil && *oldRef != "" {
		if err := s.files.Delete(ctx, *oldRef); err != nil {
			log.Printf("failed to delete old avatar %s: %v", *oldRef, err)
		}
	}

	return s.Me(ctx, userID)
}

package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
)

func newAuthService(t *testing.T, db *gorm.DB) AuthService {
	t.Helper()
	return NewAuthService(
		repository.NewUserRepository(db),
		newTestStorage(t),
		nil,
		newTestConfig())
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	seedUser(t, db, "aliyev", "secret123", model.RoleTeacher, &dept.ID)
	svc := newAuthService(t, db)
	ctx := context.Background()

	res, err := svc.Login(ctx, dto.LoginInput{Username: "aliyev", Password: "secret123"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Access == "" || res.Refresh == "" {
		t.Error("tokens missing from login response")
	}
	if res.User.Username != "aliyev" {
		t.Errorf("user snapshot username = %s", res.User.Username)
	}
	if res.User.Role != model.RoleTeacher {
		t.Errorf("user snapshot role = %s", res.User.Role)
	}

	tests := []struct {
		name  string
		input dto.LoginInput
	}{
		{"wrong password", dto.LoginInput{Username: "aliyev", Password: "nope"}},
		{"unknown user", dto.LoginInput{Username: "ghost", Password: "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.input, "10.0.0.1")
			if apperror.MapErrorToStatus(err) != http.StatusUnauthorized {
				t.Errorf("expected 401, got %v", err)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUser(t, db, "aliyev", "secret123", model.RoleTeacher, nil)
	svc := newAuthService(t, db)
	cfg := newTestConfig()
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginInput{Username: "aliyev", Password: "secret123"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	res, err := svc.Refresh(ctx, dto.RefreshInput{Refresh: login.Refresh})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := ParseToken(cfg.JWTSecret, res.Access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse refreshed access token: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("subject = %s, want %s", claims.Subject, user.ID)
	}

	// An access token must not pass as a refresh token.
	if _, err := svc.Refresh(ctx, dto.RefreshInput{Refresh: login.Access}); apperror.MapErrorToStatus(err) != http.StatusUnauthorized {
		t.Errorf("access token accepted as refresh: %v", err)
	}

	// A deleted account stops refreshing.
	if err := db.Delete(&model.User{}, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := svc.Refresh(ctx, dto.RefreshInput{Refresh: login.Refresh}); apperror.MapErrorToStatus(err) != http.StatusUnauthorized {
		t.Errorf("deleted user refreshed: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUser(t, db, "aliyev", "secret123", model.RoleTeacher, nil)
	svc := newAuthService(t, db)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, dto.ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Fatalf("wrong current password: expected 400, got %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, dto.ChangePasswordInput{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(ctx, dto.LoginInput{Username: "aliyev", Password: "secret123"}, "10.0.0.1"); err == nil {
		t.Error("old password still works")
	}
	if _, err := svc.Login(ctx, dto.LoginInput{Username: "aliyev", Password: "newsecret"}, "10.0.0.1"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestUpdateAvatar(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUser(t, db, "aliyev", "secret123", model.RoleTeacher, nil)
	svc := newAuthService(t, db)
	ctx := context.Background()

	res, err := svc.UpdateAvatar(ctx, user.ID, fileHeader(t, "me.png", "image/png", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("upload avatar: %v", err)
	}
	if res.AvatarURL == nil {
		t.Fatal("avatar URL missing")
	}

	// Replacing keeps exactly one avatar.
	replaced, err := svc.UpdateAvatar(ctx, user.ID, fileHeader(t, "new.png", "image/png", []byte("other")))
	if err != nil {
		t.Fatalf("replace avatar: %v", err)
	}
	if replaced.AvatarURL == nil || *replaced.AvatarURL == *res.AvatarURL {
		t.Error("avatar not replaced")
	}

	if _, err := svc.UpdateAvatar(ctx, user.ID, fileHeader(t, "notes.pdf", "application/pdf", []byte("%PDF"))); apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("non-image avatar: expected 400, got %v", err)
	}
}

func TestUpdateMe(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUser(t, db, "aliyev", "secret123", model.RoleTeacher, nil)
	svc := newAuthService(t, db)
	ctx := context.Background()

	res, err := svc.UpdateMe(ctx, user.ID, dto.UpdateProfileInput{
		FirstName: strp("Ali"),
		Phone:     strp("+998901234567"),
		BirthDate: strp("1990-05-20"),
	})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if res.FirstName != "Ali" || res.Phone != "+998901234567" {
		t.Errorf("fields not applied: %+v", res)
	}
	if res.BirthDate == nil || !res.BirthDate.Equal(time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("birth date = %v", res.BirthDate)
	}

	if _, err := svc.UpdateMe(ctx, user.ID, dto.UpdateProfileInput{BirthDate: strp("20-05-1990")}); apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("bad date: expected 400, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "s3cret"
	userID := uuid.New()

	token, err := SignToken(secret, userID, TokenTypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseToken(secret, token, TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("subject = %s, want %s", claims.Subject, userID)
	}

	if _, err := ParseToken(secret, token, TokenTypeRefresh); err == nil {
		t.Error("access token accepted as refresh")
	}
	if _, err := ParseToken("other-secret", token, TokenTypeAccess); err == nil {
		t.Error("token accepted with wrong secret")
	}

	expired, err := SignToken(secret, userID, TokenTypeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := ParseToken(secret, expired, TokenTypeAccess); err == nil {
		t.Error("expired token accepted")
	}
}

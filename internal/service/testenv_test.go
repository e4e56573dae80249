package service

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rtis.uz/deptrecords/internal/config"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/pkg/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Department{}, &model.Position{},
		&model.Profile{}, &model.ProfileName{}, &model.Employment{},
		&model.MethodicalWork{}, &model.ResearchWork{},
		&model.Certificate{}, &model.SoftwareCertificate{},
		&model.StoredFile{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestStorage(t *testing.T) storage.FileStorage {
	t.Helper()
	fs, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	return fs
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		AccessTTL:      time.Minute,
		RefreshTTL:     time.Hour,
		LoginRateLimit: time.Minute,
		LoginRateBurst: 5,
	}
}

func seedDepartment(t *testing.T, db *gorm.DB, name string) *model.Department {
	t.Helper()
	dept := model.Department{Name: name}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}
	return &dept
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, role model.Role, deptID *uint) (*model.User, *model.Profile) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := model.User{Username: username, PasswordHash: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	profile := model.Profile{UserID: user.ID, Role: role, DepartmentID: deptID}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	profile.User = &user
	user.Profile = &profile
	return &user, &profile
}

func seedProfile(t *testing.T, db *gorm.DB, role model.Role, deptID *uint) *model.Profile {
	t.Helper()
	_, profile := seedUser(t, db, "user-"+uuid.NewString(), "secret123", role, deptID)
	return profile
}

// fileHeader builds a real multipart file part so the header can be
// opened the way gin hands it to the services.
func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	_, fh, err := req.FormFile("file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	return fh
}

func strp(s string) *string { return &s }

func uintp(v uint) *uint { return &v }

func boolp(v bool) *bool { return &v }

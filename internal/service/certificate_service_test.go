package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
)

func newCertificateService(t *testing.T, db *gorm.DB) WorkService[dto.CertificateInput, dto.CertificateResponse] {
	t.Helper()
	repo := repository.NewWorkRepository[model.Certificate](db, model.CertificateTables)
	return NewCertificateService(repo,
		repository.NewUserRepository(db),
		repository.NewLookupRepository(db),
		newTestStorage(t),
		NewSearchService(nil))
}

func TestCertificateCreateDefaults(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	teacher := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)

	res, err := svc.Create(context.Background(), teacher, dto.CertificateInput{
		WorkInput: dto.WorkInput{
			Title: strp("Python asoslari"),
			Year:  dto.AcademicYear("2024"),
		},
		Type: certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if res.Owner.ProfileID != teacher.ID {
		t.Errorf("owner = %s, want actor", res.Owner.ProfileID)
	}
	if res.Department == nil || res.Department.ID != dept.ID {
		t.Errorf("department not defaulted to actor's: %+v", res.Department)
	}
	if res.Year != "2024-2025" {
		t.Errorf("year = %s, want normalized 2024-2025", res.Year)
	}
	if res.Language != model.WorkLangUzbek {
		t.Errorf("language = %s, want default UZ", res.Language)
	}
	if !res.IsDepartmentVisible {
		t.Error("new work should default to department-visible")
	}
}

func TestCertificateCreateByAdminUsesSeededDepartment(t *testing.T) {
	db := newTestDB(t)
	def := seedDepartment(t, db, model.DefaultDepartmentName)
	seedDepartment(t, db, "Other")
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	svc := newCertificateService(t, db)

	// An admin has no department of their own, so a create without an
	// explicit department lands in the seeded default one.
	res, err := svc.Create(context.Background(), admin, dto.CertificateInput{
		WorkInput: dto.WorkInput{
			Title: strp("Kiberxavfsizlik"),
			Year:  dto.AcademicYear("2024"),
		},
		Type: certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if res.Department == nil || res.Department.ID != def.ID {
		t.Errorf("department = %+v, want the seeded default", res.Department)
	}
}

func TestCertificateCreateWithoutAnyDepartment(t *testing.T) {
	db := newTestDB(t)
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	svc := newCertificateService(t, db)

	_, err := svc.Create(context.Background(), admin, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("x"), Year: dto.AcademicYear("2024")},
		Type:      certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{})
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 with no department to fall back to, got %v", err)
	}
}

func TestCertificateCreateValidation(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	teacher := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)

	tests := []struct {
		name  string
		input dto.CertificateInput
	}{
		{"missing title", dto.CertificateInput{
			WorkInput: dto.WorkInput{Year: dto.AcademicYear("2024")},
			Type:      certTypePtr(model.CertificateLocal),
		}},
		{"missing year", dto.CertificateInput{
			WorkInput: dto.WorkInput{Title: strp("x")},
			Type:      certTypePtr(model.CertificateLocal),
		}},
		{"missing type", dto.CertificateInput{
			WorkInput: dto.WorkInput{Title: strp("x"), Year: dto.AcademicYear("2024")},
		}},
		{"bad type", dto.CertificateInput{
			WorkInput: dto.WorkInput{Title: strp("x"), Year: dto.AcademicYear("2024")},
			Type:      certTypePtr(model.CertificateType("NOPE")),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), teacher, tt.input, dto.WorkFiles{})
			if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
				t.Errorf("expected 400, got %v", err)
			}
		})
	}
}

func TestCertificateAuthorsByEitherID(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	teacher := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	colleague := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)

	tests := []struct {
		name string
		id   string
	}{
		{"profile id", colleague.ID.String()},
		{"account id", colleague.UserID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Create(context.Background(), teacher, dto.CertificateInput{
				WorkInput: dto.WorkInput{
					Title:   strp("joint cert"),
					Year:    dto.AcademicYear("2024"),
					Authors: []string{tt.id},
				},
				Type: certTypePtr(model.CertificateLocal),
			}, dto.WorkFiles{})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if len(res.Authors) != 1 || res.Authors[0].ProfileID != colleague.ID {
				t.Errorf("author not resolved: %+v", res.Authors)
			}
		})
	}
}

func TestCertificateTeacherCannotTouchForeignWork(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	bystander := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, owner, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("visible"), Year: dto.AcademicYear("2024")},
		Type:      certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The bystander can read it (same department, visible) but any
	// write must be refused.
	if _, err := svc.Get(ctx, bystander, res.ID); err != nil {
		t.Fatalf("expected read access, got %v", err)
	}

	_, err = svc.Update(ctx, bystander, res.ID, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("hijacked")},
	}, dto.WorkFiles{})
	if apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Errorf("update: expected 403, got %v", err)
	}

	if err := svc.Delete(ctx, bystander, res.ID); apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Errorf("delete: expected 403, got %v", err)
	}
}

func TestCertificateHiddenWorkIsNotFoundForOthers(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	bystander := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, owner, dto.CertificateInput{
		WorkInput: dto.WorkInput{
			Title:               strp("hidden"),
			Year:                dto.AcademicYear("2024"),
			IsDepartmentVisible: boolp(false),
		},
		Type: certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, bystander, res.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCertificateUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, owner, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("before"), Year: dto.AcademicYear("2024")},
		Type:      certTypePtr(model.CertificateLocal),
		Publisher: strp("Coursera"),
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, owner, res.ID, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("after")},
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "after" {
		t.Errorf("title = %s, want after", updated.Title)
	}
	if updated.Publisher != "Coursera" {
		t.Errorf("publisher lost on partial update: %q", updated.Publisher)
	}
	if updated.Year != "2024-2025" {
		t.Errorf("year changed on partial update: %s", updated.Year)
	}
}

func TestCertificateOwnerReassignmentIsAdminOnly(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	colleague := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	svc := newCertificateService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, owner, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("cert"), Year: dto.AcademicYear("2024")},
		Type:      certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(ctx, owner, res.ID, dto.CertificateInput{
		WorkInput: dto.WorkInput{Owner: strp(colleague.ID.String())},
	}, dto.WorkFiles{})
	if apperror.MapErrorToStatus(err) != http.StatusForbidden {
		t.Errorf("teacher reassigning owner: expected 403, got %v", err)
	}

	updated, err := svc.Update(ctx, admin, res.ID, dto.CertificateInput{
		WorkInput: dto.WorkInput{Owner: strp(colleague.ID.String())},
	}, dto.WorkFiles{})
	if err != nil {
		t.Fatalf("admin reassigning owner: %v", err)
	}
	if updated.Owner.ProfileID != colleague.ID {
		t.Errorf("owner = %s, want %s", updated.Owner.ProfileID, colleague.ID)
	}
}

func TestCertificateFileUploadAndReplace(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	svc := newCertificateService(t, db)
	ctx := context.Background()

	res, err := svc.Create(ctx, owner, dto.CertificateInput{
		WorkInput: dto.WorkInput{Title: strp("cert"), Year: dto.AcademicYear("2024")},
		Type:      certTypePtr(model.CertificateLocal),
	}, dto.WorkFiles{File: fileHeader(t, "scan.pdf", "application/pdf", []byte("first"))})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.FileURL == nil {
		t.Fatal("file URL missing after upload")
	}

	updated, err := svc.Update(ctx, owner, res.ID, dto.CertificateInput{},
		dto.WorkFiles{File: fileHeader(t, "rescan.pdf", "application/pdf", []byte("second"))})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FileURL == nil || *updated.FileURL == *res.FileURL {
		t.Errorf("file not replaced: %v -> %v", *res.FileURL, updated.FileURL)
	}
}

func certTypePtr(v model.CertificateType) *model.CertificateType { return &v }

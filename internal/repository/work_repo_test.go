package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
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

func seedProfile(t *testing.T, db *gorm.DB, role model.Role, deptID *uint) *model.Profile {
	t.Helper()
	user := model.User{Username: "user-" + uuid.NewString()}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	profile := model.Profile{UserID: user.ID, Role: role, DepartmentID: deptID}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	profile.User = &user
	return &profile
}

func seedDepartment(t *testing.T, db *gorm.DB, name string) *model.Department {
	t.Helper()
	dept := model.Department{Name: name}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("create department: %v", err)
	}
	return &dept
}

func TestWorkRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)

	repo := NewWorkRepository[model.ResearchWork](db, model.ResearchWorkTables)
	ctx := context.Background()

	works := []model.ResearchWork{
		{WorkBase: model.WorkBase{Title: "Neural networks survey", Year: "2024-2025",
			Language: model.WorkLangEnglish, OwnerID: owner.ID, DepartmentID: dept.ID, IsDepartmentVisible: true},
			Type: model.ResearchForeignArticle, Venue: "IEEE Access"},
		{WorkBase: model.WorkBase{Title: "Robot kinematikasi", Year: "2023-2024",
			Language: model.WorkLangUzbek, OwnerID: owner.ID, DepartmentID: dept.ID, IsDepartmentVisible: true},
			Type: model.ResearchLocalArticle, Venue: "TUIT axborotnomasi"},
	}
	for i := range works {
		if err := repo.Create(ctx, &works[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter dto.WorkFilter
		want   int
	}{
		{"no filter", dto.WorkFilter{}, 2},
		{"by year", dto.WorkFilter{Year: "2024-2025"}, 1},
		{"by language", dto.WorkFilter{Language: "UZ"}, 1},
		{"by type", dto.WorkFilter{Type: "FOREIGN_ARTICLE"}, 1},
		{"title search case-insensitive", dto.WorkFilter{Search: "neural"}, 1},
		{"title search no match", dto.WorkFilter{Search: "chemistry"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, admin, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("got %d items, want %d", len(items), tt.want)
			}
		})
	}
}

func TestWorkRepositoryListOrder(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)

	repo := NewWorkRepository[model.Certificate](db, model.CertificateTables)
	ctx := context.Background()

	for _, year := range []string{"2022-2023", "2024-2025", "2023-2024"} {
		cert := model.Certificate{
			WorkBase: model.WorkBase{Title: "cert " + year, Year: year,
				Language: model.WorkLangUzbek, OwnerID: owner.ID, DepartmentID: dept.ID},
			Type: model.CertificateLocal,
		}
		if err := repo.Create(ctx, &cert); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	items, err := repo.List(ctx, admin, dto.WorkFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"2024-2025", "2023-2024", "2022-2023"}
	for i, item := range items {
		if item.Year != want[i] {
			t.Errorf("position %d: year = %s, want %s", i, item.Year, want[i])
		}
	}
}

func TestWorkRepositoryUpdateReplacesAuthors(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	first := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	second := seedProfile(t, db, model.RoleTeacher, &dept.ID)

	repo := NewWorkRepository[model.Certificate](db, model.CertificateTables)
	ctx := context.Background()

	cert := model.Certificate{
		WorkBase: model.WorkBase{Title: "cert", Year: "2024-2025",
			Language: model.WorkLangUzbek, OwnerID: owner.ID, DepartmentID: dept.ID},
		Type:    model.CertificateLocal,
		Authors: []model.Profile{*first},
	}
	if err := repo.Create(ctx, &cert); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Update(ctx, &cert, map[string]any{"title": "renamed"}, []model.Profile{*second}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Find(ctx, admin, cert.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("title = %s, want renamed", got.Title)
	}
	if len(got.Authors) != 1 || got.Authors[0].ID != second.ID {
		t.Errorf("authors not replaced: %+v", got.Authors)
	}
}

func TestWorkRepositoryUpdateReassignsOwner(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	colleague := seedProfile(t, db, model.RoleTeacher, &dept.ID)

	repo := NewWorkRepository[model.Certificate](db, model.CertificateTables)
	ctx := context.Background()

	cert := model.Certificate{
		WorkBase: model.WorkBase{Title: "cert", Year: "2024-2025",
			Language: model.WorkLangUzbek, OwnerID: owner.ID, DepartmentID: dept.ID},
		Type: model.CertificateLocal,
	}
	if err := repo.Create(ctx, &cert); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Reassign on a record that arrives with its Owner association
	// preloaded, the way the service layer hands it to Update.
	loaded, err := repo.Find(ctx, admin, cert.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := repo.Update(ctx, loaded, map[string]any{"owner_id": colleague.ID}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Find(ctx, admin, cert.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if got.OwnerID != colleague.ID {
		t.Errorf("owner = %s, want %s", got.OwnerID, colleague.ID)
	}
}

func TestWorkRepositoryCreatePersistsHiddenFlag(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	admin := seedProfile(t, db, model.RoleAdmin, nil)
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)

	repo := NewWorkRepository[model.Certificate](db, model.CertificateTables)
	ctx := context.Background()

	cert := model.Certificate{
		WorkBase: model.WorkBase{Title: "hidden cert", Year: "2024-2025",
			Language: model.WorkLangUzbek, OwnerID: owner.ID, DepartmentID: dept.ID,
			IsDepartmentVisible: false},
		Type: model.CertificateLocal,
	}
	if err := repo.Create(ctx, &cert); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Find(ctx, admin, cert.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.IsDepartmentVisible {
		t.Error("hidden flag did not survive the insert")
	}
}

func TestWorkRepositoryFindOutsideScope(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	other := seedDepartment(t, db, "Other")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)
	outsider := seedProfile(t, db, model.RoleTeacher, &other.ID)

	repo := NewWorkRepository[model.Certificate](db, model.CertificateTables)
	ctx := context.Background()

	cert := model.Certificate{
		WorkBase: model.WorkBase{Title: "cert", Year: "2024-2025",
			Language: model.WorkLangUzbek, OwnerID: owner.ID, DepartmentID: dept.ID, IsDepartmentVisible: true},
		Type: model.CertificateLocal,
	}
	if err := repo.Create(ctx, &cert); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Find(ctx, outsider, cert.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected record not found for outsider, got %v", err)
	}
}

func TestWorkRepositoryStats(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	owner := seedProfile(t, db, model.RoleTeacher, &dept.ID)

	repo := NewWorkRepository[model.Certificate](db, model.CertificateTables)
	ctx := context.Background()

	seed := []struct {
		year string
		lang model.WorkLanguage
		typ  model.CertificateType
	}{
		{"2024-2025", model.WorkLangUzbek, model.CertificateLocal},
		{"2024-2025", model.WorkLangEnglish, model.CertificateInternational},
		{"2023-2024", model.WorkLangUzbek, model.CertificateLocal},
	}
	for i, s := range seed {
		cert := model.Certificate{
			WorkBase: model.WorkBase{Title: "cert", Year: s.year, Language: s.lang,
				OwnerID: owner.ID, DepartmentID: dept.ID},
			Type: s.typ,
		}
		if err := repo.Create(ctx, &cert); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	stats, err := repo.Stats(ctx, func(db *gorm.DB) *gorm.DB { return db })
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("total = %d, want 3", stats.Total)
	}

	byYear := map[string]int64{}
	for _, g := range stats.ByYear {
		byYear[g.Value] = g.Total
	}
	if byYear["2024-2025"] != 2 || byYear["2023-2024"] != 1 {
		t.Errorf("by year = %v", byYear)
	}

	byType := map[string]int64{}
	for _, g := range stats.ByType {
		byType[g.Value] = g.Total
	}
	if byType["LOCAL"] != 2 || byType["INTERNATIONAL"] != 1 {
		t.Errorf("by type = %v", byType)
	}

	byLang := map[string]int64{}
	for _, g := range stats.ByLanguage {
		byLang[g.Value] = g.Total
	}
	if byLang["UZ"] != 2 || byLang["EN"] != 1 {
		t.Errorf("by language = %v", byLang)
	}
}

func TestUserRepositoryFindAllStaffExclusions(t *testing.T) {
	db := newTestDB(t)
	dept := seedDepartment(t, db, "Dept")
	repo := NewUserRepository(db)
	ctx := context.Background()

	mk := func(username string, role model.Role) {
		user := &model.User{Username: username}
		profile := &model.Profile{Role: role, DepartmentID: &dept.ID}
		if err := repo.Create(ctx, user, profile); err != nil {
			t.Fatalf("create %s: %v", username, err)
		}
	}

	mk("teacher1", model.RoleTeacher)
	mk("hod1", model.RoleHOD)
	mk("admin", model.RoleAdmin)
	mk("djangoadmin", model.RoleTeacher)
	mk("superuser", model.RoleAdmin)

	staff, err := repo.FindAllStaff(ctx)
	if err != nil {
		t.Fatalf("FindAllStaff: %v", err)
	}

	got := map[string]bool{}
	for _, u := range staff {
		got[u.Username] = true
	}
	if len(staff) != 2 || !got["teacher1"] || !got["hod1"] {
		t.Errorf("staff = %v, want exactly teacher1 and hod1", got)
	}
}

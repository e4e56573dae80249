package service

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/pkg/apperror"
)

func TestSearchFilterPerRole(t *testing.T) {
	id := uuid.New()
	self := fmt.Sprintf("owner_id = %q OR author_ids = %q", id.String(), id.String())

	tests := []struct {
		name  string
		actor *model.Profile
		want  string
	}{
		{"admin is unrestricted",
			&model.Profile{ID: id, Role: model.RoleAdmin},
			""},
		{"hod sees own department and visible",
			&model.Profile{ID: id, Role: model.RoleHOD, DepartmentID: uintp(7)},
			"department_id = 7 OR is_department_visible = true"},
		{"hod without department sees visible only",
			&model.Profile{ID: id, Role: model.RoleHOD},
			"is_department_visible = true"},
		{"teacher sees own, coauthored and visible in department",
			&model.Profile{ID: id, Role: model.RoleTeacher, DepartmentID: uintp(7)},
			self + " OR (is_department_visible = true AND department_id = 7)"},
		{"teacher without department sees own only",
			&model.Profile{ID: id, Role: model.RoleTeacher},
			self},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := searchFilter(tt.actor); got != tt.want {
				t.Errorf("filter = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchWithoutClient(t *testing.T) {
	svc := NewSearchService(nil)
	actor := &model.Profile{ID: uuid.New(), Role: model.RoleAdmin}

	_, err := svc.Search(actor, "anything")
	if apperror.MapErrorToStatus(err) != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err)
	}

	// Indexing quietly no-ops so writes keep working without search.
	if err := svc.IndexWork(WorkDoc{Kind: "certificate", RecordID: 1}); err != nil {
		t.Errorf("index: %v", err)
	}
	if err := svc.DeleteWork("certificate", 1); err != nil {
		t.Errorf("delete: %v", err)
	}
}

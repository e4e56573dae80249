package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/authz"
	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
	"rtis.uz/deptrecords/pkg/storage"
)

// Media folders per work kind.
const (
	folderMethodical            = "works/methodical"
	folderMethodicalPermissions = "works/methodical/permissions"
	folderResearch              = "works/research"
	folderCertificates          = "works/certificates"
	folderSoftwareCertificates  = "works/software-certificates"
)

// WorkService is the shared surface of the four work-kind services. The
// handlers are generic over it, so each kind only implements the
// field mapping that differs.
type WorkService[In any, Out any] interface {
	List(ctx context.Context, actor *model.Profile, f dto.WorkFilter) ([]Out, error)
	Get(ctx context.Context, actor *model.Profile, id uint) (*Out, error)
	Create(ctx context.Context, actor *model.Profile, input In, files dto.WorkFiles) (*Out, error)
	Update(ctx context.Context, actor *model.Profile, id uint, input In, files dto.WorkFiles) (*Out, error)
	Delete(ctx context.Context, actor *model.Profile, id uint) error
}

// workCore bundles the collaborators and rules common to all four work
// kinds: author resolution, base-field validation, write checks and
// file handling.
type workCore struct {
	users   repository.UserRepository
	lookups repository.LookupRepository
	files   storage.FileStorage
	search  SearchService
}

func newWorkCore(users repository.UserRepository, lookups repository.LookupRepository,
	files storage.FileStorage, search SearchService) workCore {
	return workCore{
		users:   users,
		lookups: lookups,
		files:   files,
		search:  search,
	}
}

func errForbidden() error {
	return apperror.New(http.StatusForbidden,
		"you do not have permission to perform this action", apperror.ErrForbidden)
}

// resolveProfile accepts either a profile ID or an account ID, since
// clients hold both and the distinction is easy to get wrong.
func (c *workCore) resolveProfile(ctx context.Context, raw string) (*model.Profile, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("invalid author id: %s", raw))
	}

	profile, err := c.users.FindProfileByID(ctx, id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile, err = c.users.FindProfileByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest(fmt.Sprintf("author not found: %s", raw))
		}
		return nil, err
	}
	return profile, nil
}

func (c *workCore) resolveAuthors(ctx context.Context, ids []string) ([]model.Profile, error) {
	authors := make([]model.Profile, 0, len(ids))
	for _, raw := range ids {
		profile, err := c.resolveProfile(ctx, raw)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *profile)
	}
	return authors, nil
}

// newBase validates the shared fields of a create request and fills in
// the defaults: the actor owns the record, it lands in the owner's
// department (falling back to the actor's, then to the seeded default
// department), and it is visible to the department.
func (c *workCore) newBase(ctx context.Context, actor *model.Profile, in dto.WorkInput) (model.WorkBase, error) {
	var base model.WorkBase

	if in.Title == nil || *in.Title == "" {
		return base, apperror.BadRequest("title is required")
	}
	base.Title = *in.Title

	year, err := in.Year.Normalize()
	if err != nil {
		return base, apperror.BadRequest(err.Error())
	}
	base.Year = year

	base.Language = model.WorkLangUzbek
	if in.Language != nil {
		if !in.Language.Valid() {
			return base, apperror.BadRequest(fmt.Sprintf("invalid language: %s", *in.Language))
		}
		base.Language = *in.Language
	}

	owner := actor
	if in.Owner != nil && *in.Owner != "" {
		owner, err = c.resolveProfile(ctx, *in.Owner)
		if err != nil {
			return base, err
		}
	}
	base.OwnerID = owner.ID

	switch {
	case in.Department != nil:
		if _, err := c.lookups.DepartmentByID(ctx, *in.Department); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return base, apperror.BadRequest("department not found")
			}
			return base, err
		}
		base.DepartmentID = *in.Department
	case owner.DepartmentID != nil:
		base.DepartmentID = *owner.DepartmentID
	case actor.DepartmentID != nil:
		base.DepartmentID = *actor.DepartmentID
	default:
		dept, err := c.lookups.DefaultDepartment(ctx)
		if err != nil {
			return base, err
		}
		if dept == nil {
			return base, apperror.BadRequest("department is required")
		}
		base.DepartmentID = dept.ID
	}

	base.IsDepartmentVisible = true
	if in.IsDepartmentVisible != nil {
		base.IsDepartmentVisible = *in.IsDepartmentVisible
	}

	return base, nil
}

// baseUpdates validates the shared fields of an update request and
// returns them as column changes.
func (c *workCore) baseUpdates(ctx context.Context, actor *model.Profile, in dto.WorkInput) (map[string]any, error) {
	fields := map[string]any{}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperror.BadRequest("title is required")
		}
		fields["title"] = *in.Title
	}
	if in.Year != "" {
		year, err := in.Year.Normalize()
		if err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
		fields["year"] = year
	}
	if in.Language != nil {
		if !in.Language.Valid() {
			return nil, apperror.BadRequest(fmt.Sprintf("invalid language: %s", *in.Language))
		}
		fields["language"] = *in.Language
	}
	if in.IsDepartmentVisible != nil {
		fields["is_department_visible"] = *in.IsDepartmentVisible
	}
	if in.Department != nil {
		if _, err := c.lookups.DepartmentByID(ctx, *in.Department); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.BadRequest("department not found")
			}
			return nil, err
		}
		fields["department_id"] = *in.Department
	}
	if in.Owner != nil && *in.Owner != "" {
		// Reassigning ownership is an admin operation.
		if actor.Role != model.RoleAdmin {
			return nil, errForbidden()
		}
		owner, err := c.resolveProfile(ctx, *in.Owner)
		if err != nil {
			return nil, err
		}
		fields["owner_id"] = owner.ID
	}

	return fields, nil
}

func workRef(base model.WorkBase, authors []model.Profile) authz.WorkRef {
	ref := authz.WorkRef{
		OwnerID:      base.OwnerID,
		DepartmentID: base.DepartmentID,
		DeptVisible:  base.IsDepartmentVisible,
	}
	for _, a := range authors {
		ref.AuthorIDs = append(ref.AuthorIDs, a.ID)
	}
	return ref
}

// saveWorkFile stores an uploaded file part and removes the ref it
// replaces. The old file is only deleted after the new one is safely
// written.
func (c *workCore) saveWorkFile(ctx context.Context, folder string, fh *multipart.FileHeader, old *string) (*string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ref, err := c.files.Save(ctx, src, folder, fh.Filename)
	if err != nil {
		return nil, err
	}

	if old != nil && *old != "" {
		if err := c.files.Delete(ctx, *old); err != nil {
			log.Printf("failed to delete replaced file %s: %v", *old, err)
		}
	}

	return &ref, nil
}

func (c *workCore) deleteWorkFiles(ctx context.Context, refs ...*string) {
	for _, ref := range refs {
		if ref == nil || *ref == "" {
			continue
		}
		if err := c.files.Delete(ctx, *ref); err != nil {
			log.Printf("failed to delete file %s: %v", *ref, err)
		}
	}
}

// indexWork pushes a record into the search index. Indexing failures
// are logged, not surfaced: search is an enrichment, the database is
// the source of truth.
func (c *workCore) indexWork(kind string, base model.WorkBase, authors []model.Profile) {
	doc := WorkDoc{
		Kind:                kind,
		RecordID:            base.ID,
		Title:               base.Title,
		Year:                base.Year,
		Language:            string(base.Language),
		OwnerID:             base.OwnerID.String(),
		DepartmentID:        base.DepartmentID,
		IsDepartmentVisible: base.IsDepartmentVisible,
	}
	for _, a := range authors {
		doc.AuthorIDs = append(doc.AuthorIDs, a.ID.String())
	}
	if err := c.search.IndexWork(doc); err != nil {
		log.Printf("failed to index %s work %d: %v", kind, base.ID, err)
	}
}

func (c *workCore) unindexWork(kind string, id uint) {
	if err := c.search.DeleteWork(kind, id); err != nil {
		log.Printf("failed to remove %s work %d from index: %v", kind, id, err)
	}
}

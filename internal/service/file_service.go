package service

import (
	"context"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"rtis.uz/deptrecords/internal/authz"
	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
	"rtis.uz/deptrecords/pkg/storage"
)

const folderUploads = "uploads/files"

// Both the extension and the declared MIME type must be on the
// allow-list. Neither check trusts the other: extensions are trivially
// renamed and content types trivially forged.
var allowedFileExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

var allowedFileContentTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":     true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation":   true,
	"image/png":  true,
	"image/jpeg": true,
}

// FileService is the shared document pool: teaching plans, forms and
// the like. Visibility is narrower than for works; see authz.FileScope.
type FileService interface {
	List(ctx context.Context, actor *model.Profile) ([]dto.StoredFileResponse, error)
	Get(ctx context.Context, actor *model.Profile, id uint) (*dto.StoredFileResponse, error)
	Upload(ctx context.Context, actor *model.Profile, file *multipart.FileHeader) (*dto.StoredFileResponse, error)
	Delete(ctx context.Context, actor *model.Profile, id uint) error
}

type fileService struct {
	repo         repository.FileRepository
	files        storage.FileStorage
	adminCanView bool
}

func NewFileService(repo repository.FileRepository, files storage.FileStorage, adminCanView bool) FileService {
	return &fileService{
		repo:         repo,
		files:        files,
		adminCanView: adminCanView,
	}
}

func (s *fileService) List(ctx context.Context, actor *model.Profile) ([]dto.StoredFileResponse, error) {
	files, err := s.repo.List(ctx, actor, s.adminCanView)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.StoredFileResponse, 0, len(files))
	for i := range files {
		responses = append(responses, dto.NewStoredFileResponse(&files[i], s.files))
	}
	return responses, nil
}

func (s *fileService) Get(ctx context.Context, actor *model.Profile, id uint) (*dto.StoredFileResponse, error) {
	file, err := s.repo.Find(ctx, actor, s.adminCanView, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStoredFileResponse(file, s.files)
	return &resp, nil
}

func (s *fileService) Upload(ctx context.Context, actor *model.Profile, file *multipart.FileHeader) (*dto.StoredFileResponse, error) {
	if file == nil {
		return nil, apperror.BadRequest("file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedFileExtensions[ext] {
		return nil, apperror.BadRequest("file type is not allowed")
	}
	if contentType := file.Header.Get("Content-Type"); contentType != "" && !allowedFileContentTypes[contentType] {
		return nil, apperror.BadRequest("file type is not allowed")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ref, err := s.files.Save(ctx, src, folderUploads, file.Filename)
	if err != nil {
		return nil, err
	}

	stored := model.StoredFile{
		OwnerID: actor.ID,
		Path:    ref,
		Size:    file.Size,
	}
	if err := s.repo.Create(ctx, &stored); err != nil {
		return nil, err
	}

	return s.Get(ctx, actor, stored.ID)
}

func (s *fileService) Delete(ctx context.Context, actor *model.Profile, id uint) error {
	file, err := s.repo.Find(ctx, actor, s.adminCanView, id)
	if err != nil {
		return err
	}
	if file.Owner != nil && !authz.CanAccessFile(actor, file.Owner, s.adminCanView) {
		return errForbidden()
	}

	if err := s.repo.Delete(ctx, file); err != nil {
		return err
	}

	if err := s.files.Delete(ctx, file.Path); err != nil {
		log.Printf("failed to delete file %s: %v", file.Path, err)
	}
	return nil
}

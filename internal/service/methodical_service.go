package service

import (
	"context"
	"fmt"

	"rtis.uz/deptrecords/internal/authz"
	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
	"rtis.uz/deptrecords/pkg/storage"
)

type methodicalService struct {
	workCore
	repo *repository.WorkRepository[model.MethodicalWork]
}

func NewMethodicalService(repo *repository.WorkRepository[model.MethodicalWork],
	users repository.UserRepository, lookups repository.LookupRepository,
	files storage.FileStorage, search SearchService) WorkService[dto.MethodicalWorkInput, dto.MethodicalWorkResponse] {
	return &methodicalService{
		workCore: newWorkCore(users, lookups, files, search),
		repo:     repo,
	}
}

func (s *methodicalService) response(w *model.MethodicalWork) dto.MethodicalWorkResponse {
	return dto.MethodicalWorkResponse{
		WorkResponse:      dto.NewWorkResponse(w.WorkBase, w.FilePath, w.Authors, s.files),
		Type:              w.Type,
		Publisher:         w.Publisher,
		Description:       w.Description,
		PermissionFileURL: dto.FileURL(s.files, w.PermissionFilePath),
	}
}

func (s *methodicalService) List(ctx context.Context, actor *model.Profile, f dto.WorkFilter) ([]dto.MethodicalWorkResponse, error) {
	items, err := s.repo.List(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.MethodicalWorkResponse, 0, len(items))
	for i := range items {
		responses = append(responses, s.response(&items[i]))
	}
	return responses, nil
}

func (s *methodicalService) Get(ctx context.Context, actor *model.Profile, id uint) (*dto.MethodicalWorkResponse, error) {
	item, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := s.response(item)
	return &resp, nil
}

func (s *methodicalService) Create(ctx context.Context, actor *model.Profile, input dto.MethodicalWorkInput, files dto.WorkFiles) (*dto.MethodicalWorkResponse, error) {
	base, err := s.newBase(ctx, actor, input.WorkInput)
	if err != nil {
		return nil, err
	}

	if input.Type == nil || !input.Type.Valid() {
		return nil, apperror.BadRequest("invalid methodical work type")
	}

	authors, err := s.resolveAuthors(ctx, input.Authors)
	if err != nil {
		return nil, err
	}

	if !authz.CanWriteWork(actor, workRef(base, authors)) {
		return nil, errForbidden()
	}

	work := model.MethodicalWork{
		WorkBase: base,
		Type:     *input.Type,
		Authors:  authors,
	}
	if input.Publisher != nil {
		work.Publisher = *input.Publisher
	}
	if input.Description != nil {
		work.Description = *input.Description
	}

	if files.File != nil {
		work.FilePath, err = s.saveWorkFile(ctx, folderMethodical, files.File, nil)
		if err != nil {
			return nil, err
		}
	}
	if files.PermissionFile != nil {
		work.PermissionFilePath, err = s.saveWorkFile(ctx, folderMethodicalPermissions, files.PermissionFile, nil)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, &work); err != nil {
		return nil, err
	}

	s.indexWork(s.repo.Tables().Kind, work.WorkBase, work.Authors)
	return s.Get(ctx, actor, work.ID)
}

func (s *methodicalService) Update(ctx context.Context, actor *model.Profile, id uint, input dto.MethodicalWorkInput, files dto.WorkFiles) (*dto.MethodicalWorkResponse, error) {
	work, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanWriteWork(actor, workRef(work.WorkBase, work.Authors)) {
		return nil, errForbidden()
	}

	fields, err := s.baseUpdates(ctx, actor, input.WorkInput)
	if err != nil {
		return nil, err
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, apperror.BadRequest(fmt.Sprintf("invalid methodical work type: %s", *input.Type))
		}
		fields["type"] = *input.Type
	}
	if input.Publisher != nil {
		fields["publisher"] = *input.Publisher
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if files.File != nil {
		ref, err := s.saveWorkFile(ctx, folderMethodical, files.File, work.FilePath)
		if err != nil {
			return nil, err
		}
		fields["file_path"] = *ref
	}
	if files.PermissionFile != nil {
		ref, err := s.saveWorkFile(ctx, folderMethodicalPermissions, files.PermissionFile, work.PermissionFilePath)
		if err != nil {
			return nil, err
		}
		fields["permission_file_path"] = *ref
	}

	var authors []model.Profile
	if input.Authors != nil {
		authors, err = s.resolveAuthors(ctx, input.Authors)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, work, fields, authors); err != nil {
		return nil, err
	}

	updated, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	s.indexWork(s.repo.Tables().Kind, updated.WorkBase, updated.Authors)
	resp := s.response(updated)
	return &resp, nil
}

func (s *methodicalService) Delete(ctx context.Context, actor *model.Profile, id uint) error {
	work, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authz.CanWriteWork(actor, workRef(work.WorkBase, work.Authors)) {
		return errForbidden()
	}

	if err := s.repo.Delete(ctx, work); err != nil {
		return err
	}

	s.deleteWorkFiles(ctx, work.FilePath, work.PermissionFilePath)
	s.unindexWork(s.repo.Tables().Kind, id)
	return nil
}

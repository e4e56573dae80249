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

type certificateService struct {
	workCore
	repo *repository.WorkRepository[model.Certificate]
}

func NewCertificateService(repo *repository.WorkRepository[model.Certificate],
	users repository.UserRepository, lookups repository.LookupRepository,
	files storage.FileStorage, search SearchService) WorkService[dto.CertificateInput, dto.CertificateResponse] {
	return &certificateService{
		workCore: newWorkCore(users, lookups, files, search),
		repo:     repo,
	}
}

func (s *certificateService) response(w *model.Certificate) dto.CertificateResponse {
	return dto.CertificateResponse{
		WorkResponse: dto.NewWorkResponse(w.WorkBase, w.FilePath, w.Authors, s.files),
		Type:         w.Type,
		Publisher:    w.Publisher,
		Description:  w.Description,
	}
}

func (s *certificateService) List(ctx context.Context, actor *model.Profile, f dto.WorkFilter) ([]dto.CertificateResponse, error) {
	items, err := s.repo.List(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CertificateResponse, 0, len(items))
	for i := range items {
		responses = append(responses, s.response(&items[i]))
	}
	return responses, nil
}

func (s *certificateService) Get(ctx context.Context, actor *model.Profile, id uint) (*dto.CertificateResponse, error) {
	item, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := s.response(item)
	return &resp, nil
}

func (s *certificateService) Create(ctx context.Context, actor *model.Profile, input dto.CertificateInput, files dto.WorkFiles) (*dto.CertificateResponse, error) {
	base, err := s.newBase(ctx, actor, input.WorkInput)
	if err != nil {
		return nil, err
	}

	if input.Type == nil || !input.Type.Valid() {
		return nil, apperror.BadRequest("invalid certificate type")
	}

	authors, err := s.resolveAuthors(ctx, input.Authors)
	if err != nil {
		return nil, err
	}

	if !authz.CanWriteWork(actor, workRef(base, authors)) {
		return nil, errForbidden()
	}

	cert := model.Certificate{
		WorkBase: base,
		Type:     *input.Type,
		Authors:  authors,
	}
	if input.Publisher != nil {
		cert.Publisher = *input.Publisher
	}
	if input.Description != nil {
		cert.Description = *input.Description
	}

	if files.File != nil {
		cert.FilePath, err = s.saveWorkFile(ctx, folderCertificates, files.File, nil)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, &cert); err != nil {
		return nil, err
	}

	s.indexWork(s.repo.Tables().Kind, cert.WorkBase, cert.Authors)
	return s.Get(ctx, actor, cert.ID)
}

func (s *certificateService) Update(ctx context.Context, actor *model.Profile, id uint, input dto.CertificateInput, files dto.WorkFiles) (*dto.CertificateResponse, error) {
	cert, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanWriteWork(actor, workRef(cert.WorkBase, cert.Authors)) {
		return nil, errForbidden()
	}

	fields, err := s.baseUpdates(ctx, actor, input.WorkInput)
	if err != nil {
		return nil, err
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, apperror.BadRequest(fmt.Sprintf("invalid certificate type: %s", *input.Type))
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
		ref, err := s.saveWorkFile(ctx, folderCertificates, files.File, cert.FilePath)
		if err != nil {
			return nil, err
		}
		fields["file_path"] = *ref
	}

	var authors []model.Profile
	if input.Authors != nil {
		authors, err = s.resolveAuthors(ctx, input.Authors)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, cert, fields, authors); err != nil {
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

func (s *certificateService) Delete(ctx context.Context, actor *model.Profile, id uint) error {
	cert, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return err
	}
	if !authz.CanWriteWork(actor, workRef(cert.WorkBase, cert.Authors)) {
		return errForbidden()
	}

	if err := s.repo.Delete(ctx, cert); err != nil {
		return err
	}

	s.deleteWorkFiles(ctx, cert.FilePath)
	s.unindexWork(s.repo.Tables().Kind, id)
	return nil
}

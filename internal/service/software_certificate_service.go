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

type softwareCertificateService struct {
	workCore
	repo *repository.WorkRepository[model.SoftwareCertificate]
}

func NewSoftwareCertificateService(repo *repository.WorkRepository[model.SoftwareCertificate],
	users repository.UserRepository, lookups repository.LookupRepository,
	files storage.FileStorage, search SearchService) WorkService[dto.SoftwareCertificateInput, dto.SoftwareCertificateResponse] {
	return &softwareCertificateService{
		workCore: newWorkCore(users, lookups, files, search),
		repo:     repo,
	}
}

func (s *softwareCertificateService) response(w *model.SoftwareCertificate) dto.SoftwareCertificateResponse {
	return dto.SoftwareCertificateResponse{
		WorkResponse: dto.NewWorkResponse(w.WorkBase, w.FilePath, w.Authors, s.files),
		Type:         w.Type,
		IssuedBy:     w.IssuedBy,
		CertNumber:   w.CertNumber,
		ApprovalDate: w.ApprovalDate,
	}
}

func (s *softwareCertificateService) List(ctx context.Context, actor *model.Profile, f dto.WorkFilter) ([]dto.SoftwareCertificateResponse, error) {
	items, err := s.repo.List(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SoftwareCertificateResponse, 0, len(items))
	for i := range items {
		responses = append(responses, s.response(&items[i]))
	}
	return responses, nil
}

func (s *softwareCertificateService) Get(ctx context.Context, actor *model.Profile, id uint) (*dto.SoftwareCertificateResponse, error) {
	item, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := s.response(item)
	return &resp, nil
}

func (s *softwareCertificateService) Create(ctx context.Context, actor *model.Profile, input dto.SoftwareCertificateInput, files dto.WorkFiles) (*dto.SoftwareCertificateResponse, error) {
	base, err := s.newBase(ctx, actor, input.WorkInput)
	if err != nil {
		return nil, err
	}

	if input.Type == nil || !input.Type.Valid() {
		return nil, apperror.BadRequest("invalid software certificate type")
	}

	authors, err := s.resolveAuthors(ctx, input.Authors)
	if err != nil {
		return nil, err
	}

	if !authz.CanWriteWork(actor, workRef(base, authors)) {
		return nil, errForbidden()
	}

	cert := model.SoftwareCertificate{
		WorkBase: base,
		Type:     *input.Type,
		Authors:  authors,
	}
	if input.IssuedBy != nil {
		cert.IssuedBy = *input.IssuedBy
	}
	if input.CertNumber != nil {
		cert.CertNumber = *input.CertNumber
	}
	if input.ApprovalDate != nil {
		cert.ApprovalDate, err = parseDate(*input.ApprovalDate)
		if err != nil {
			return nil, err
		}
	}

	if files.File != nil {
		cert.FilePath, err = s.saveWorkFile(ctx, folderSoftwareCertificates, files.File, nil)
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

func (s *softwareCertificateService) Update(ctx context.Context, actor *model.Profile, id uint, input dto.SoftwareCertificateInput, files dto.WorkFiles) (*dto.SoftwareCertificateResponse, error) {
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
			return nil, apperror.BadRequest(fmt.Sprintf("invalid software certificate type: %s", *input.Type))
		}
		fields["type"] = *input.Type
	}
	if input.IssuedBy != nil {
		fields["issued_by"] = *input.IssuedBy
	}
	if input.CertNumber != nil {
		fields["cert_number"] = *input.CertNumber
	}
	if input.ApprovalDate != nil {
		approvalDate, err := parseDate(*input.ApprovalDate)
		if err != nil {
			return nil, err
		}
		fields["approval_date"] = approvalDate
	}

	if files.File != nil {
		ref, err := s.saveWorkFile(ctx, folderSoftwareCertificates, files.File, cert.FilePath)
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

func (s *softwareCertificateService) Delete(ctx context.Context, actor *model.Profile, id uint) error {
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

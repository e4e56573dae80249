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

type researchService struct {
	workCore
	repo *repository.WorkRepository[model.ResearchWork]
}

func NewResearchService(repo *repository.WorkRepository[model.ResearchWork],
	users repository.UserRepository, lookups repository.LookupRepository,
	files storage.FileStorage, search SearchService) WorkService[dto.ResearchWorkInput, dto.ResearchWorkResponse] {
	return &researchService{
		workCore: newWorkCore(users, lookups, files, search),
		repo:     repo,
	}
}

func (s *researchService) response(w *model.ResearchWork) dto.ResearchWorkResponse {
	return dto.ResearchWorkResponse{
		WorkResponse: dto.NewWorkResponse(w.WorkBase, w.FilePath, w.Authors, s.files),
		Type:         w.Type,
		Venue:        w.Venue,
		Link:         w.Link,
	}
}

func (s *researchService) List(ctx context.Context, actor *model.Profile, f dto.WorkFilter) ([]dto.ResearchWorkResponse, error) {
	items, err := s.repo.List(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ResearchWorkResponse, 0, len(items))
	for i := range items {
		responses = append(responses, s.response(&items[i]))
	}
	return responses, nil
}

func (s *researchService) Get(ctx context.Context, actor *model.Profile, id uint) (*dto.ResearchWorkResponse, error) {
	item, err := s.repo.Find(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := s.response(item)
	return &resp, nil
}

func (s *researchService) Create(ctx context.Context, actor *model.Profile, input dto.ResearchWorkInput, files dto.WorkFiles) (*dto.ResearchWorkResponse, error) {
	base, err := s.newBase(ctx, actor, input.WorkInput)
	if err != nil {
		return nil, err
	}

	if input.Type == nil || !input.Type.Valid() {
		return nil, apperror.BadRequest("invalid research work type")
	}
	if input.Venue == nil || *input.Venue == "" {
		return nil, apperror.BadRequest("venue is required")
	}

	authors, err := s.resolveAuthors(ctx, input.Authors)
	if err != nil {
		return nil, err
	}

	if !authz.CanWriteWork(actor, workRef(base, authors)) {
		return nil, errForbidden()
	}

	work := model.ResearchWork{
		WorkBase: base,
		Type:     *input.Type,
		Venue:    *input.Venue,
		Authors:  authors,
	}
	if input.Link != nil {
		work.Link = *input.Link
	}

	if files.File != nil {
		work.FilePath, err = s.saveWorkFile(ctx, folderResearch, files.File, nil)
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

func (s *researchService) Update(ctx context.Context, actor *model.Profile, id uint, input dto.ResearchWorkInput, files dto.WorkFiles) (*dto.ResearchWorkResponse, error) {
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
			return nil, apperror.BadRequest(fmt.Sprintf("invalid research work type: %s", *input.Type))
		}
		fields["type"] = *input.Type
	}
	if input.Venue != nil {
		if *input.Venue == "" {
			return nil, apperror.BadRequest("venue is required")
		}
		fields["venue"] = *input.Venue
	}
	if input.Link != nil {
		fields["link"] = *input.Link
	}

	if files.File != nil {
		ref, err := s.saveWorkFile(ctx, folderResearch, files.File, work.FilePath)
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

func (s *researchService) Delete(ctx context.Context, actor *model.Profile, id uint) error {
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

	s.deleteWorkFiles(ctx, work.FilePath)
	s.unindexWork(s.repo.Tables().Kind, id)
	return nil
}

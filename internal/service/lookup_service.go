package service

import (
	"context"

	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
)

// LookupService serves the department and position pick-lists. Reads
// are open to any authenticated user; writes are admin-only and guarded
// at the route level.
type LookupService interface {
	Departments(ctx context.Context) ([]dto.DepartmentResponse, error)
	Positions(ctx context.Context) ([]dto.PositionResponse, error)
	CreateDepartment(ctx context.Context, name string) (*dto.DepartmentResponse, error)
	CreatePosition(ctx context.Context, name string) (*dto.PositionResponse, error)
}

type lookupService struct {
	repo repository.LookupRepository
}

func NewLookupService(repo repository.LookupRepository) LookupService {
	return &lookupService{repo: repo}
}

func (s *lookupService) Departments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := s.repo.Departments(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		responses = append(responses, *dto.NewDepartmentResponse(&departments[i]))
	}
	return responses, nil
}

func (s *lookupService) Positions(ctx context.Context) ([]dto.PositionResponse, error) {
	positions, err := s.repo.Positions(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.PositionResponse, 0, len(positions))
	for _, p := range positions {
		responses = append(responses, dto.PositionResponse{ID: p.ID, Name: p.Name})
	}
	return responses, nil
}

func (s *lookupService) CreateDepartment(ctx context.Context, name string) (*dto.DepartmentResponse, error) {
	if name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	dept := model.Department{Name: name}
	if err := s.repo.CreateDepartment(ctx, &dept); err != nil {
		return nil, err
	}
	return dto.NewDepartmentResponse(&dept), nil
}

func (s *lookupService) CreatePosition(ctx context.Context, name string) (*dto.PositionResponse, error) {
	if name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	position := model.Position{Name: name}
	if err := s.repo.CreatePosition(ctx, &position); err != nil {
		return nil, err
	}
	return &dto.PositionResponse{ID: position.ID, Name: position.Name}, nil
}

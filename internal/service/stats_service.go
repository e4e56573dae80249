package service

import (
	"context"

	"gorm.io/gorm"

	"rtis.uz/deptrecords/internal/authz"
	"rtis.uz/deptrecords/internal/dto"
	"rtis.uz/deptrecords/internal/model"
	"rtis.uz/deptrecords/internal/repository"
	"rtis.uz/deptrecords/pkg/apperror"
)

// StatsService aggregates across the four work kinds under three
// scopes: everything (admin), one department (HOD) and one person's
// owned or co-authored records (teacher). Counts are computed fresh per
// request; the record volume of a department does not justify a cache.
type StatsService interface {
	Admin(ctx context.Context) (*dto.StatsResponse, error)
	Department(ctx context.Context, actor *model.Profile) (*dto.StatsResponse, error)
	Personal(ctx context.Context, actor *model.Profile) (*dto.StatsResponse, error)
}

type statsService struct {
	methodical   *repository.WorkRepository[model.MethodicalWork]
	research     *repository.WorkRepository[model.ResearchWork]
	certificates *repository.WorkRepository[model.Certificate]
	software     *repository.WorkRepository[model.SoftwareCertificate]
}

func NewStatsService(
	methodical *repository.WorkRepository[model.MethodicalWork],
	research *repository.WorkRepository[model.ResearchWork],
	certificates *repository.WorkRepository[model.Certificate],
	software *repository.WorkRepository[model.SoftwareCertificate],
) StatsService {
	return &statsService{
		methodical:   methodical,
		research:     research,
		certificates: certificates,
		software:     software,
	}
}

func (s *statsService) Admin(ctx context.Context) (*dto.StatsResponse, error) {
	scope := authz.AllScope()
	return s.build(ctx, func(model.WorkTables) func(*gorm.DB) *gorm.DB {
		return scope
	})
}

func (s *statsService) Department(ctx context.Context, actor *model.Profile) (*dto.StatsResponse, error) {
	if actor.DepartmentID == nil {
		return nil, apperror.BadRequest("you are not assigned to a department")
	}
	scope := authz.DepartmentScope(*actor.DepartmentID)
	return s.build(ctx, func(model.WorkTables) func(*gorm.DB) *gorm.DB {
		return scope
	})
}

func (s *statsService) Personal(ctx context.Context, actor *model.Profile) (*dto.StatsResponse, error) {
	return s.build(ctx, func(t model.WorkTables) func(*gorm.DB) *gorm.DB {
		return authz.PersonalScope(actor, t)
	})
}

// build runs the same aggregation over each kind and keys the result
// blocks by kind name.
func (s *statsService) build(ctx context.Context, scopeFor func(model.WorkTables) func(*gorm.DB) *gorm.DB) (*dto.StatsResponse, error) {
	resp := &dto.StatsResponse{
		Totals:     map[string]int64{},
		ByYear:     map[string][]dto.GroupCount{},
		ByType:     map[string][]dto.GroupCount{},
		ByLanguage: map[string][]dto.GroupCount{},
	}

	collect := func(kind string, stats dto.WorkStats) {
		resp.Totals[kind] = stats.Total
		resp.ByYear[kind] = stats.ByYear
		resp.ByType[kind] = stats.ByType
		resp.ByLanguage[kind] = stats.ByLanguage
	}

	stats, err := s.methodical.Stats(ctx, scopeFor(s.methodical.Tables()))
	if err != nil {
		return nil, err
	}
	collect(s.methodical.Tables().Kind, stats)

	stats, err = s.research.Stats(ctx, scopeFor(s.research.Tables()))
	if err != nil {
		return nil, err
	}
	collect(s.research.Tables().Kind, stats)

	stats, err = s.certificates.Stats(ctx, scopeFor(s.certificates.Tables()))
	if err != nil {
		return nil, err
	}
	collect(s.certificates.Tables().Kind, stats)

	stats, err = s.software.Stats(ctx, scopeFor(s.software.Tables()))
	if err != nil {
		return nil, err
	}
	collect(s.software.Tables().Kind, stats)

	return resp, nil
}

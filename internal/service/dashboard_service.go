package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/dto"
	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type dashboardPaperRepository interface {
	ListByScope(ctx context.Context, scope models.Scope) ([]models.Paper, error)
}

type dashboardCollegeRepository interface {
	List(ctx context.Context) ([]models.College, error)
	FindByID(ctx context.Context, id string) (*models.College, error)
}

// DashboardService assembles chart-ready dashboard payloads. Overview
// responses are cached per scope and filter; submissions invalidate the
// whole dashboard keyspace.
type DashboardService struct {
	papers   dashboardPaperRepository
	colleges dashboardCollegeRepository
	cache    *CacheService
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(papers dashboardPaperRepository, colleges dashboardCollegeRepository, cache *CacheService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{papers: papers, colleges: colleges, cache: cache, logger: logger}
}

// Overview builds the role-scoped dashboard: totals, series, and the
// filtered paper table. Returns whether the payload came from cache.
func (s *DashboardService) Overview(ctx context.Context, scope models.Scope, criteria models.PaperCriteria) (*dto.OverviewResponse, bool, error) {
	cacheKey := overviewCacheKey(scope, criteria)

	var cached dto.OverviewResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	papers, err := s.papers.ListByScope(ctx, scope)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load papers")
	}

	filtered := FilterPapers(papers, criteria)

	resp := &dto.OverviewResponse{
		Scope: dto.ScopeInfo{College: scope.College, Category: scope.Category},
		Totals: dto.DashboardTotals{
			Papers:      len(filtered),
			Authors:     UniqueAuthorCount(filtered),
			Departments: UniqueDepartmentCount(filtered),
		},
		ByDepartment: CountByDepartment(filtered),
		ByYear:       CountByYear(filtered),
		Papers:       filtered,
	}
	if scope.IsUnrestricted() {
		colleges, err := s.colleges.List(ctx)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load colleges")
		}
		names := make([]string, 0, len(colleges))
		for _, college := range colleges {
			names = append(names, college.Name)
		}
		resp.ByCollege = CountByCollege(filtered, names)
	}

	if err := s.cache.Set(ctx, cacheKey, resp, 0); err != nil {
		s.logger.Warn("failed to cache dashboard overview", zap.Error(err))
	}

	return resp, false, nil
}

// College builds the admin drill-down for a single college.
func (s *DashboardService) College(ctx context.Context, collegeID string) (*dto.CollegeDashboardResponse, error) {
	college, err := s.colleges.FindByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}

	papers, err := s.papers.ListByScope(ctx, models.Scope{College: college.Name})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load papers")
	}

	return &dto.CollegeDashboardResponse{
		CollegeID:   college.ID,
		CollegeName: college.Name,
		Totals: dto.DashboardTotals{
			Papers:      len(papers),
			Authors:     UniqueAuthorCount(papers),
			Departments: UniqueDepartmentCount(papers),
		},
		Categories:   len(college.Categories),
		ByCategory:   CountByCategory(papers, college.Categories),
		ByDepartment: CountByDepartment(papers),
		ByType:       CountByType(papers),
		Papers:       papers,
	}, nil
}

// Category builds the admin drill-down for one category within a college.
func (s *DashboardService) Category(ctx context.Context, collegeID, category string) (*dto.CategoryDashboardResponse, error) {
	college, err := s.colleges.FindByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	if !college.HasCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("college %q has no category %q", college.Name, category))
	}

	papers, err := s.papers.ListByScope(ctx, models.Scope{College: college.Name, Category: category})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load papers")
	}

	return &dto.CategoryDashboardResponse{
		CollegeID:   college.ID,
		CollegeName: college.Name,
		Category:    category,
		Totals: dto.DashboardTotals{
			Papers:      len(papers),
			Authors:     UniqueAuthorCount(papers),
			Departments: UniqueDepartmentCount(papers),
		},
		ByDepartment: CountByDepartment(papers),
		ByYear:       CountByYear(papers),
		Papers:       papers,
	}, nil
}

func overviewCacheKey(scope models.Scope, criteria models.PaperCriteria) string {
	return fmt.Sprintf("dashboard:overview:%s:%s:%s:%s:%s",
		scope.College, scope.Category, criteria.SearchTerm, criteria.Department, criteria.Year)
}

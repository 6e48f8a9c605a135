package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type collegeRepository interface {
	List(ctx context.Context) ([]models.College, error)
	FindByID(ctx context.Context, id string) (*models.College, error)
	ListDepartments(ctx context.Context, collegeID, category string) ([]models.Department, error)
}

// CollegeService exposes the seeded college and department configuration.
type CollegeService struct {
	repo   collegeRepository
	logger *zap.Logger
}

// NewCollegeService constructs a CollegeService.
func NewCollegeService(repo collegeRepository, logger *zap.Logger) *CollegeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollegeService{repo: repo, logger: logger}
}

// List returns every college in seed order.
func (s *CollegeService) List(ctx context.Context) ([]models.College, error) {
	colleges, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list colleges")
	}
	return colleges, nil
}

// Departments returns a college's departments, optionally narrowed to one
// of its categories.
func (s *CollegeService) Departments(ctx context.Context, collegeID, category string) ([]models.Department, error) {
	college, err := s.repo.FindByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	if category != "" && !college.HasCategory(category) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "college has no such category")
	}
	departments, err := s.repo.ListDepartments(ctx, college.ID, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

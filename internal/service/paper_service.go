package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type paperRepository interface {
	ListByScope(ctx context.Context, scope models.Scope) ([]models.Paper, error)
	FindByID(ctx context.Context, id string) (*models.Paper, error)
	Create(ctx context.Context, paper *models.Paper) error
}

type collegeReader interface {
	FindByName(ctx context.Context, name string) (*models.College, error)
	DepartmentExists(ctx context.Context, college, category, department string) (bool, error)
}

type paperAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SubmitPaperRequest is the payload for submitting a publication record.
type SubmitPaperRequest struct {
	Title            string                  `json:"title" validate:"required"`
	Authors          []models.Author         `json:"authors" validate:"required,min=1,dive"`
	FacultyID        string                  `json:"faculty_id"`
	ScopusID         string                  `json:"scopus_id"`
	Category         string                  `json:"category" validate:"required"`
	Department       string                  `json:"department" validate:"required"`
	College          string                  `json:"college" validate:"required"`
	PublicationDate  time.Time               `json:"publication_date" validate:"required"`
	Journal          string                  `json:"journal"`
	Volume           string                  `json:"volume"`
	VolumeName       string                  `json:"volume_name"`
	Issue            string                  `json:"issue"`
	PageNo           string                  `json:"page_no"`
	DOI              string                  `json:"doi" validate:"required"`
	Type             models.PaperType        `json:"type" validate:"required,oneof=journal conference book"`
	HasScopus        bool                    `json:"has_scopus"`
	ClaimedBy        string                  `json:"claimed_by"`
	AuthorNo         string                  `json:"author_no"`
	IsStudentScholar bool                    `json:"is_student_scholar"`
	StudentScholars  []models.StudentScholar `json:"student_scholars"`
	Q1               string                  `json:"q1"`
	Q2               string                  `json:"q2"`
}

// PaperService handles publication listing and submission.
type PaperService struct {
	repo      paperRepository
	colleges  collegeReader
	auditor   paperAuditor
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaperService constructs a PaperService.
func NewPaperService(repo paperRepository, colleges collegeReader, auditor paperAuditor, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PaperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaperService{repo: repo, colleges: colleges, auditor: auditor, cache: cache, validator: validate, logger: logger}
}

// List returns papers visible under the scope, narrowed by the criteria
// and paginated. Filtering runs in-process over the scoped rows so every
// caller shares the same matching semantics.
func (s *PaperService) List(ctx context.Context, scope models.Scope, req models.PaperListRequest) ([]models.Paper, *models.Pagination, error) {
	papers, err := s.repo.ListByScope(ctx, scope)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list papers")
	}

	filtered := FilterPapers(papers, req.Criteria)

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(filtered)}
	return filtered[start:end], pagination, nil
}

// Get returns a single paper if it is visible under the scope.
func (s *PaperService) Get(ctx context.Context, scope models.Scope, id string) (*models.Paper, error) {
	paper, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "paper not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load paper")
	}
	if !scope.IsUnrestricted() && (paper.College != scope.College || paper.Category != scope.Category) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "paper not found")
	}
	return paper, nil
}

// Submit validates and persists a new publication record. The college,
// category, and department references are checked against the seeded
// configuration at write time so no record can be created that a scoped
// dashboard could never reach.
func (s *PaperService) Submit(ctx context.Context, scope models.Scope, req SubmitPaperRequest, actorID string, meta models.LoginRequest) (*models.Paper, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid paper payload")
	}

	if !scope.IsUnrestricted() && (req.College != scope.College || req.Category != scope.Category) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot submit outside your college and category")
	}

	college, err := s.colleges.FindByName(ctx, req.College)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown college %q", req.College))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve college")
	}
	if !college.HasCategory(req.Category) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("college %q has no category %q", req.College, req.Category))
	}
	ok, err := s.colleges.DepartmentExists(ctx, req.College, req.Category, req.Department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve department")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown department %q for %s/%s", req.Department, req.College, req.Category))
	}

	paper := &models.Paper{
		Title:            req.Title,
		Authors:          models.AuthorList(req.Authors),
		FacultyID:        req.FacultyID,
		ScopusID:         req.ScopusID,
		Category:         req.Category,
		Department:       req.Department,
		College:          req.College,
		PublicationDate:  req.PublicationDate,
		Journal:          req.Journal,
		Volume:           req.Volume,
		VolumeName:       req.VolumeName,
		Issue:            req.Issue,
		PageNo:           req.PageNo,
		DOI:              req.DOI,
		Type:             req.Type,
		HasScopus:        req.HasScopus,
		ClaimedBy:        req.ClaimedBy,
		AuthorNo:         req.AuthorNo,
		IsStudentScholar: req.IsStudentScholar,
		StudentScholars:  models.StudentScholarList(req.StudentScholars),
		Q1:               req.Q1,
		Q2:               req.Q2,
	}

	if err := s.repo.Create(ctx, paper); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create paper")
	}

	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache after submit", zap.Error(err))
		}
	}

	if s.auditor != nil {
		newPayload, _ := json.Marshal(map[string]interface{}{"id": paper.ID, "title": paper.Title, "college": paper.College})
		if err := s.auditor.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &actorID,
			Action:     models.AuditActionPaperSubmit,
			Resource:   "papers",
			ResourceID: &paper.ID,
			NewValues:  newPayload,
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record paper submit audit log", zap.Error(err))
		}
	}

	return paper, nil
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/respub-api/internal/dto"
	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type mockDashboardRepo struct {
	papers    []models.Paper
	lastScope models.Scope
	calls     int
}

func (m *mockDashboardRepo) ListByScope(ctx context.Context, scope models.Scope) ([]models.Paper, error) {
	m.lastScope = scope
	m.calls++
	if scope.IsUnrestricted() {
		return m.papers, nil
	}
	var out []models.Paper
	for _, paper := range m.papers {
		if scope.College != "" && paper.College != scope.College {
			continue
		}
		if scope.Category != "" && paper.Category != scope.Category {
			continue
		}
		out = append(out, paper)
	}
	return out, nil
}

type mockCollegeRepo struct {
	colleges []models.College
}

func (m *mockCollegeRepo) List(ctx context.Context) ([]models.College, error) {
	return m.colleges, nil
}

func (m *mockCollegeRepo) FindByID(ctx context.Context, id string) (*models.College, error) {
	for i := range m.colleges {
		if m.colleges[i].ID == id {
			return &m.colleges[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func dashboardPapers() []models.Paper {
	return []models.Paper{
		{
			ID: "p1", College: "SRM Engineering College", Category: "Engineering", Department: "CSE",
			Authors: models.AuthorList{{Name: "Alice"}}, PublicationDate: date(2023), Type: models.PaperTypeJournal,
		},
		{
			ID: "p2", College: "SRM Engineering College", Category: "Engineering", Department: "ECE",
			Authors: models.AuthorList{{Name: "Bob"}}, PublicationDate: date(2024), Type: models.PaperTypeConference,
		},
		{
			ID: "p3", College: "SRM Dental College", Category: "Dental Sciences", Department: "Orthodontics",
			Authors: models.AuthorList{{Name: "Carol"}}, PublicationDate: date(2024), Type: models.PaperTypeJournal,
		},
	}
}

func TestDashboardOverviewAdminSeesEverything(t *testing.T) {
	repo := &mockDashboardRepo{papers: dashboardPapers()}
	colleges := &mockCollegeRepo{colleges: []models.College{
		{ID: "c1", Name: "SRM Engineering College"},
		{ID: "c2", Name: "SRM Dental College"},
		{ID: "c3", Name: "SRM Law College"},
	}}
	svc := NewDashboardService(repo, colleges, nil, zap.NewNop())

	resp, cached, err := svc.Overview(context.Background(), models.Scope{}, models.PaperCriteria{})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, resp.Totals.Papers)
	assert.Equal(t, 3, resp.Totals.Authors)
	assert.Equal(t, 3, resp.Totals.Departments)
	require.Len(t, resp.ByCollege, 3)
	assert.Equal(t, dto.SeriesPoint{Name: "SRM Engineering College", Total: 2}, resp.ByCollege[0])
	assert.Equal(t, dto.SeriesPoint{Name: "SRM Dental College", Total: 1}, resp.ByCollege[1])
	assert.Equal(t, dto.SeriesPoint{Name: "SRM Law College", Total: 0}, resp.ByCollege[2])
}

func TestDashboardOverviewScopedUser(t *testing.T) {
	repo := &mockDashboardRepo{papers: dashboardPapers()}
	svc := NewDashboardService(repo, &mockCollegeRepo{}, nil, zap.NewNop())

	scope := models.Scope{College: "SRM Engineering College", Category: "Engineering"}
	resp, _, err := svc.Overview(context.Background(), scope, models.PaperCriteria{})
	require.NoError(t, err)
	assert.Equal(t, scope, repo.lastScope)
	assert.Equal(t, 2, resp.Totals.Papers)
	assert.Empty(t, resp.ByCollege)
	assert.Equal(t, "SRM Engineering College", resp.Scope.College)
}

func TestDashboardOverviewAppliesCriteria(t *testing.T) {
	repo := &mockDashboardRepo{papers: dashboardPapers()}
	svc := NewDashboardService(repo, &mockCollegeRepo{}, nil, zap.NewNop())

	resp, _, err := svc.Overview(context.Background(), models.Scope{}, models.PaperCriteria{Year: "2024"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Totals.Papers)
	require.Len(t, resp.ByYear, 1)
	assert.Equal(t, "2024", resp.ByYear[0].Name)
}

func TestDashboardCollegeDrillDown(t *testing.T) {
	colleges := &mockCollegeRepo{colleges: []models.College{
		{ID: "c1", Name: "SRM Engineering College", Categories: models.CategoryList{"Engineering", "Architecture"}},
	}}
	repo := &mockDashboardRepo{papers: dashboardPapers()}
	svc := NewDashboardService(repo, colleges, nil, zap.NewNop())

	resp, err := svc.College(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Totals.Papers)
	require.Len(t, resp.ByCategory, 2)
	assert.Equal(t, 2, resp.ByCategory[0].Total)
	assert.Equal(t, 0, resp.ByCategory[1].Total)

	_, err = svc.College(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDashboardCategoryDrillDown(t *testing.T) {
	colleges := &mockCollegeRepo{colleges: []models.College{
		{ID: "c1", Name: "SRM Engineering College", Categories: models.CategoryList{"Engineering"}},
	}}
	repo := &mockDashboardRepo{papers: dashboardPapers()}
	svc := NewDashboardService(repo, colleges, nil, zap.NewNop())

	resp, err := svc.Category(context.Background(), "c1", "Engineering")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", resp.Category)
	assert.Equal(t, 2, resp.Totals.Papers)

	_, err = svc.Category(context.Background(), "c1", "Medicine")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDashboardOverviewEmptyStore(t *testing.T) {
	svc := NewDashboardService(&mockDashboardRepo{}, &mockCollegeRepo{}, nil, zap.NewNop())

	resp, _, err := svc.Overview(context.Background(), models.Scope{}, models.PaperCriteria{})
	require.NoError(t, err)
	assert.Zero(t, resp.Totals.Papers)
	assert.Empty(t, resp.ByYear)
	assert.Empty(t, resp.Papers)
}

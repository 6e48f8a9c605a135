package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/respub-api/internal/dto"
	"github.com/noah-isme/respub-api/internal/middleware"
	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type fakeDashboardSrv struct {
	overviewResp *dto.OverviewResponse
	overviewErr  error
	overviewHit  bool
	collegeResp  *dto.CollegeDashboardResponse
	collegeErr   error
	categoryResp *dto.CategoryDashboardResponse
	categoryErr  error
	lastScope    models.Scope
	lastCriteria models.PaperCriteria
}

func (f *fakeDashboardSrv) Overview(_ context.Context, scope models.Scope, criteria models.PaperCriteria) (*dto.OverviewResponse, bool, error) {
	f.lastScope = scope
	f.lastCriteria = criteria
	return f.overviewResp, f.overviewHit, f.overviewErr
}

func (f *fakeDashboardSrv) College(context.Context, string) (*dto.CollegeDashboardResponse, error) {
	return f.collegeResp, f.collegeErr
}

func (f *fakeDashboardSrv) Category(context.Context, string, string) (*dto.CategoryDashboardResponse, error) {
	return f.categoryResp, f.categoryErr
}

func TestDashboardHandlerOverviewRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Overview(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDashboardHandlerOverviewSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{
		overviewResp: &dto.OverviewResponse{Totals: dto.DashboardTotals{Papers: 3}},
		overviewHit:  true,
	}
	handler := NewDashboardHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard?search=smith&year=2024", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "smith", service.lastCriteria.SearchTerm)
	assert.Equal(t, "2024", service.lastCriteria.Year)
	assert.True(t, service.lastScope.IsUnrestricted())

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestDashboardHandlerOverviewScopedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeDashboardSrv{overviewResp: &dto.OverviewResponse{}}
	handler := NewDashboardHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:   "u-2",
		Role:     models.RoleUser,
		College:  "Engineering",
		Category: "Science",
	})

	handler.Overview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Engineering", service.lastScope.College)
	assert.Equal(t, "Science", service.lastScope.Category)
}

func TestDashboardHandlerOverviewUnscopedUserRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-3", Role: models.RoleUser})

	handler.Overview(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerCollegeNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{collegeErr: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/colleges/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.College(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

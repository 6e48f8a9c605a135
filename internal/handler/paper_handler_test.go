package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/respub-api/internal/middleware"
	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/internal/service"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

type fakePaperSrv struct {
	papers     []models.Paper
	pagination *models.Pagination
	listErr    error
	paper      *models.Paper
	getErr     error
	submitErr  error
	lastScope  models.Scope
	lastReq    models.PaperListRequest
	lastSubmit service.SubmitPaperRequest
}

func (f *fakePaperSrv) List(_ context.Context, scope models.Scope, req models.PaperListRequest) ([]models.Paper, *models.Pagination, error) {
	f.lastScope = scope
	f.lastReq = req
	return f.papers, f.pagination, f.listErr
}

func (f *fakePaperSrv) Get(_ context.Context, scope models.Scope, _ string) (*models.Paper, error) {
	f.lastScope = scope
	return f.paper, f.getErr
}

func (f *fakePaperSrv) Submit(_ context.Context, scope models.Scope, req service.SubmitPaperRequest, _ string, _ models.LoginRequest) (*models.Paper, error) {
	f.lastScope = scope
	f.lastSubmit = req
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.Paper{ID: "paper-1", Title: req.Title}, nil
}

func TestPaperHandlerListParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakePaperSrv{pagination: &models.Pagination{Page: 2, PageSize: 10}}
	handler := NewPaperHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/papers?search=lee&department=CS&year=2023&page=2&page_size=10", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lee", service.lastReq.Criteria.SearchTerm)
	assert.Equal(t, "CS", service.lastReq.Criteria.Department)
	assert.Equal(t, "2023", service.lastReq.Criteria.Year)
	assert.Equal(t, 2, service.lastReq.Page)
	assert.Equal(t, 10, service.lastReq.PageSize)
}

func TestPaperHandlerListRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaperHandler(&fakePaperSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/papers", nil)

	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaperHandlerSubmitSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakePaperSrv{}
	handler := NewPaperHandler(service)

	payload, err := json.Marshal(map[string]interface{}{
		"title":            "Graph Sparsification",
		"authors":          []map[string]string{{"name": "Dana Lee"}},
		"category":         "Science",
		"department":       "CS",
		"college":          "Engineering",
		"publication_date": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"doi":              "10.1000/xyz",
		"type":             "journal",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/papers", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Submit(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Graph Sparsification", service.lastSubmit.Title)
}

func TestPaperHandlerSubmitMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaperHandler(&fakePaperSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/papers", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaperHandlerSubmitForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaperHandler(&fakePaperSrv{submitErr: appErrors.ErrForbidden})

	payload, _ := json.Marshal(map[string]interface{}{"title": "x"})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/papers", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: "u-2", Role: models.RoleUser, College: "Engineering", Category: "Science",
	})

	handler.Submit(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPaperHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaperHandler(&fakePaperSrv{getErr: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/papers/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin})

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

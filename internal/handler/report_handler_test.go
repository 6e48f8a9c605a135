package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
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

type fakeReportSrv struct {
	status    *service.ReportJobStatus
	createErr error
	statusErr error
	download  *service.ReportDownload
	dlErr     error
	lastScope models.Scope
	lastToken string
}

func (f *fakeReportSrv) CreateJob(_ context.Context, scope models.Scope, _ service.ReportRequest, _ string) (*service.ReportJobStatus, error) {
	f.lastScope = scope
	return f.status, f.createErr
}

func (f *fakeReportSrv) GetStatus(context.Context, string, string, models.UserRole) (*service.ReportJobStatus, error) {
	return f.status, f.statusErr
}

func (f *fakeReportSrv) ResolveDownload(_ context.Context, token string) (*service.ReportDownload, error) {
	f.lastToken = token
	return f.download, f.dlErr
}

func TestReportHandlerCreateCarriesScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeReportSrv{status: &service.ReportJobStatus{ID: "job-1", Status: models.ReportStatusQueued}}
	handler := NewReportHandler(srv)

	payload, _ := json.Marshal(map[string]string{"format": "csv", "year": "2024"})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID: "u-1", Role: models.RoleUser, College: "Engineering", Category: "Science",
	})

	handler.Create(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "Engineering", srv.lastScope.College)
	assert.Equal(t, "Science", srv.lastScope.Category)
}

func TestReportHandlerStatusForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{statusErr: appErrors.ErrForbidden})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "intruder", Role: models.RoleUser})

	handler.Status(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReportHandlerDownloadRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&fakeReportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download", nil)

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerDownloadStreamsFile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	path := filepath.Join(dir, "job-1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Title,Authors\n"), 0o644))
	file, err := os.Open(path)
	require.NoError(t, err)

	srv := &fakeReportSrv{download: &service.ReportDownload{
		File:      file,
		Filename:  "job-1.csv",
		Format:    models.ReportFormatCSV,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	handler := NewReportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/download?token=tok-1", nil)

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-1", srv.lastToken)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "job-1.csv")
	assert.Contains(t, rec.Body.String(), "Title,Authors")
}

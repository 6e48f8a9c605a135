package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/respub-api/internal/models"
)

type fakeAdvisorySrv struct {
	result    models.AdvisoryResult
	current   bool
	lastField string
	lastDOI   string
}

func (f *fakeAdvisorySrv) CheckIdentifier(_ context.Context, field, doi string) (models.AdvisoryResult, bool) {
	f.lastField = field
	f.lastDOI = doi
	return f.result, f.current
}

func advisoryBody(t *testing.T, field, doi string) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"field": field, "doi": doi})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return bytes.NewReader(payload)
}

func TestAdvisoryHandlerDuplicateVerdict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dup := true
	service := &fakeAdvisorySrv{result: models.AdvisoryResult{IsDuplicate: &dup}, current: true}
	handler := NewAdvisoryHandler(service, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/papers/doi-check", advisoryBody(t, "doi", "10.1000/xyz"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Check(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doi", service.lastField)
	assert.Equal(t, "10.1000/xyz", service.lastDOI)

	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Data["isDuplicate"])
	assert.Equal(t, false, envelope.Data["superseded"])
}

func TestAdvisoryHandlerSupersededFlagged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeAdvisorySrv{result: models.AdvisoryResult{}, current: false}
	handler := NewAdvisoryHandler(service, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/papers/doi-check", advisoryBody(t, "doi", "10.1000/old"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Check(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Data["superseded"])
}

func TestAdvisoryHandlerRequiresField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAdvisoryHandler(&fakeAdvisorySrv{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/papers/doi-check", advisoryBody(t, "", "10.1000/xyz"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Check(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisoryOutcomeClassification(t *testing.T) {
	dup := true
	clean := false

	assert.Equal(t, "skipped", advisoryOutcome(models.AdvisoryResult{}))
	assert.Equal(t, "failed", advisoryOutcome(models.AdvisoryResult{Message: "An error occurred while checking the DOI."}))
	assert.Equal(t, "duplicate", advisoryOutcome(models.AdvisoryResult{IsDuplicate: &dup}))
	assert.Equal(t, "clean", advisoryOutcome(models.AdvisoryResult{IsDuplicate: &clean}))
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/internal/service"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
	"github.com/noah-isme/respub-api/pkg/response"
)

type advisoryService interface {
	CheckIdentifier(ctx context.Context, field, doi string) (models.AdvisoryResult, bool)
}

// AdvisoryHandler serves non-binding DOI duplicate checks.
type AdvisoryHandler struct {
	service advisoryService
	metrics *service.MetricsService
}

// NewAdvisoryHandler creates a new handler.
func NewAdvisoryHandler(svc advisoryService, metrics *service.MetricsService) *AdvisoryHandler {
	return &AdvisoryHandler{service: svc, metrics: metrics}
}

type advisoryCheckRequest struct {
	Field string `json:"field" binding:"required"`
	DOI   string `json:"doi"`
}

type advisoryCheckResponse struct {
	models.AdvisoryResult
	Superseded bool `json:"superseded"`
}

// Check godoc
// @Summary DOI duplicate advisory
// @Description Check whether a DOI already exists; advisory only, never blocks submission
// @Tags Papers
// @Accept json
// @Produce json
// @Param payload body advisoryCheckRequest true "Field identifier and DOI value"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /papers/doi-check [post]
func (h *AdvisoryHandler) Check(c *gin.Context) {
	var req advisoryCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid advisory payload"))
		return
	}

	result, current := h.service.CheckIdentifier(c.Request.Context(), req.Field, req.DOI)
	if h.metrics != nil {
		h.metrics.RecordAdvisoryCheck(advisoryOutcome(result))
	}

	response.JSON(c, http.StatusOK, advisoryCheckResponse{
		AdvisoryResult: result,
		Superseded:     !current,
	}, nil)
}

func advisoryOutcome(result models.AdvisoryResult) string {
	switch {
	case result.IsDuplicate == nil && result.Message == "":
		return "skipped"
	case result.IsDuplicate == nil:
		return "failed"
	case *result.IsDuplicate:
		return "duplicate"
	default:
		return "clean"
	}
}

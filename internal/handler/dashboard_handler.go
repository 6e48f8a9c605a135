package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/respub-api/internal/dto"
	"github.com/noah-isme/respub-api/internal/middleware"
	"github.com/noah-isme/respub-api/internal/models"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
	"github.com/noah-isme/respub-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, scope models.Scope, criteria models.PaperCriteria) (*dto.OverviewResponse, bool, error)
	College(ctx context.Context, collegeID string) (*dto.CollegeDashboardResponse, error)
	Category(ctx context.Context, collegeID, category string) (*dto.CategoryDashboardResponse, error)
}

// DashboardHandler serves the role-scoped dashboard payloads.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Totals, chart series, and the filtered paper table for the caller's scope
// @Tags Dashboard
// @Produce json
// @Param search query string false "Search term (author name or Scopus ID)"
// @Param department query string false "Exact department filter"
// @Param year query string false "Publication year filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	scope, err := scopeFromClaims(claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	criteria := models.PaperCriteria{
		SearchTerm: c.Query("search"),
		Department: c.Query("department"),
		Year:       c.Query("year"),
	}

	resp, cached, err := h.service.Overview(c.Request.Context(), scope, criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// College godoc
// @Summary College drill-down
// @Description Per-college dashboard with category breakdown
// @Tags Dashboard
// @Produce json
// @Param id path string true "College ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/colleges/{id} [get]
func (h *DashboardHandler) College(c *gin.Context) {
	resp, err := h.service.College(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Category godoc
// @Summary Category drill-down
// @Description Per-category dashboard within a college
// @Tags Dashboard
// @Produce json
// @Param id path string true "College ID"
// @Param category path string true "Category name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/colleges/{id}/categories/{category} [get]
func (h *DashboardHandler) Category(c *gin.Context) {
	resp, err := h.service.Category(c.Request.Context(), c.Param("id"), c.Param("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

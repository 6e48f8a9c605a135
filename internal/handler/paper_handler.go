package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/internal/service"
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
	"github.com/noah-isme/respub-api/pkg/response"
)

type paperService interface {
	List(ctx context.Context, scope models.Scope, req models.PaperListRequest) ([]models.Paper, *models.Pagination, error)
	Get(ctx context.Context, scope models.Scope, id string) (*models.Paper, error)
	Submit(ctx context.Context, scope models.Scope, req service.SubmitPaperRequest, actorID string, meta models.LoginRequest) (*models.Paper, error)
}

// PaperHandler serves publication listing and submission endpoints.
type PaperHandler struct {
	service paperService
}

// NewPaperHandler creates a new handler.
func NewPaperHandler(svc paperService) *PaperHandler {
	return &PaperHandler{service: svc}
}

// List godoc
// @Summary List papers
// @Description Papers visible under the caller's scope, filtered and paginated
// @Tags Papers
// @Produce json
// @Param search query string false "Search term (author name or Scopus ID)"
// @Param department query string false "Exact department filter"
// @Param year query string false "Publication year filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /papers [get]
func (h *PaperHandler) List(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	papers, pagination, err := h.service.List(c.Request.Context(), scope, models.PaperListRequest{
		Criteria: models.PaperCriteria{
			SearchTerm: c.Query("search"),
			Department: c.Query("department"),
			Year:       c.Query("year"),
		},
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, papers, pagination)
}

// Get godoc
// @Summary Get a paper
// @Description A single paper if visible under the caller's scope
// @Tags Papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /papers/{id} [get]
func (h *PaperHandler) Get(c *gin.Context) {
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

	paper, err := h.service.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, paper, nil)
}

// Submit godoc
// @Summary Submit a paper
// @Description Create a publication record after referential validation
// @Tags Papers
// @Accept json
// @Produce json
// @Param payload body service.SubmitPaperRequest true "Paper payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /papers [post]
func (h *PaperHandler) Submit(c *gin.Context) {
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

	var req service.SubmitPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid paper payload"))
		return
	}

	meta := models.LoginRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	paper, err := h.service.Submit(c.Request.Context(), scope, req, claims.UserID, meta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, paper)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/pkg/response"
)

type collegeService interface {
	List(ctx context.Context) ([]models.College, error)
	Departments(ctx context.Context, collegeID, category string) ([]models.Department, error)
}

// CollegeHandler serves the reference data endpoints used by submission forms.
type CollegeHandler struct {
	service collegeService
}

// NewCollegeHandler creates a new handler.
func NewCollegeHandler(svc collegeService) *CollegeHandler {
	return &CollegeHandler{service: svc}
}

// List godoc
// @Summary List colleges
// @Description All colleges with their category lists, in display order
// @Tags Colleges
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /colleges [get]
func (h *CollegeHandler) List(c *gin.Context) {
	colleges, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, colleges, nil)
}

// Departments godoc
// @Summary List departments
// @Description Departments of a college, optionally narrowed by category
// @Tags Colleges
// @Produce json
// @Param id path string true "College ID"
// @Param category query string false "Category name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /colleges/{id}/departments [get]
func (h *CollegeHandler) Departments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context(), c.Param("id"), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

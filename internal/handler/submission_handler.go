package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codepet/classroom-sync-api/internal/models"
	"github.com/codepet/classroom-sync-api/internal/service"
	"github.com/codepet/classroom-sync-api/pkg/response"
)

// SubmissionHandler exposes versioned submission endpoints.
type SubmissionHandler struct {
	catalog *service.CatalogService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(catalog *service.CatalogService) *SubmissionHandler {
	return &SubmissionHandler{catalog: catalog}
}

// List godoc
// @Summary List submissions
// @Tags Submissions
// @Produce json
// @Param classroomId query string false "Filter by classroom"
// @Param assignmentId query string false "Filter by assignment"
// @Param studentId query string false "Filter by student"
// @Param latest query bool false "Only current versions"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	var filter models.SubmissionFilter
	filter.ClassroomID = c.Query("classroomId")
	filter.AssignmentID = c.Query("assignmentId")
	filter.StudentID = c.Query("studentId")
	filter.LatestOnly = c.DefaultQuery("latest", "true") == "true"
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	submissions, pagination, err := h.catalog.ListSubmissions(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, pagination)
}

// History godoc
// @Summary Get the full version history of one submission lineage
// @Tags Submissions
// @Produce json
// @Param lineageId path string true "Submission lineage ID"
// @Success 200 {object} response.Envelope
// @Router /submissions/{lineageId}/history [get]
func (h *SubmissionHandler) History(c *gin.Context) {
	versions, err := h.catalog.SubmissionHistory(c.Request.Context(), c.Param("lineageId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, versions, nil)
}

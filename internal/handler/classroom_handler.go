package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codepet/classroom-sync-api/internal/models"
	"github.com/codepet/classroom-sync-api/internal/service"
	"github.com/codepet/classroom-sync-api/pkg/response"
)

// ClassroomHandler exposes reconciled classroom endpoints.
type ClassroomHandler struct {
	catalog *service.CatalogService
}

// NewClassroomHandler constructs ClassroomHandler.
func NewClassroomHandler(catalog *service.CatalogService) *ClassroomHandler {
	return &ClassroomHandler{catalog: catalog}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Param teacherId query string false "Filter by teacher"
// @Param state query string false "Filter by course state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	var filter models.ClassroomFilter
	filter.TeacherID = c.Query("teacherId")
	filter.State = models.CourseState(c.Query("state"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	classrooms, pagination, err := h.catalog.ListClassrooms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classrooms, pagination)
}

// Get godoc
// @Summary Get classroom detail with assignments
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	classroom, assignments, err := h.catalog.GetClassroom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"classroom":   classroom,
		"assignments": assignments,
	}, nil)
}

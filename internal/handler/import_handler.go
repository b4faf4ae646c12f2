package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codepet/classroom-sync-api/internal/dto"
	"github.com/codepet/classroom-sync-api/internal/models"
	"github.com/codepet/classroom-sync-api/internal/service"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
	"github.com/codepet/classroom-sync-api/pkg/response"
)

// ImportHandler exposes the snapshot import endpoints.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Submit godoc
// @Summary Queue a classroom snapshot for import
// @Tags Imports
// @Accept json
// @Produce json
// @Param payload body models.ClassroomSnapshot true "Classroom snapshot"
// @Success 202 {object} response.Envelope
// @Router /imports/snapshot [post]
func (h *ImportHandler) Submit(c *gin.Context) {
	var snapshot models.ClassroomSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid snapshot payload"))
		return
	}

	run, err := h.imports.EnqueueSnapshot(c.Request.Context(), snapshot)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, dto.ImportAcceptedResponse{ImportID: run.ID, Status: run.Status})
}

// Get godoc
// @Summary Get import run status
// @Tags Imports
// @Produce json
// @Param id path string true "Import run ID"
// @Success 200 {object} response.Envelope
// @Router /imports/{id} [get]
func (h *ImportHandler) Get(c *gin.Context) {
	run, err := h.imports.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewImportRunResponse(run), nil)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codepet/classroom-sync-api/internal/service"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
	"github.com/codepet/classroom-sync-api/pkg/response"
)

// ExportHandler exposes gradebook export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Gradebook godoc
// @Summary Download the classroom gradebook
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Classroom ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /classrooms/{id}/gradebook [get]
func (h *ExportHandler) Gradebook(c *gin.Context) {
	classroomID := c.Param("id")
	format := c.DefaultQuery("format", "csv")

	var (
		raw      []byte
		filename string
		mime     string
		err      error
	)
	switch format {
	case "csv":
		raw, filename, err = h.exports.GradebookCSV(c.Request.Context(), classroomID)
		mime = "text/csv"
	case "pdf":
		raw, filename, err = h.exports.GradebookPDF(c.Request.Context(), classroomID)
		mime = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, mime, raw)
}

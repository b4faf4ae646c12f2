package dto

import "github.com/codepet/classroom-sync-api/internal/models"

// ImportAcceptedResponse acknowledges a queued snapshot import.
type ImportAcceptedResponse struct {
	ImportID string              `json:"import_id"`
	Status   models.ImportStatus `json:"status"`
}

// ImportRunResponse is the public view of one import run.
type ImportRunResponse struct {
	ID           string                `json:"id"`
	TeacherID    string                `json:"teacher_id"`
	TeacherEmail string                `json:"teacher_email"`
	Status       models.ImportStatus   `json:"status"`
	Counts       *models.MergeCounts   `json:"counts,omitempty"`
	Warnings     []models.MergeWarning `json:"warnings,omitempty"`
	Error        string                `json:"error,omitempty"`
	StartedAt    string                `json:"started_at"`
	FinishedAt   string                `json:"finished_at,omitempty"`
}

// NewImportRunResponse maps an ImportRun onto the response shape.
func NewImportRunResponse(run *models.ImportRun) ImportRunResponse {
	resp := ImportRunResponse{
		ID:           run.ID,
		TeacherID:    run.TeacherID,
		TeacherEmail: run.TeacherEmail,
		Status:       run.Status,
		Counts:       run.Counts,
		Warnings:     run.Warnings,
		Error:        run.Error,
		StartedAt:    run.StartedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if run.FinishedAt != nil {
		resp.FinishedAt = run.FinishedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

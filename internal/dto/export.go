package dto

import "github.com/aesong/academy-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Type       models.ExportType   `json:"type" validate:"required,oneof=timetable ledger"`
	CourseCode string              `json:"courseCode" validate:"required"`
	Format     models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

package repositories

import (
	"time"

	"github.com/agendadigital/forms-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	FormType  *models.FormType         `json:"form_type"`
	Status    *models.SubmissionStatus `json:"status"`
	Professor *string                  `json:"professor"`
	DateFrom  *time.Time               `json:"date_from"`
	DateTo    *time.Time               `json:"date_to"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "created_at", "form_type", "status"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}

// SubmissionCount is one dashboard aggregation bucket.
type SubmissionCount struct {
	FormType models.FormType         `json:"form_type"`
	Status   models.SubmissionStatus `json:"status"`
	Count    int64                   `json:"count"`
}

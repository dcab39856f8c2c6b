package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	service services.SubmissionService
	export  services.ExportService
}

func NewSubmissionHandler(service services.SubmissionService, export services.ExportService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		export:      export,
	}
}

// ===== SUBMISSION ENDPOINTS =====

// ListSubmissions returns a page of the delivery audit log
// @Summary List submissions
// @Description Teachers see their own submissions; coordinators and admins see all
// @Tags submissions
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param form_type query string false "Filter by form type: content, occurrence, announcement"
// @Param status query string false "Filter by status: delivered, failed"
// @Success 200 {object} services.SubmissionListResponse
// @Router /submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	h.LogRequest(c, "Listing submissions")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters, err := h.parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	listing, err := h.service.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetSubmission returns one audit record
// @Summary Get submission
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} models.Submission
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	h.LogRequest(c, "Getting submission")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	submission, err := h.service.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ExportSubmissions downloads the filtered audit log as a spreadsheet
// @Summary Export submissions
// @Tags submissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /submissions/export [get]
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	h.LogRequest(c, "Exporting submissions")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	filters, err := h.parseFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
		return
	}

	data, filename, err := h.export.ExportSubmissions(c.Request.Context(), filters, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *SubmissionHandler) parseFilters(c *gin.Context) (repositories.SubmissionFilters, error) {
	var filters repositories.SubmissionFilters

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	filters.Limit = size
	filters.Offset = (page - 1) * size

	if v := c.Query("form_type"); v != "" {
		ft := models.FormType(v)
		filters.FormType = &ft
	}
	if v := c.Query("status"); v != "" {
		st := models.SubmissionStatus(v)
		filters.Status = &st
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return filters, fmt.Errorf("invalid from date, expected RFC3339")
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return filters, fmt.Errorf("invalid to date, expected RFC3339")
	}
	filters.DateFrom = from
	filters.DateTo = to

	filters.SortBy = c.DefaultQuery("sort_by", "created_at")
	filters.SortOrder = c.DefaultQuery("sort_order", "desc")

	return filters, nil
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
	"github.com/agendadigital/forms-service/internal/validator"
	"github.com/agendadigital/forms-service/internal/webhook"
)

type FormHandler struct {
	BaseHandler
	service services.FormService
}

func NewFormHandler(service services.FormService, logger utils.Logger) *FormHandler {
	return &FormHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== FORM ENDPOINTS =====

// SubmitContent delivers a content/homework registration
// @Summary Submit content form
// @Description Validate and forward a content/homework registration to the automation webhook
// @Tags forms
// @Accept json
// @Produce json
// @Success 200 {object} services.SubmitResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 502 {object} ErrorResponse "Delivery failed"
// @Router /forms/content [post]
func (h *FormHandler) SubmitContent(c *gin.Context) {
	h.LogRequest(c, "Submitting content form")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req validator.ContentSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.SubmitContent(c.Request.Context(), &req, userID)
	h.respondSubmit(c, resp, err)
}

// SubmitOccurrence delivers an individual student occurrence
// @Summary Submit occurrence form
// @Description Validate, verify the selected student against the directory, and forward the occurrence
// @Tags forms
// @Accept json
// @Produce json
// @Success 200 {object} services.SubmitResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 422 {object} ErrorResponse "No student selected"
// @Failure 502 {object} ErrorResponse "Delivery failed"
// @Router /forms/occurrence [post]
func (h *FormHandler) SubmitOccurrence(c *gin.Context) {
	h.LogRequest(c, "Submitting occurrence form")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req validator.OccurrenceSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.SubmitOccurrence(c.Request.Context(), &req, userID)
	h.respondSubmit(c, resp, err)
}

// SubmitAnnouncement delivers a class or school-wide announcement
// @Summary Submit announcement form
// @Description Validate and forward an announcement to the automation webhook
// @Tags forms
// @Accept json
// @Produce json
// @Success 200 {object} services.SubmitResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 502 {object} ErrorResponse "Delivery failed"
// @Router /forms/announcement [post]
func (h *FormHandler) SubmitAnnouncement(c *gin.Context) {
	h.LogRequest(c, "Submitting announcement form")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req validator.AnnouncementSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.service.SubmitAnnouncement(c.Request.Context(), &req, userID)
	h.respondSubmit(c, resp, err)
}

// respondSubmit renders the shared submit outcome. A delivery failure keeps
// the recorded submission in the body; the retryable flag tells the client
// whether offering a manual resend makes sense, which it never does for a
// rejected (non-2xx) delivery.
func (h *FormHandler) respondSubmit(c *gin.Context, resp *services.SubmitResponse, err error) {
	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	if errors.Is(err, services.ErrDeliveryFailed) {
		var serverErr *webhook.ServerError
		var timeoutErr *webhook.TimeoutError

		message := "The automation endpoint could not be reached, the form values were kept so you can retry"
		retryable := true
		switch {
		case errors.As(err, &serverErr):
			message = fmt.Sprintf("The automation endpoint rejected the submission (status %d)", serverErr.Status)
			retryable = false
		case errors.As(err, &timeoutErr):
			message = "Delivery timed out, the form values were kept so you can retry"
		}

		c.JSON(http.StatusBadGateway, gin.H{
			"message":    message,
			"retryable":  retryable,
			"submission": resp,
		})
		return
	}

	h.handleServiceError(c, err)
}

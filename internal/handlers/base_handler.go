package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
	"github.com/agendadigital/forms-service/internal/validator"
)

// ErrorResponse is the standard error body for all endpoints.
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the shared handler dependencies and helpers.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs the start of a handler with request correlation.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string) {
	utils.FromContext(c.Request.Context(), h.logger).Debug(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

// LogError logs a handler failure with request correlation.
func (h *BaseHandler) LogError(c *gin.Context, msg string, err error) {
	utils.FromContext(c.Request.Context(), h.logger).Error(msg,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
}

// handleServiceError maps service errors to HTTP responses. Field validation
// failures carry their details; delivery failures return 502 with the audit
// reference attached by the caller.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNoStudentSelected):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "No student selected: pick a student from the search results before submitting",
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
		})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions",
		})
	default:
		var dirErr *services.DirectoryFetchError
		if errors.As(err, &dirErr) {
			h.LogError(c, "directory fetch failed", err)
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Message: "Student directory is unavailable, try again",
			})
			return
		}

		h.LogError(c, "unhandled service error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// currentUserID extracts the authenticated user ID set by the auth
// middleware, responding 401 when absent.
func (h *BaseHandler) currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}

	return id, true
}

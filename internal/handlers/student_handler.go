package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// SearchStudents returns ranked directory matches for a name query
// @Summary Search students
// @Description Case-insensitive substring search over student names, prefix matches ranked first, capped at 10 results. Queries under 2 characters return an empty list.
// @Tags students
// @Accept json
// @Produce json
// @Param q query string true "Name query"
// @Success 200 {object} services.StudentSearchResponse
// @Failure 502 {object} ErrorResponse "Directory unavailable"
// @Router /students/search [get]
func (h *StudentHandler) SearchStudents(c *gin.Context) {
	h.LogRequest(c, "Searching students")

	query := c.Query("q")

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStudent resolves a student by directory code
// @Summary Get student by code
// @Tags students
// @Accept json
// @Produce json
// @Param code path string true "Student code"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /students/{code} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	h.LogRequest(c, "Getting student by code")

	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "student code is required",
		})
		return
	}

	student, err := h.service.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

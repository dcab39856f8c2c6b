package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetDashboardStats returns submission totals by form type and outcome
// @Summary Get dashboard statistics
// @Description Teachers see their own submission numbers; coordinators and admins see school-wide totals
// @Tags dashboard
// @Produce json
// @Param from query string false "Start date (RFC3339)"
// @Param to query string false "End date (RFC3339)"
// @Success 200 {object} services.DashboardStats
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetDashboardStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid from date, expected RFC3339",
		})
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "invalid to date, expected RFC3339",
		})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID, from, to)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

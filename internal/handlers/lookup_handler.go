package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
)

type LookupHandler struct {
	BaseHandler
	service services.LookupService
}

func NewLookupHandler(service services.LookupService, logger utils.Logger) *LookupHandler {
	return &LookupHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== LOOKUP ENDPOINTS =====

// GetDisciplines returns the discipline reference list
// @Summary List disciplines
// @Tags lookups
// @Produce json
// @Router /lookups/disciplines [get]
func (h *LookupHandler) GetDisciplines(c *gin.Context) {
	h.LogRequest(c, "Listing disciplines")

	disciplines, err := h.service.Disciplines(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disciplines": disciplines})
}

// GetClasses returns the class reference list
// @Summary List classes
// @Tags lookups
// @Produce json
// @Router /lookups/classes [get]
func (h *LookupHandler) GetClasses(c *gin.Context) {
	h.LogRequest(c, "Listing classes")

	classes, err := h.service.Classes(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

// RefreshLookups drops the cached reference lists after the school updates
// the discipline or class tables
// @Summary Refresh lookup caches
// @Tags lookups
// @Produce json
// @Router /lookups/refresh [post]
func (h *LookupHandler) RefreshLookups(c *gin.Context) {
	h.LogRequest(c, "Refreshing lookup caches")

	h.service.Refresh(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"message": "Lookup caches refreshed"})
}

// GetOccurrenceTypes returns the fixed occurrence category list
// @Summary List occurrence types
// @Tags lookups
// @Produce json
// @Router /lookups/occurrence-types [get]
func (h *LookupHandler) GetOccurrenceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"occurrence_types": h.service.OccurrenceTypes(c.Request.Context())})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agendadigital/forms-service/internal/config"
	"github.com/agendadigital/forms-service/internal/models"
	"github.com/agendadigital/forms-service/internal/repositories"
	"github.com/agendadigital/forms-service/internal/services"
	"github.com/agendadigital/forms-service/internal/utils"
)

type HandlerManager struct {
	formHandler       *FormHandler
	studentHandler    *StudentHandler
	lookupHandler     *LookupHandler
	submissionHandler *SubmissionHandler
	dashboardHandler  *DashboardHandler
	authMiddleware    *CasdoorAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		formHandler:       NewFormHandler(serviceManager.Form(), logger),
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger),
		lookupHandler:     NewLookupHandler(serviceManager.Lookup(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), serviceManager.Export(), logger),
		dashboardHandler:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:    authMiddleware,
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	staff := hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleCoordinator)

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Form submission routes - all staff roles
		forms := v1.Group("/forms")
		forms.Use(staff)
		{
			forms.POST("/content", hm.formHandler.SubmitContent)
			forms.POST("/occurrence", hm.formHandler.SubmitOccurrence)
			forms.POST("/announcement", hm.formHandler.SubmitAnnouncement)
		}

		// Student directory routes
		students := v1.Group("/students")
		students.Use(staff)
		{
			students.GET("/search", hm.studentHandler.SearchStudents)
			students.GET("/:code", hm.studentHandler.GetStudent)
		}

		// Reference lists
		lookups := v1.Group("/lookups")
		lookups.Use(staff)
		{
			lookups.GET("/disciplines", hm.lookupHandler.GetDisciplines)
			lookups.GET("/classes", hm.lookupHandler.GetClasses)
			lookups.GET("/occurrence-types", hm.lookupHandler.GetOccurrenceTypes)
			lookups.POST("/refresh",
				hm.authMiddleware.RequireRoleMiddleware(models.RoleCoordinator),
				hm.lookupHandler.RefreshLookups)
		}

		// Audit log routes
		submissions := v1.Group("/submissions")
		submissions.Use(staff)
		{
			submissions.GET("", hm.submissionHandler.ListSubmissions)
			submissions.GET("/export", hm.submissionHandler.ExportSubmissions)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
		}

		// Dashboard routes
		dashboard := v1.Group("/dashboard")
		dashboard.Use(staff)
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetDashboardStats)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "forms-service",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "forms-service",
		})
	})
}

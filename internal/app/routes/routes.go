package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/studentreg/internal/app/controllers"
	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Service banner with route index
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":   "Student Registration System API",
			"status": "ok",
			"docs": gin.H{
				"auth":     "/api/v1/auth",
				"students": "/api/v1/students",
				"courses":  "/api/v1/courses",
			},
		})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	// --- Course routes (authenticated; mutations admin-only) ---
	courses := v1.Group("/courses")
	courses.Use(authMiddleware.JWTAuth())
	{
		courses.GET("", courseController.List)
		courses.GET("/:id", courseController.Get)

		coursesAdmin := courses.Group("")
		coursesAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			coursesAdmin.POST("", courseController.Create)
			coursesAdmin.PATCH("/:id", courseController.Update)
			coursesAdmin.DELETE("/:id", courseController.Delete)
		}
	}

	// --- Student routes ---
	students := v1.Group("/students")
	students.Use(authMiddleware.JWTAuth())
	{
		// Admin-only collection operations
		studentsAdmin := students.Group("")
		studentsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			studentsAdmin.POST("", studentController.Create)
			studentsAdmin.GET("", studentController.List)
			studentsAdmin.DELETE("/:id", studentController.Delete)
		}

		// Admin or owner; ownership is checked in the service
		students.GET("/:id", studentController.Get)
		students.PATCH("/:id", studentController.Update)
		students.POST("/:id/enroll", studentController.Enroll)
		students.POST("/:id/drop", studentController.Drop)
	}

	// Unmatched routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(fmt.Sprintf("Not Found - %s", c.Request.URL.Path)))
	})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/app/services"
	"github.com/campusreg/studentreg/internal/middleware"
)

// StudentController handles student profile and enrollment requests
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// Create handles admin student creation (identity + profile)
// @Summary Create a student
// @Tags students
// @Security BearerAuth
// @Success 201 {object} dto.CreateStudentResponse
// @Failure 409 {object} dto.ErrorResponse "Email or student ID already exists"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid student data").
			WithDetails(map[string]interface{}{"error": err.Error()}))
		return
	}

	student, user, err := c.studentService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateStudentResponse{
		Student: student,
		User:    dto.NewUserResponse(user),
	})
}

// List returns all student profiles with resolved identities and
// enrollment summaries. Admin-only.
func (c *StudentController) List(ctx *gin.Context) {
	students, err := c.studentService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// Get returns a single profile. Admin or owner.
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	caller, ok := middleware.GetCaller(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Update applies profile changes. Admin or owner; field permissions are
// enforced by the service.
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	caller, ok := middleware.GetCaller(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid student data").
			WithDetails(map[string]interface{}{"error": err.Error()}))
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), caller, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

// Delete removes a profile and its identity. Admin-only.
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Student deleted"})
}

// Enroll registers the student in a course. Admin or owner.
// @Summary Enroll in a course
// @Tags students
// @Security BearerAuth
// @Success 201 {object} models.Student
// @Failure 400 {object} dto.ErrorResponse "Course inactive or full"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /students/{id}/enroll [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	caller, ok := middleware.GetCaller(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("courseId is required").
			WithDetails(map[string]interface{}{"error": err.Error()}))
		return
	}

	student, err := c.studentService.Enroll(ctx.Request.Context(), caller, id, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, student)
}

// Drop flips an enrolled entry to dropped. Admin or owner.
func (c *StudentController) Drop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	caller, ok := middleware.GetCaller(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("courseId is required").
			WithDetails(map[string]interface{}{"error": err.Error()}))
		return
	}

	student, err := c.studentService.Drop(ctx.Request.Context(), caller, id, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}

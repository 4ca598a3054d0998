package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/app/services"
	"github.com/campusreg/studentreg/internal/middleware"
)

// AuthController handles registration, login and current-user requests
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles self-service registration
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid registration data").
			WithDetails(map[string]interface{}{"error": err.Error()}))
		return
	}

	result, err := c.authService.Register(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// Login handles credential login
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid login data").
			WithDetails(map[string]interface{}{"error": err.Error()}))
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// Me returns the authenticated caller's public identity
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	caller, ok := middleware.GetCaller(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Unauthorized"))
		return
	}

	ctx.JSON(http.StatusOK, dto.MeResponse{
		User: dto.UserResponse{
			ID:    caller.ID,
			Name:  caller.Name,
			Email: caller.Email,
			Role:  caller.Role,
		},
	})
}

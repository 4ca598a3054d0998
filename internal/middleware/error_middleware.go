package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	"github.com/campusreg/studentreg/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. The error body
// is always {message, details?}; internals only surface outside release
// mode.
func HandleAPIError(c *gin.Context, err error) {
	status := statusForError(err)

	message := err.Error()
	var details map[string]interface{}
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		details = custom.Details
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled service error")
		message = "Internal server error"
		if gin.Mode() != gin.ReleaseMode {
			details = map[string]interface{}{"error": err.Error()}
		}
	}

	response := dto.NewErrorResponse(message)
	if details != nil {
		response = response.WithDetails(details)
	}

	c.JSON(status, response)
}

// statusForError resolves the HTTP status for a service error
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrCourseInactive),
		errors.Is(err, apperrors.ErrCourseFull):
		return http.StatusBadRequest

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden

	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrEnrollmentNotFound):
		return http.StatusNotFound

	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrStudentIDAlreadyExists),
		errors.Is(err, apperrors.ErrCourseCodeExists),
		errors.Is(err, apperrors.ErrAlreadyEnrolled):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

package services

import (
	"context"
	"strings"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/app/repositories"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
)

// CourseService handles course catalog operations
type CourseService struct {
	courseRepo repositories.ICourseRepository
}

// NewCourseService creates a new course service instance
func NewCourseService(courseRepo repositories.ICourseRepository) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
	}
}

// normalizeCourseCode trims and uppercases a course code
func normalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create creates a new catalog entry with defaults applied
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	code := normalizeCourseCode(req.Code)
	if code == "" {
		return nil, apperrors.NewValidationError("course code cannot be empty")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("course title cannot be empty")
	}

	course := &models.Course{
		Code:        code,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Credits:     models.DefaultCredits,
		Capacity:    models.DefaultCapacity,
		IsActive:    true,
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Capacity != nil {
		course.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// List returns the catalog, optionally filtered by the active flag,
// newest entries first.
func (s *CourseService) List(ctx context.Context, active *bool) ([]*models.Course, error) {
	return s.courseRepo.List(ctx, active)
}

// Get retrieves a single course
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("invalid course ID")
	}
	return s.courseRepo.GetByID(ctx, id)
}

// Update applies the provided fields to an existing course. Absent
// fields keep their current values.
func (s *CourseService) Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := normalizeCourseCode(*req.Code)
		if code == "" {
			return nil, apperrors.NewValidationError("course code cannot be empty")
		}
		course.Code = code
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("course title cannot be empty")
		}
		course.Title = title
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Capacity != nil {
		course.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// Delete removes a course from the catalog. Existing enrollments keep
// their references; deactivate a course instead to stop new enrollments
// without losing history.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("invalid course ID")
	}
	return s.courseRepo.Delete(ctx, id)
}

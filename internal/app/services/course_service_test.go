package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
)

func TestCreateCourseAppliesDefaults(t *testing.T) {
	env := newTestEnv()

	course, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{
		Code:  " cs101 ",
		Title: " Intro to Computer Science ",
	})
	require.NoError(t, err)

	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, "Intro to Computer Science", course.Title)
	assert.Equal(t, models.DefaultCredits, course.Credits)
	assert.Equal(t, models.DefaultCapacity, course.Capacity)
	assert.True(t, course.IsActive)
}

func TestCreateCourseOverridesDefaults(t *testing.T) {
	env := newTestEnv()

	credits := 5
	capacity := 10
	inactive := false
	course, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{
		Code:     "CS102",
		Title:    "Data Structures",
		Credits:  &credits,
		Capacity: &capacity,
		IsActive: &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, course.Credits)
	assert.Equal(t, 10, course.Capacity)
	assert.False(t, course.IsActive)
}

func TestCreateCourseValidation(t *testing.T) {
	env := newTestEnv()

	_, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "  ", Title: "X"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "Intro"})
	require.NoError(t, err)

	// Codes are normalized before the uniqueness check
	_, err = env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "cs101", Title: "Other"})
	assert.ErrorIs(t, err, apperrors.ErrCourseCodeExists)
}

func TestUpdateCoursePartial(t *testing.T) {
	env := newTestEnv()

	course, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "Intro"})
	require.NoError(t, err)

	capacity := 5
	updated, err := env.courseService.Update(context.Background(), course.ID, dto.UpdateCourseRequest{Capacity: &capacity})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Capacity)
	assert.Equal(t, "CS101", updated.Code)
	assert.Equal(t, "Intro", updated.Title)
	assert.Equal(t, models.DefaultCredits, updated.Credits)
}

func TestUpdateCourseRejectsEmptyFields(t *testing.T) {
	env := newTestEnv()

	course, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "Intro"})
	require.NoError(t, err)

	empty := " "
	_, err = env.courseService.Update(context.Background(), course.ID, dto.UpdateCourseRequest{Code: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = env.courseService.Update(context.Background(), course.ID, dto.UpdateCourseRequest{Title: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListCoursesActiveFilter(t *testing.T) {
	env := newTestEnv()

	_, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "Intro"})
	require.NoError(t, err)

	inactive := false
	_, err = env.courseService.Create(context.Background(), dto.CreateCourseRequest{
		Code: "CS900", Title: "Retired", IsActive: &inactive,
	})
	require.NoError(t, err)

	all, err := env.courseService.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active := true
	onlyActive, err := env.courseService.List(context.Background(), &active)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, "CS101", onlyActive[0].Code)

	onlyInactive, err := env.courseService.List(context.Background(), &inactive)
	require.NoError(t, err)
	require.Len(t, onlyInactive, 1)
	assert.Equal(t, "CS900", onlyInactive[0].Code)
}

func TestGetCourseMissing(t *testing.T) {
	env := newTestEnv()

	_, err := env.courseService.Get(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	_, err = env.courseService.Get(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteCourse(t *testing.T) {
	env := newTestEnv()

	course, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{Code: "CS101", Title: "Intro"})
	require.NoError(t, err)

	require.NoError(t, env.courseService.Delete(context.Background(), course.ID))

	_, err = env.courseService.Get(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	err = env.courseService.Delete(context.Background(), course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

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

var adminCaller = models.Caller{ID: 9999, Role: models.RoleAdmin}

// seedStudent creates a student profile and returns it with its caller identity
func seedStudent(t *testing.T, env *testEnv, email string) (*models.Student, models.Caller) {
	t.Helper()
	student, user, err := env.studentService.Create(context.Background(), dto.CreateStudentRequest{
		Name:     "Student " + email,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return student, models.Caller{ID: user.ID, Role: user.Role, Email: user.Email, Name: user.Name}
}

// seedCourse creates a catalog entry with the given capacity
func seedCourse(t *testing.T, env *testEnv, code string, capacity int) *models.Course {
	t.Helper()
	course, err := env.courseService.Create(context.Background(), dto.CreateCourseRequest{
		Code:     code,
		Title:    "Course " + code,
		Capacity: &capacity,
	})
	require.NoError(t, err)
	return course
}

func TestCreateStudentGeneratesIdentifier(t *testing.T) {
	env := newTestEnv()

	student, user, err := env.studentService.Create(context.Background(), dto.CreateStudentRequest{
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Password: "secret123",
		Phone:    " 555-0100 ",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^STU\d{6}$`, student.StudentID)
	assert.Equal(t, "555-0100", student.Phone)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, user.ID, student.UserID)
	assert.NotNil(t, student.Enrollments)
}

func TestCreateStudentExplicitIdentifier(t *testing.T) {
	env := newTestEnv()

	student, _, err := env.studentService.Create(context.Background(), dto.CreateStudentRequest{
		Name:      "Grace",
		Email:     "grace@example.com",
		Password:  "secret123",
		StudentID: "STU000001",
	})
	require.NoError(t, err)
	assert.Equal(t, "STU000001", student.StudentID)

	_, _, err = env.studentService.Create(context.Background(), dto.CreateStudentRequest{
		Name:      "Imposter",
		Email:     "imposter@example.com",
		Password:  "secret123",
		StudentID: "STU000001",
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
}

func TestCreateStudentRejectsBadDateOfBirth(t *testing.T) {
	env := newTestEnv()

	_, _, err := env.studentService.Create(context.Background(), dto.CreateStudentRequest{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "secret123",
		DOB:      "01/02/2000",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetEnforcesOwnership(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	_, other := seedStudent(t, env, "other@example.com")

	_, err := env.studentService.Get(context.Background(), other, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	got, err := env.studentService.Get(context.Background(), owner, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)

	got, err = env.studentService.Get(context.Background(), adminCaller, student.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
}

func TestGetMissingStudent(t *testing.T) {
	env := newTestEnv()
	_, err := env.studentService.Get(context.Background(), adminCaller, 42)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestUpdateOwnerCannotChangeIdentifier(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	original := student.StudentID

	phone := "555-0199"
	sid := "STU999999"
	updated, err := env.studentService.Update(context.Background(), owner, student.ID, dto.UpdateStudentRequest{
		Phone:     &phone,
		StudentID: &sid,
	})
	require.NoError(t, err)

	assert.Equal(t, "555-0199", updated.Phone)
	// Identifier changes are admin-only and silently ignored for owners
	assert.Equal(t, original, updated.StudentID)
}

func TestUpdateAdminChangesIdentifier(t *testing.T) {
	env := newTestEnv()
	student, _ := seedStudent(t, env, "owner@example.com")

	sid := "STU999999"
	updated, err := env.studentService.Update(context.Background(), adminCaller, student.ID, dto.UpdateStudentRequest{
		StudentID: &sid,
	})
	require.NoError(t, err)
	assert.Equal(t, "STU999999", updated.StudentID)

	empty := "  "
	_, err = env.studentService.Update(context.Background(), adminCaller, student.ID, dto.UpdateStudentRequest{
		StudentID: &empty,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateDateOfBirth(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")

	dob := "2001-09-11"
	updated, err := env.studentService.Update(context.Background(), owner, student.ID, dto.UpdateStudentRequest{DOB: &dob})
	require.NoError(t, err)
	require.NotNil(t, updated.DOB)
	assert.Equal(t, "2001-09-11", updated.DOB.Format("2006-01-02"))

	bad := "11.09.2001"
	_, err = env.studentService.Update(context.Background(), owner, student.ID, dto.UpdateStudentRequest{DOB: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEnrollAndRefreshProfile(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	course := seedCourse(t, env, "CS101", 30)

	enrolled, err := env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	require.NoError(t, err)

	require.Len(t, enrolled.Enrollments, 1)
	entry := enrolled.Enrollments[0]
	assert.Equal(t, models.StatusEnrolled, entry.Status)
	require.NotNil(t, entry.Course)
	assert.Equal(t, "CS101", entry.Course.Code)
}

func TestEnrollEnforcesOwnership(t *testing.T) {
	env := newTestEnv()
	student, _ := seedStudent(t, env, "owner@example.com")
	_, other := seedStudent(t, env, "other@example.com")
	course := seedCourse(t, env, "CS101", 30)

	_, err := env.studentService.Enroll(context.Background(), other, student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestEnrollTwiceFails(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	course := seedCourse(t, env, "CS101", 30)

	_, err := env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	require.NoError(t, err)

	_, err = env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
}

func TestEnrollRespectsCapacity(t *testing.T) {
	env := newTestEnv()
	first, firstCaller := seedStudent(t, env, "first@example.com")
	second, secondCaller := seedStudent(t, env, "second@example.com")
	course := seedCourse(t, env, "CS101", 1)

	_, err := env.studentService.Enroll(context.Background(), firstCaller, first.ID, course.ID)
	require.NoError(t, err)

	_, err = env.studentService.Enroll(context.Background(), secondCaller, second.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseFull)

	// A dropped seat opens up again
	_, err = env.studentService.Drop(context.Background(), firstCaller, first.ID, course.ID)
	require.NoError(t, err)
	_, err = env.studentService.Enroll(context.Background(), secondCaller, second.ID, course.ID)
	assert.NoError(t, err)
}

func TestEnrollInactiveCourse(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	course := seedCourse(t, env, "CS101", 30)

	inactive := false
	_, err := env.courseService.Update(context.Background(), course.ID, dto.UpdateCourseRequest{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrCourseInactive)
}

func TestEnrollMissingCourse(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")

	_, err := env.studentService.Enroll(context.Background(), owner, student.ID, 404)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestDropAndReEnrollKeepsSingleEntry(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	course := seedCourse(t, env, "CS101", 30)

	enrolled, err := env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	require.NoError(t, err)
	firstEnrolledAt := enrolled.Enrollments[0].EnrolledAt

	dropped, err := env.studentService.Drop(context.Background(), owner, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, dropped.Enrollments, 1)
	assert.Equal(t, models.StatusDropped, dropped.Enrollments[0].Status)

	again, err := env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, again.Enrollments, 1)
	assert.Equal(t, models.StatusEnrolled, again.Enrollments[0].Status)
	assert.False(t, again.Enrollments[0].EnrolledAt.Before(firstEnrolledAt))
}

func TestDropWithoutEnrollment(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	course := seedCourse(t, env, "CS101", 30)

	_, err := env.studentService.Drop(context.Background(), owner, student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}

func TestDeletedCourseLeavesEnrollmentReference(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")
	course := seedCourse(t, env, "CS101", 30)

	_, err := env.studentService.Enroll(context.Background(), owner, student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, env.courseService.Delete(context.Background(), course.ID))

	got, err := env.studentService.Get(context.Background(), owner, student.ID)
	require.NoError(t, err)
	require.Len(t, got.Enrollments, 1)
	assert.Equal(t, course.ID, got.Enrollments[0].CourseID)
	assert.Nil(t, got.Enrollments[0].Course)
}

func TestDeleteStudentRemovesIdentity(t *testing.T) {
	env := newTestEnv()
	student, owner := seedStudent(t, env, "owner@example.com")

	require.NoError(t, env.studentService.Delete(context.Background(), student.ID))

	_, err := env.studentService.Get(context.Background(), adminCaller, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	_, err = env.userRepo.GetByID(context.Background(), owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

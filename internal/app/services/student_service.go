package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/campusreg/studentreg/internal/app/auth"
	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/app/repositories"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	pkgauth "github.com/campusreg/studentreg/internal/pkg/auth"
	"github.com/campusreg/studentreg/internal/pkg/helpers"
)

// StudentService handles student profiles and the enroll/drop workflow
type StudentService struct {
	studentRepo repositories.IStudentRepository
	userRepo    repositories.IUserRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	userRepo repositories.IUserRepository,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create creates a student identity and profile in one transaction.
// Admin-only; the route guard enforces the role.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, *models.User, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, nil, apperrors.ErrEmailAlreadyExists
	}

	dob, err := helpers.ParseDate(req.DOB)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("dob must be formatted as YYYY-MM-DD")
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleStudent,
	}
	student := &models.Student{
		Phone:   strings.TrimSpace(req.Phone),
		DOB:     dob,
		Address: strings.TrimSpace(req.Address),
	}

	if req.StudentID != "" {
		student.StudentID = strings.TrimSpace(req.StudentID)
		if err := s.studentRepo.CreateWithUser(ctx, user, student); err != nil {
			return nil, nil, err
		}
	} else {
		if err := s.createWithGeneratedID(ctx, user, student); err != nil {
			return nil, nil, err
		}
	}

	s.logger.Info().Int64("studentID", student.ID).Str("identifier", student.StudentID).Msg("Student created")

	student.Enrollments = []models.Enrollment{}
	return student, user, nil
}

// createWithGeneratedID assigns generated identifiers until one sticks
func (s *StudentService) createWithGeneratedID(ctx context.Context, user *models.User, student *models.Student) error {
	for attempt := 0; attempt < maxStudentIDAttempts; attempt++ {
		student.StudentID = generateStudentID()

		taken, err := s.studentRepo.StudentIDExists(ctx, student.StudentID)
		if err != nil {
			return fmt.Errorf("error checking student identifier: %w", err)
		}
		if taken {
			continue
		}

		err = s.studentRepo.CreateWithUser(ctx, user, student)
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			continue
		}
		return err
	}
	return fmt.Errorf("could not generate a unique student identifier after %d attempts", maxStudentIDAttempts)
}

// List returns all profiles with identities and enrollment summaries
// resolved. Admin-only; the route guard enforces the role.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.List(ctx)
}

// Get retrieves a profile. Students may only fetch their own.
func (s *StudentService) Get(ctx context.Context, caller models.Caller, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := appauth.RequireOwnerOrAdmin(caller, student.UserID); err != nil {
		return nil, err
	}

	return student, nil
}

// Update applies profile changes. Owners may modify phone, dob and
// address; only admins may change the student identifier. Fields the
// caller may not touch are ignored, not rejected.
func (s *StudentService) Update(ctx context.Context, caller models.Caller, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := appauth.RequireOwnerOrAdmin(caller, student.UserID); err != nil {
		return nil, err
	}

	if req.Phone != nil {
		student.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.DOB != nil {
		dob, err := helpers.ParseDate(*req.DOB)
		if err != nil {
			return nil, apperrors.NewValidationError("dob must be formatted as YYYY-MM-DD")
		}
		student.DOB = dob
	}
	if req.Address != nil {
		student.Address = strings.TrimSpace(*req.Address)
	}
	if req.StudentID != nil && caller.IsAdmin() {
		sid := strings.TrimSpace(*req.StudentID)
		if sid == "" {
			return nil, apperrors.NewValidationError("studentId cannot be empty")
		}
		student.StudentID = sid
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// Delete removes a profile and its owning identity. Admin-only; the
// route guard enforces the role.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("invalid student ID")
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// Enroll registers a student in a course and returns the refreshed
// profile. The capacity check and the write run atomically against the
// locked course row.
func (s *StudentService) Enroll(ctx context.Context, caller models.Caller, studentID, courseID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := appauth.RequireOwnerOrAdmin(caller, student.UserID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Enroll(ctx, student.ID, courseID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Int64("courseID", courseID).Msg("Student enrolled")

	return s.studentRepo.GetByID(ctx, student.ID)
}

// Drop flips an enrolled entry to dropped and returns the refreshed
// profile. The entry itself is kept for history.
func (s *StudentService) Drop(ctx context.Context, caller models.Caller, studentID, courseID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := appauth.RequireOwnerOrAdmin(caller, student.UserID); err != nil {
		return nil, err
	}

	if err := s.studentRepo.DropEnrollment(ctx, student.ID, courseID); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Int64("courseID", courseID).Msg("Student dropped course")

	return s.studentRepo.GetByID(ctx, student.ID)
}

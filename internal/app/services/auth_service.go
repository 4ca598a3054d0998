package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/app/models/dto"
	"github.com/campusreg/studentreg/internal/app/repositories"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	pkgauth "github.com/campusreg/studentreg/internal/pkg/auth"
)

// maxStudentIDAttempts bounds the generate-and-check loop for student
// identifiers. The unique index catches anything that slips through.
const maxStudentIDAttempts = 5

// AuthService handles registration, login and token issuance
type AuthService struct {
	userRepo    repositories.IUserRepository
	studentRepo repositories.IStudentRepository
	jwtService  *pkgauth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	jwtService *pkgauth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates a new identity. A student registration also creates
// the student profile with a generated identifier, in the same
// transaction as the user row.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.RoleStudent
	if req.Role != "" {
		role = models.Role(req.Role)
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("role must be admin or student")
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     role,
	}

	if role == models.RoleStudent {
		if err := s.createStudentProfile(ctx, user); err != nil {
			return nil, err
		}
	} else {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")

	return s.buildAuthResponse(user)
}

// createStudentProfile creates the user together with an auto-generated
// student profile, retrying on identifier collision.
func (s *AuthService) createStudentProfile(ctx context.Context, user *models.User) error {
	for attempt := 0; attempt < maxStudentIDAttempts; attempt++ {
		studentID := generateStudentID()

		taken, err := s.studentRepo.StudentIDExists(ctx, studentID)
		if err != nil {
			return fmt.Errorf("error checking student identifier: %w", err)
		}
		if taken {
			continue
		}

		student := &models.Student{StudentID: studentID}
		err = s.studentRepo.CreateWithUser(ctx, user, student)
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			// Lost the race on the unique index; try a fresh identifier
			continue
		}
		return err
	}
	return fmt.Errorf("could not generate a unique student identifier after %d attempts", maxStudentIDAttempts)
}

// Login verifies credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return s.buildAuthResponse(user)
}

// buildAuthResponse issues a token and assembles the public view
func (s *AuthService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, _, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	"github.com/campusreg/studentreg/internal/pkg/dberrors"
)

// ICourseRepository defines the interface for course catalog operations
type ICourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, active *bool) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (code, title, description, credits, capacity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		course.Code, course.Title, course.Description,
		course.Credits, course.Capacity, course.IsActive).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return apperrors.ErrCourseCodeExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course := &models.Course{}
	err := r.db.QueryRow(ctx, `
		SELECT id, code, title, description, credits, capacity, is_active, created_at, updated_at
		FROM courses
		WHERE id = $1`,
		id).Scan(
		&course.ID, &course.Code, &course.Title, &course.Description,
		&course.Credits, &course.Capacity, &course.IsActive,
		&course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// List retrieves courses newest first, optionally filtered by the
// active flag.
func (r *CourseRepository) List(ctx context.Context, active *bool) ([]*models.Course, error) {
	query := `
		SELECT id, code, title, description, credits, capacity, is_active, created_at, updated_at
		FROM courses`
	args := []any{}
	if active != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *active)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(
			&course.ID, &course.Code, &course.Title, &course.Description,
			&course.Credits, &course.Capacity, &course.IsActive,
			&course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading courses: %w", err)
	}

	return courses, nil
}

// Update persists all mutable course fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET code = $1, title = $2, description = $3, credits = $4,
		    capacity = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7`,
		course.Code, course.Title, course.Description,
		course.Credits, course.Capacity, course.IsActive, course.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_key") {
			return apperrors.ErrCourseCodeExists
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Enrollment rows that reference it are left
// in place on purpose; reads resolve them to a missing course summary.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/db"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	"github.com/campusreg/studentreg/internal/pkg/dberrors"
)

// IStudentRepository defines the interface for student profile and
// enrollment database operations.
type IStudentRepository interface {
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	Enroll(ctx context.Context, studentID, courseID int64) error
	DropEnrollment(ctx context.Context, studentID, courseID int64) error
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// insertStudent inserts a student profile row and fills in the generated fields
func insertStudent(ctx context.Context, q DBTX, student *models.Student) error {
	err := q.QueryRow(ctx, `
		INSERT INTO students (user_id, student_id, phone, dob, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		student.UserID, student.StudentID, student.Phone, student.DOB, student.Address).
		Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_user_id_key") {
			return apperrors.NewConflictError("user already has a student profile")
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// CreateWithUser creates the identity and the student profile in a
// single transaction, so a failed profile insert never leaves an
// orphaned user behind.
func (r *StudentRepository) CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		student.UserID = user.ID
		return insertStudent(ctx, tx, student)
	})
}

// GetByID retrieves a student with its user and enrollments resolved
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student := &models.Student{User: &models.User{}}
	err := r.db.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.student_id, s.phone, s.dob, s.address, s.created_at, s.updated_at,
		       u.id, u.name, u.email, u.role, u.created_at, u.updated_at
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1`,
		id).Scan(
		&student.ID, &student.UserID, &student.StudentID, &student.Phone,
		&student.DOB, &student.Address, &student.CreatedAt, &student.UpdatedAt,
		&student.User.ID, &student.User.Name, &student.User.Email,
		&student.User.Role, &student.User.CreatedAt, &student.User.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	enrollments, err := r.enrollmentsForStudents(ctx, []int64{student.ID})
	if err != nil {
		return nil, err
	}
	student.Enrollments = enrollments[student.ID]
	if student.Enrollments == nil {
		student.Enrollments = []models.Enrollment{}
	}

	return student, nil
}

// List retrieves all students newest first, with users and enrollments resolved
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.user_id, s.student_id, s.phone, s.dob, s.address, s.created_at, s.updated_at,
		       u.id, u.name, u.email, u.role, u.created_at, u.updated_at
		FROM students s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	ids := []int64{}
	for rows.Next() {
		student := &models.Student{User: &models.User{}, Enrollments: []models.Enrollment{}}
		if err := rows.Scan(
			&student.ID, &student.UserID, &student.StudentID, &student.Phone,
			&student.DOB, &student.Address, &student.CreatedAt, &student.UpdatedAt,
			&student.User.ID, &student.User.Name, &student.User.Email,
			&student.User.Role, &student.User.CreatedAt, &student.User.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
		ids = append(ids, student.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading students: %w", err)
	}

	if len(ids) == 0 {
		return students, nil
	}

	enrollments, err := r.enrollmentsForStudents(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, student := range students {
		if list, ok := enrollments[student.ID]; ok {
			student.Enrollments = list
		}
	}

	return students, nil
}

// enrollmentsForStudents loads enrollment rows with course summaries for
// the given profiles. A deleted course leaves the summary nil.
func (r *StudentRepository) enrollmentsForStudents(ctx context.Context, studentIDs []int64) (map[int64][]models.Enrollment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.student_id, e.course_id, e.status, e.enrolled_at,
		       c.id, c.code, c.title, c.credits
		FROM enrollments e
		LEFT JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = ANY($1)
		ORDER BY e.id`,
		studentIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading enrollments: %w", err)
	}
	defer rows.Close()

	result := map[int64][]models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		var courseID *int64
		var code, title *string
		var credits *int
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.EnrolledAt,
			&courseID, &code, &title, &credits); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		if courseID != nil {
			e.Course = &models.CourseSummary{
				ID:      *courseID,
				Code:    *code,
				Title:   *title,
				Credits: *credits,
			}
		}
		result[e.StudentID] = append(result[e.StudentID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading enrollments: %w", err)
	}

	return result, nil
}

// Update persists the mutable profile fields
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE students
		SET student_id = $1, phone = $2, dob = $3, address = $4, updated_at = NOW()
		WHERE id = $5`,
		student.StudentID, student.Phone, student.DOB, student.Address, student.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes the profile together with its owning identity. The
// user row is the deletion target; the profile and its enrollments
// follow through the cascading foreign keys.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var userID int64
		err := tx.QueryRow(ctx, `SELECT user_id FROM students WHERE id = $1`, id).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error resolving student owner: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("error deleting student owner: %w", err)
		}
		return nil
	})
}

// StudentIDExists checks if a student identifier is already taken
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`,
		studentID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking student identifier: %w", err)
	}

	return exists, nil
}

// Enroll registers the student in a course. The course row is locked
// for the duration of the transaction so the capacity count and the
// write are atomic per course; two racing requests for the last seat
// serialize here.
func (r *StudentRepository) Enroll(ctx context.Context, studentID, courseID int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var capacity int
		var isActive bool
		err := tx.QueryRow(ctx, `
			SELECT capacity, is_active FROM courses WHERE id = $1 FOR UPDATE`,
			courseID).Scan(&capacity, &isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error locking course: %w", err)
		}
		if !isActive {
			return apperrors.ErrCourseInactive
		}

		var status models.EnrollmentStatus
		hasEntry := true
		err = tx.QueryRow(ctx, `
			SELECT status FROM enrollments WHERE student_id = $1 AND course_id = $2`,
			studentID, courseID).Scan(&status)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("error checking enrollment: %w", err)
			}
			hasEntry = false
		}
		if hasEntry && status == models.StatusEnrolled {
			return apperrors.ErrAlreadyEnrolled
		}

		var enrolled int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM enrollments WHERE course_id = $1 AND status = $2`,
			courseID, models.StatusEnrolled).Scan(&enrolled)
		if err != nil {
			return fmt.Errorf("error counting enrollments: %w", err)
		}
		if enrolled >= capacity {
			return apperrors.ErrCourseFull
		}

		if hasEntry {
			// Dropped before; flip the existing entry back
			_, err = tx.Exec(ctx, `
				UPDATE enrollments
				SET status = $1, enrolled_at = NOW()
				WHERE student_id = $2 AND course_id = $3`,
				models.StatusEnrolled, studentID, courseID)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO enrollments (student_id, course_id, status, enrolled_at)
				VALUES ($1, $2, $3, NOW())`,
				studentID, courseID, models.StatusEnrolled)
		}
		if err != nil {
			return fmt.Errorf("error writing enrollment: %w", err)
		}

		return nil
	})
}

// DropEnrollment flips an enrolled entry to dropped
func (r *StudentRepository) DropEnrollment(ctx context.Context, studentID, courseID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE enrollments
		SET status = $1
		WHERE student_id = $2 AND course_id = $3 AND status = $4`,
		models.StatusDropped, studentID, courseID, models.StatusEnrolled)

	if err != nil {
		return fmt.Errorf("error dropping enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

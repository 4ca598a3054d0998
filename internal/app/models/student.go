package models

import "time"

// Student defines the student profile model based on the 'students' table.
// The profile owns its enrollment list; enrollment rows are only ever
// mutated through student operations.
type Student struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	StudentID string     `json:"studentId" db:"student_id"`
	Phone     string     `json:"phone" db:"phone"`
	DOB       *time.Time `json:"dob,omitempty" db:"dob"`
	Address   string     `json:"address" db:"address"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	User        *User        `json:"user,omitempty"`
	Enrollments []Enrollment `json:"enrollments"`
}

package models

import "time"

// Enrollment links a student profile to a course. Entries are never
// removed; dropping flips the status and re-enrolling flips it back
// with a refreshed timestamp.
type Enrollment struct {
	ID         int64            `json:"-" db:"id"`
	StudentID  int64            `json:"-" db:"student_id"`
	CourseID   int64            `json:"courseId" db:"course_id"`
	Status     EnrollmentStatus `json:"status" db:"status"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`

	// Course summary, resolved on reads. Nil when the course has been
	// deleted after the fact.
	Course *CourseSummary `json:"course,omitempty"`
}

// CourseSummary carries the course fields embedded in enrollment reads.
type CourseSummary struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	Credits int    `json:"credits"`
}

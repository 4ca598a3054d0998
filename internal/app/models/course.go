package models

import "time"

// Course represents a catalog entry based on the 'courses' table.
type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"` // Normalized to uppercase, e.g. CS101
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Credits     int       `json:"credits" db:"credits"`
	Capacity    int       `json:"capacity" db:"capacity"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Summary returns the reduced view embedded in enrollment responses.
func (c *Course) Summary() *CourseSummary {
	return &CourseSummary{
		ID:      c.ID,
		Code:    c.Code,
		Title:   c.Title,
		Credits: c.Credits,
	}
}

// Course field bounds and defaults.
const (
	DefaultCredits  = 3
	DefaultCapacity = 60
	MaxCredits      = 30
	MaxTitleLen     = 120
	MaxDescLen      = 1000
)

package dto

// CreateCourseRequest is the admin course-creation body
type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required,max=20"`
	Title       string `json:"title" binding:"required,max=120"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Credits     *int   `json:"credits" binding:"omitempty,min=0,max=30"`
	Capacity    *int   `json:"capacity" binding:"omitempty,min=0"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateCourseRequest is the admin course-update body; absent fields are
// left unchanged.
type UpdateCourseRequest struct {
	Code        *string `json:"code" binding:"omitempty,max=20"`
	Title       *string `json:"title" binding:"omitempty,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Credits     *int    `json:"credits" binding:"omitempty,min=0,max=30"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=0"`
	IsActive    *bool   `json:"isActive"`
}

// ListCoursesQuery carries the catalog list filter
type ListCoursesQuery struct {
	Active *bool `form:"active"`
}

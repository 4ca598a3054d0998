package dto

import "github.com/campusreg/studentreg/internal/app/models"

// CreateStudentRequest is the admin student-creation body. It creates
// the identity and the profile together.
type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required,max=120"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	StudentID string `json:"studentId" binding:"omitempty,max=20"`
	Phone     string `json:"phone" binding:"omitempty,max=40"`
	DOB       string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address   string `json:"address" binding:"omitempty,max=255"`
}

// UpdateStudentRequest is the profile-update body. Owners may change
// phone, dob and address; studentId is honored for admin callers only
// and silently ignored otherwise.
type UpdateStudentRequest struct {
	Phone     *string `json:"phone" binding:"omitempty,max=40"`
	DOB       *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Address   *string `json:"address" binding:"omitempty,max=255"`
	StudentID *string `json:"studentId" binding:"omitempty,max=20"`
}

// EnrollRequest is the body for enroll and drop operations
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// CreateStudentResponse pairs the new profile with its identity
type CreateStudentResponse struct {
	Student *models.Student `json:"student"`
	User    UserResponse    `json:"user"`
}

package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusreg/studentreg/internal/app/models"
	"github.com/campusreg/studentreg/internal/pkg/apperrors"
	pkgauth "github.com/campusreg/studentreg/internal/pkg/auth"
)

// memStore is a shared in-memory backend for the repository fakes, so
// service tests exercise the full workflows without a database. The
// fakes mirror the real repositories' error semantics.
type memStore struct {
	users       map[int64]*models.User
	students    map[int64]*models.Student
	courses     map[int64]*models.Course
	enrollments map[int64]map[int64]*models.Enrollment // studentID -> courseID
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		students:    map[int64]*models.Student{},
		courses:     map[int64]*models.Course{},
		enrollments: map[int64]map[int64]*models.Enrollment{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) emailTaken(email string) bool {
	for _, u := range m.users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func (m *memStore) studentIDTaken(studentID string, exceptID int64) bool {
	for _, s := range m.students {
		if s.StudentID == studentID && s.ID != exceptID {
			return true
		}
	}
	return false
}

// --- user repository fake ---

type fakeUserRepo struct {
	store *memStore
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.store.emailTaken(user.Email) {
		return apperrors.ErrEmailAlreadyExists
	}
	user.ID = f.store.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.store.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.store.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.store.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	return f.store.emailTaken(email), nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.store.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.store.users, id)
	for sid, s := range f.store.students {
		if s.UserID == id {
			delete(f.store.students, sid)
			delete(f.store.enrollments, sid)
		}
	}
	return nil
}

// --- student repository fake ---

type fakeStudentRepo struct {
	store *memStore
}

func (f *fakeStudentRepo) CreateWithUser(_ context.Context, user *models.User, student *models.Student) error {
	if f.store.emailTaken(user.Email) {
		return apperrors.ErrEmailAlreadyExists
	}
	if f.store.studentIDTaken(student.StudentID, 0) {
		return apperrors.ErrStudentIDAlreadyExists
	}

	user.ID = f.store.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copiedUser := *user
	f.store.users[user.ID] = &copiedUser

	student.ID = f.store.id()
	student.UserID = user.ID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	copiedStudent := *student
	f.store.students[student.ID] = &copiedStudent
	return nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.store.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return f.resolve(s), nil
}

func (f *fakeStudentRepo) List(_ context.Context) ([]*models.Student, error) {
	ids := make([]int64, 0, len(f.store.students))
	for id := range f.store.students {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	students := []*models.Student{}
	for _, id := range ids {
		students = append(students, f.resolve(f.store.students[id]))
	}
	return students, nil
}

// resolve mirrors the join the real repository performs
func (f *fakeStudentRepo) resolve(s *models.Student) *models.Student {
	copied := *s
	if u, ok := f.store.users[s.UserID]; ok {
		copiedUser := *u
		copied.User = &copiedUser
	}

	copied.Enrollments = []models.Enrollment{}
	entries := f.store.enrollments[s.ID]
	ids := make([]int64, 0, len(entries))
	byID := map[int64]*models.Enrollment{}
	for _, e := range entries {
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e := *byID[id]
		if c, ok := f.store.courses[e.CourseID]; ok {
			e.Course = c.Summary()
		} else {
			e.Course = nil
		}
		copied.Enrollments = append(copied.Enrollments, e)
	}
	return &copied
}

func (f *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	existing, ok := f.store.students[student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if f.store.studentIDTaken(student.StudentID, student.ID) {
		return apperrors.ErrStudentIDAlreadyExists
	}
	existing.StudentID = student.StudentID
	existing.Phone = student.Phone
	existing.DOB = student.DOB
	existing.Address = student.Address
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id int64) error {
	s, ok := f.store.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(f.store.users, s.UserID)
	delete(f.store.students, id)
	delete(f.store.enrollments, id)
	return nil
}

func (f *fakeStudentRepo) StudentIDExists(_ context.Context, studentID string) (bool, error) {
	return f.store.studentIDTaken(studentID, 0), nil
}

func (f *fakeStudentRepo) Enroll(_ context.Context, studentID, courseID int64) error {
	course, ok := f.store.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	if !course.IsActive {
		return apperrors.ErrCourseInactive
	}

	entry := f.store.enrollments[studentID][courseID]
	if entry != nil && entry.Status == models.StatusEnrolled {
		return apperrors.ErrAlreadyEnrolled
	}

	enrolled := 0
	for _, entries := range f.store.enrollments {
		if e, ok := entries[courseID]; ok && e.Status == models.StatusEnrolled {
			enrolled++
		}
	}
	if enrolled >= course.Capacity {
		return apperrors.ErrCourseFull
	}

	if entry != nil {
		entry.Status = models.StatusEnrolled
		entry.EnrolledAt = time.Now()
		return nil
	}
	if f.store.enrollments[studentID] == nil {
		f.store.enrollments[studentID] = map[int64]*models.Enrollment{}
	}
	f.store.enrollments[studentID][courseID] = &models.Enrollment{
		ID:         f.store.id(),
		StudentID:  studentID,
		CourseID:   courseID,
		Status:     models.StatusEnrolled,
		EnrolledAt: time.Now(),
	}
	return nil
}

func (f *fakeStudentRepo) DropEnrollment(_ context.Context, studentID, courseID int64) error {
	entry := f.store.enrollments[studentID][courseID]
	if entry == nil || entry.Status != models.StatusEnrolled {
		return apperrors.ErrEnrollmentNotFound
	}
	entry.Status = models.StatusDropped
	return nil
}

// --- course repository fake ---

type fakeCourseRepo struct {
	store *memStore
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	for _, c := range f.store.courses {
		if c.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}
	course.ID = f.store.id()
	course.CreatedAt = time.Now()
	course.UpdatedAt = course.CreatedAt
	copied := *course
	f.store.courses[course.ID] = &copied
	return nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.store.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCourseRepo) List(_ context.Context, active *bool) ([]*models.Course, error) {
	ids := make([]int64, 0, len(f.store.courses))
	for id := range f.store.courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	courses := []*models.Course{}
	for _, id := range ids {
		c := f.store.courses[id]
		if active != nil && c.IsActive != *active {
			continue
		}
		copied := *c
		courses = append(courses, &copied)
	}
	return courses, nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	existing, ok := f.store.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, c := range f.store.courses {
		if c.Code == course.Code && c.ID != course.ID {
			return apperrors.ErrCourseCodeExists
		}
	}
	*existing = *course
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.store.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	// Enrollment references stay behind, matching the real schema
	delete(f.store.courses, id)
	return nil
}

// --- test environment ---

type testEnv struct {
	store          *memStore
	userRepo       *fakeUserRepo
	studentRepo    *fakeStudentRepo
	courseRepo     *fakeCourseRepo
	jwtService     *pkgauth.JWTService
	authService    *AuthService
	courseService  *CourseService
	studentService *StudentService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	userRepo := &fakeUserRepo{store: store}
	studentRepo := &fakeStudentRepo{store: store}
	courseRepo := &fakeCourseRepo{store: store}

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "studentreg.test",
	})

	return &testEnv{
		store:          store,
		userRepo:       userRepo,
		studentRepo:    studentRepo,
		courseRepo:     courseRepo,
		jwtService:     jwtService,
		authService:    NewAuthService(userRepo, studentRepo, jwtService, zerolog.Nop()),
		courseService:  NewCourseService(courseRepo),
		studentService: NewStudentService(studentRepo, userRepo, zerolog.Nop()),
	}
}

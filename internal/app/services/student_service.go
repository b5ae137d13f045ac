package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentService defines the record store operations on students
type StudentService interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error)
	List(ctx context.Context, includeDeleted bool) ([]*models.Student, error)
	ListBin(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, id int64, update models.StudentUpdate) error
	SoftDelete(ctx context.Context, ids []int64) (int64, error)
	Restore(ctx context.Context, ids []int64) (int64, error)
	PermanentDelete(ctx context.Context, ids []int64) (int64, error)
	Search(ctx context.Context, field models.SearchField, text string) ([]*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo *repositories.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// normalizeStudent trims text fields and turns blank optional fields into
// NULLs so that optional format rules only apply to real values.
func (s *studentServiceImpl) normalizeStudent(student *models.Student) {
	student.RollNumber = strings.TrimSpace(student.RollNumber)
	student.Name = strings.TrimSpace(student.Name)
	for _, p := range []**string{
		&student.UserID, &student.ContactNumber, &student.Email, &student.Address,
		&student.AadhaarNo, &student.DateOfBirth, &student.Gender, &student.BloodGroup,
		&student.MotherName, &student.ProfilePicturePath,
	} {
		*p = helpers.TrimToNil(*p)
	}
	if student.EnrollmentStatus == "" {
		student.EnrollmentStatus = models.EnrollmentActive
	}
	student.EnrollmentDate = strings.TrimSpace(student.EnrollmentDate)
	if student.EnrollmentDate == "" {
		student.EnrollmentDate = helpers.FormatDate(s.now())
	}
}

// Create validates and stores a new student
func (s *studentServiceImpl) Create(ctx context.Context, student *models.Student) (int64, error) {
	if student == nil {
		return 0, validation.Field("student", "student is required")
	}
	s.normalizeStudent(student)
	if err := validation.Struct(student); err != nil {
		return 0, err
	}

	id, err := s.studentRepo.Create(ctx, student)
	if err != nil {
		return 0, err
	}
	student.ID = id
	s.logger.Info().Int64("student_id", id).Str("roll_number", student.RollNumber).Msg("Student created")
	return id, nil
}

// Get retrieves a student by ID, including students in the bin
func (s *studentServiceImpl) Get(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, validation.Field("student_id", "invalid student ID")
	}
	return s.studentRepo.GetByID(ctx, id)
}

// GetByRollNumber retrieves a student by roll number
func (s *studentServiceImpl) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return nil, validation.Field("roll_number", "roll number is required")
	}
	return s.studentRepo.GetByRollNumber(ctx, rollNumber)
}

// List returns students ordered by name
func (s *studentServiceImpl) List(ctx context.Context, includeDeleted bool) ([]*models.Student, error) {
	return s.studentRepo.List(ctx, includeDeleted)
}

// ListBin returns the soft deleted students
func (s *studentServiceImpl) ListBin(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.ListDeleted(ctx)
}

// Update validates and applies a partial update
func (s *studentServiceImpl) Update(ctx context.Context, id int64, update models.StudentUpdate) error {
	if id <= 0 {
		return validation.Field("student_id", "invalid student ID")
	}
	if err := validation.Struct(validatedUpdate(update)); err != nil {
		return err
	}
	if err := s.studentRepo.Update(ctx, id, update); err != nil {
		return err
	}
	s.logger.Info().Int64("student_id", id).Msg("Student updated")
	return nil
}

// validatedUpdate returns a copy of u in which optional text fields that
// clear a column are nil, so their format rules are skipped.
func validatedUpdate(u models.StudentUpdate) models.StudentUpdate {
	for _, p := range []**string{
		&u.UserID, &u.ContactNumber, &u.Email, &u.Address, &u.AadhaarNo,
		&u.DateOfBirth, &u.Gender, &u.BloodGroup, &u.MotherName, &u.ProfilePicturePath,
	} {
		*p = helpers.TrimToNil(*p)
	}
	return u
}

// SoftDelete moves students to the bin
func (s *studentServiceImpl) SoftDelete(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.studentRepo.SoftDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Ints64("ids", ids).Int64("changed", n).Msg("Students moved to bin")
	return n, nil
}

// Restore brings students back from the bin
func (s *studentServiceImpl) Restore(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.studentRepo.Restore(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Ints64("ids", ids).Int64("changed", n).Msg("Students restored")
	return n, nil
}

// PermanentDelete removes students together with their marks and payments
func (s *studentServiceImpl) PermanentDelete(ctx context.Context, ids []int64) (int64, error) {
	n, err := s.studentRepo.PermanentDelete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Warn().Ints64("ids", ids).Int64("removed", n).Msg("Students permanently deleted")
	return n, nil
}

// Search matches text against one field, ignoring case
func (s *studentServiceImpl) Search(ctx context.Context, field models.SearchField, text string) ([]*models.Student, error) {
	if !isSearchField(field) {
		return nil, validation.Field("field", fmt.Sprintf("unsupported search field %q", field))
	}
	return s.studentRepo.Search(ctx, field, text)
}

func isSearchField(field models.SearchField) bool {
	for _, f := range models.SearchFields {
		if f == field {
			return true
		}
	}
	return false
}

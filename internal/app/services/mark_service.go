package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// gradeBands maps a minimum percentage to a grade, highest first.
var gradeBands = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B"},
	{60, "C"},
	{50, "D"},
}

// Grade returns the letter grade for a score.
func Grade(obtained, max float64) string {
	if max <= 0 {
		return "F"
	}
	pct := obtained / max * 100
	for _, b := range gradeBands {
		if pct >= b.min {
			return b.grade
		}
	}
	return "F"
}

// MarkService defines the interface for mark operations
type MarkService interface {
	Add(ctx context.Context, mark *models.Mark) (int64, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.Mark, error)
	Delete(ctx context.Context, markID int64) error
}

// markServiceImpl implements the MarkService interface
type markServiceImpl struct {
	markRepo    *repositories.MarkRepository
	studentRepo *repositories.StudentRepository
	refRepo     *repositories.ReferenceRepository
	logger      zerolog.Logger
}

// NewMarkService creates a new mark service instance
func NewMarkService(markRepo *repositories.MarkRepository, studentRepo *repositories.StudentRepository, refRepo *repositories.ReferenceRepository, logger zerolog.Logger) MarkService {
	return &markServiceImpl{
		markRepo:    markRepo,
		studentRepo: studentRepo,
		refRepo:     refRepo,
		logger:      logger,
	}
}

// requireActiveStudent fails unless the student exists and is not in the bin.
func requireActiveStudent(ctx context.Context, studentRepo *repositories.StudentRepository, studentID int64) error {
	if studentID <= 0 {
		return validation.Field("student_id", "invalid student ID")
	}
	ok, err := studentRepo.Exists(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFoundError("student", studentID)
	}
	return nil
}

// Add records a mark. The grade is derived from the score when not given.
func (s *markServiceImpl) Add(ctx context.Context, mark *models.Mark) (int64, error) {
	if mark == nil {
		return 0, validation.Field("mark", "mark is required")
	}
	mark.SubjectName = strings.TrimSpace(mark.SubjectName)
	mark.Grade = strings.TrimSpace(mark.Grade)
	if err := validation.Struct(mark); err != nil {
		return 0, err
	}
	if mark.Grade == "" {
		mark.Grade = Grade(mark.MarksObtained, mark.MaxMarks)
	}

	if err := requireActiveStudent(ctx, s.studentRepo, mark.StudentID); err != nil {
		return 0, err
	}
	if _, err := s.refRepo.GetCourseByID(ctx, mark.CourseID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return 0, apperrors.NewReferenceError("course_id", err)
		}
		return 0, err
	}

	id, err := s.markRepo.Create(ctx, mark)
	if err != nil {
		return 0, err
	}
	mark.ID = id
	s.logger.Info().
		Int64("mark_id", id).
		Int64("student_id", mark.StudentID).
		Str("subject", mark.SubjectName).
		Str("grade", mark.Grade).
		Msg("Mark recorded")
	return id, nil
}

// ListForStudent returns a student's marks ordered by semester and subject
func (s *markServiceImpl) ListForStudent(ctx context.Context, studentID int64) ([]models.Mark, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.markRepo.ListByStudent(ctx, studentID)
}

// Delete removes a mark
func (s *markServiceImpl) Delete(ctx context.Context, markID int64) error {
	if markID <= 0 {
		return validation.Field("mark_id", "invalid mark ID")
	}
	if err := s.markRepo.Delete(ctx, markID); err != nil {
		return err
	}
	s.logger.Info().Int64("mark_id", markID).Msg("Mark deleted")
	return nil
}

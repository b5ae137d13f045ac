package services

import (
	"context"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// ReferenceService defines read access to faculties, years and courses
type ReferenceService interface {
	ListFaculties(ctx context.Context) ([]models.Faculty, error)
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByName(ctx context.Context, name string) (*models.Course, error)
	GetAcademicYearByName(ctx context.Context, name string) (*models.AcademicYear, error)
}

// referenceServiceImpl implements the ReferenceService interface
type referenceServiceImpl struct {
	refRepo *repositories.ReferenceRepository
}

// NewReferenceService creates a new reference data service instance
func NewReferenceService(refRepo *repositories.ReferenceRepository) ReferenceService {
	return &referenceServiceImpl{refRepo: refRepo}
}

// ListFaculties retrieves all faculties
func (s *referenceServiceImpl) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	return s.refRepo.ListFaculties(ctx)
}

// ListAcademicYears retrieves all academic years
func (s *referenceServiceImpl) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	return s.refRepo.ListAcademicYears(ctx)
}

// ListCourses retrieves all courses
func (s *referenceServiceImpl) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.refRepo.ListCourses(ctx)
}

// GetCourseByName retrieves a course by its exact name
func (s *referenceServiceImpl) GetCourseByName(ctx context.Context, name string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.Field("course", "course name is required")
	}
	return s.refRepo.GetCourseByName(ctx, name)
}

// GetAcademicYearByName retrieves an academic year by its exact name
func (s *referenceServiceImpl) GetAcademicYearByName(ctx context.Context, name string) (*models.AcademicYear, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.Field("academic_year", "academic year is required")
	}
	return s.refRepo.GetAcademicYearByName(ctx, name)
}

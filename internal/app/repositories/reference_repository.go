package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

// ReferenceRepository handles faculties, academic years and courses.
type ReferenceRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(database *db.DB) *ReferenceRepository {
	return &ReferenceRepository{
		db: database,
		sb: database.Builder(),
	}
}

// CreateFacultyIfAbsent inserts the faculty unless one with that name
// exists. It returns the faculty id and whether a row was written.
func (r *ReferenceRepository) CreateFacultyIfAbsent(ctx context.Context, name string) (int64, bool, error) {
	created, err := r.insertIfAbsent(ctx, "create faculty",
		r.sb.Insert("faculties").Columns("faculty_name").Values(name).
			Suffix("ON CONFLICT (faculty_name) DO NOTHING"))
	if err != nil {
		return 0, false, err
	}
	faculty, err := r.GetFacultyByName(ctx, name)
	if err != nil {
		return 0, false, err
	}
	return faculty.ID, created, nil
}

// CreateAcademicYearIfAbsent inserts the academic year unless it exists.
func (r *ReferenceRepository) CreateAcademicYearIfAbsent(ctx context.Context, name string) (int64, bool, error) {
	created, err := r.insertIfAbsent(ctx, "create academic year",
		r.sb.Insert("academic_years").Columns("year_name").Values(name).
			Suffix("ON CONFLICT (year_name) DO NOTHING"))
	if err != nil {
		return 0, false, err
	}
	year, err := r.GetAcademicYearByName(ctx, name)
	if err != nil {
		return 0, false, err
	}
	return year.ID, created, nil
}

// CreateCourseIfAbsent inserts the course unless it exists. An existing
// course keeps its faculty.
func (r *ReferenceRepository) CreateCourseIfAbsent(ctx context.Context, name string, facultyID *int64) (int64, bool, error) {
	created, err := r.insertIfAbsent(ctx, "create course",
		r.sb.Insert("courses").Columns("course_name", "faculty_id").Values(name, facultyID).
			Suffix("ON CONFLICT (course_name) DO NOTHING"))
	if err != nil {
		return 0, false, err
	}
	course, err := r.GetCourseByName(ctx, name)
	if err != nil {
		return 0, false, err
	}
	return course.ID, created, nil
}

func (r *ReferenceRepository) insertIfAbsent(ctx context.Context, op string, q squirrel.InsertBuilder) (bool, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return false, buildError(op, err)
	}
	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return false, translate(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, translate(op, err)
	}
	return n > 0, nil
}

func (r *ReferenceRepository) getOne(ctx context.Context, op string, dest interface{}, q squirrel.SelectBuilder, entity string, key interface{}) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return buildError(op, err)
	}
	if err := r.db.GetContext(ctx, dest, sql, args...); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.NewNotFoundError(entity, key)
		}
		return translate(op, err)
	}
	return nil
}

func (r *ReferenceRepository) selectAll(ctx context.Context, op string, dest interface{}, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return buildError(op, err)
	}
	if err := r.db.SelectContext(ctx, dest, sql, args...); err != nil {
		return translate(op, err)
	}
	return nil
}

func (r *ReferenceRepository) faculties() squirrel.SelectBuilder {
	return r.sb.Select("faculty_id", "faculty_name").From("faculties")
}

func (r *ReferenceRepository) academicYears() squirrel.SelectBuilder {
	return r.sb.Select("year_id", "year_name").From("academic_years")
}

func (r *ReferenceRepository) courses() squirrel.SelectBuilder {
	return r.sb.Select("course_id", "course_name", "faculty_id").From("courses")
}

// GetFacultyByID retrieves a faculty by id
func (r *ReferenceRepository) GetFacultyByID(ctx context.Context, id int64) (*models.Faculty, error) {
	faculty := &models.Faculty{}
	err := r.getOne(ctx, "get faculty", faculty, r.faculties().Where(squirrel.Eq{"faculty_id": id}), "faculty", id)
	if err != nil {
		return nil, err
	}
	return faculty, nil
}

// GetFacultyByName retrieves a faculty by its unique name
func (r *ReferenceRepository) GetFacultyByName(ctx context.Context, name string) (*models.Faculty, error) {
	faculty := &models.Faculty{}
	err := r.getOne(ctx, "get faculty by name", faculty, r.faculties().Where(squirrel.Eq{"faculty_name": name}), "faculty", name)
	if err != nil {
		return nil, err
	}
	return faculty, nil
}

// ListFaculties returns every faculty ordered by name.
func (r *ReferenceRepository) ListFaculties(ctx context.Context) ([]models.Faculty, error) {
	faculties := []models.Faculty{}
	if err := r.selectAll(ctx, "list faculties", &faculties, r.faculties().OrderBy("faculty_name ASC")); err != nil {
		return nil, err
	}
	return faculties, nil
}

// GetAcademicYearByID retrieves an academic year by id
func (r *ReferenceRepository) GetAcademicYearByID(ctx context.Context, id int64) (*models.AcademicYear, error) {
	year := &models.AcademicYear{}
	err := r.getOne(ctx, "get academic year", year, r.academicYears().Where(squirrel.Eq{"year_id": id}), "academic year", id)
	if err != nil {
		return nil, err
	}
	return year, nil
}

// GetAcademicYearByName retrieves an academic year by its unique name
func (r *ReferenceRepository) GetAcademicYearByName(ctx context.Context, name string) (*models.AcademicYear, error) {
	year := &models.AcademicYear{}
	err := r.getOne(ctx, "get academic year by name", year, r.academicYears().Where(squirrel.Eq{"year_name": name}), "academic year", name)
	if err != nil {
		return nil, err
	}
	return year, nil
}

// ListAcademicYears returns every academic year in insertion order.
func (r *ReferenceRepository) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	years := []models.AcademicYear{}
	if err := r.selectAll(ctx, "list academic years", &years, r.academicYears().OrderBy("year_id ASC")); err != nil {
		return nil, err
	}
	return years, nil
}

// GetCourseByID retrieves a course by id
func (r *ReferenceRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	course := &models.Course{}
	err := r.getOne(ctx, "get course", course, r.courses().Where(squirrel.Eq{"course_id": id}), "course", id)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// GetCourseByName retrieves a course by its unique name
func (r *ReferenceRepository) GetCourseByName(ctx context.Context, name string) (*models.Course, error) {
	course := &models.Course{}
	err := r.getOne(ctx, "get course by name", course, r.courses().Where(squirrel.Eq{"course_name": name}), "course", name)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// ListCourses returns every course ordered by name.
func (r *ReferenceRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	if err := r.selectAll(ctx, "list courses", &courses, r.courses().OrderBy("course_name ASC")); err != nil {
		return nil, err
	}
	return courses, nil
}

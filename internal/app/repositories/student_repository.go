package repositories

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

var studentColumns = []string{
	"student_id", "roll_number", "user_id", "name", "contact_number", "email",
	"address", "aadhaar_no", "date_of_birth", "gender", "tenth_percent",
	"twelfth_percent", "blood_group", "mother_name", "enrollment_status",
	"enrollment_date", "course_id", "academic_year_id", "profile_picture_path",
	"deleted",
}

// searchColumns maps a search field onto the column it matches against.
var searchColumns = map[models.SearchField]string{
	models.SearchByName:       "s.name",
	models.SearchByRollNumber: "s.roll_number",
	models.SearchByCourse:     "c.course_name",
	models.SearchByEmail:      "s.email",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.DB) *StudentRepository {
	return &StudentRepository{
		db: database,
		sb: database.Builder(),
	}
}

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

// Create inserts a new student and returns its id. The row is written
// with deleted = 0.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns(
			"roll_number", "user_id", "name", "contact_number", "email", "address",
			"aadhaar_no", "date_of_birth", "gender", "tenth_percent", "twelfth_percent",
			"blood_group", "mother_name", "enrollment_status", "enrollment_date",
			"course_id", "academic_year_id", "profile_picture_path", "deleted",
		).
		Values(
			s.RollNumber, s.UserID, s.Name, s.ContactNumber, s.Email, s.Address,
			s.AadhaarNo, s.DateOfBirth, s.Gender, s.TenthPercent, s.TwelfthPercent,
			s.BloodGroup, s.MotherName, string(s.EnrollmentStatus), s.EnrollmentDate,
			s.CourseID, s.AcademicYearID, s.ProfilePicturePath, 0,
		).
		Suffix("RETURNING student_id").
		ToSql()
	if err != nil {
		return 0, buildError("create student", err)
	}

	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		return 0, translate("create student", err)
	}
	return id, nil
}

// GetByID retrieves a student by id, including students in the bin.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, "get student", squirrel.Eq{"student_id": id}, id)
}

// GetByRollNumber retrieves a student by roll number, including students in the bin.
func (r *StudentRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*models.Student, error) {
	return r.getOne(ctx, "get student by roll number", squirrel.Eq{"roll_number": rollNumber}, rollNumber)
}

func (r *StudentRepository) getOne(ctx context.Context, op string, where squirrel.Sqlizer, key interface{}) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, buildError(op, err)
	}

	student := &models.Student{}
	if err := r.db.GetContext(ctx, student, sql, args...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewNotFoundError("student", key)
		}
		return nil, translate(op, err)
	}
	return student, nil
}

// Exists reports whether a student with id exists and is not in the bin.
func (r *StudentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("students").
		Where(squirrel.Eq{"student_id": id, "deleted": 0}).
		ToSql()
	if err != nil {
		return false, buildError("student exists", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, sql, args...); err != nil {
		return false, translate("student exists", err)
	}
	return n > 0, nil
}

// List returns students ordered by name. Students in the bin are only
// included when includeDeleted is set.
func (r *StudentRepository) List(ctx context.Context, includeDeleted bool) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).From("students")
	if !includeDeleted {
		q = q.Where(squirrel.Eq{"deleted": 0})
	}
	return r.selectMany(ctx, "list students", q.OrderBy("name ASC", "student_id ASC"))
}

// ListDeleted returns only the students in the bin.
func (r *StudentRepository) ListDeleted(ctx context.Context) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"deleted": 1}).
		OrderBy("name ASC", "student_id ASC")
	return r.selectMany(ctx, "list deleted students", q)
}

// Search performs a case-insensitive substring match on field. An empty
// query is the same as List(false).
func (r *StudentRepository) Search(ctx context.Context, field models.SearchField, text string) ([]*models.Student, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return r.List(ctx, false)
	}
	column, ok := searchColumns[field]
	if !ok {
		return nil, validation.Field("field", "unsupported search field "+string(field))
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
	q := r.sb.Select(qualified("s", studentColumns)...).
		From("students s").
		LeftJoin("courses c ON c.course_id = s.course_id").
		Where(squirrel.Eq{"s.deleted": 0}).
		Where(squirrel.Expr("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)).
		OrderBy("s.name ASC", "s.student_id ASC")
	return r.selectMany(ctx, "search students", q)
}

func (r *StudentRepository) selectMany(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, buildError(op, err)
	}
	students := []*models.Student{}
	if err := r.db.SelectContext(ctx, &students, sql, args...); err != nil {
		return nil, translate(op, err)
	}
	return students, nil
}

// Update applies the non-nil fields of u to the student. Optional text
// fields set to an empty string are stored as NULL.
func (r *StudentRepository) Update(ctx context.Context, id int64, u models.StudentUpdate) error {
	set := updateMap(u)
	if len(set) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}

	sql, args, err := r.sb.Update("students").
		SetMap(set).
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return buildError("update student", err)
	}

	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return translate("update student", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("update student", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("student", id)
	}
	return nil
}

func updateMap(u models.StudentUpdate) map[string]interface{} {
	set := map[string]interface{}{}
	optional := func(col string, v *string) {
		if v != nil {
			set[col] = helpers.TrimToNil(v)
		}
	}
	if u.RollNumber != nil {
		set["roll_number"] = strings.TrimSpace(*u.RollNumber)
	}
	if u.Name != nil {
		set["name"] = strings.TrimSpace(*u.Name)
	}
	optional("user_id", u.UserID)
	optional("contact_number", u.ContactNumber)
	optional("email", u.Email)
	optional("address", u.Address)
	optional("aadhaar_no", u.AadhaarNo)
	optional("date_of_birth", u.DateOfBirth)
	optional("gender", u.Gender)
	optional("blood_group", u.BloodGroup)
	optional("mother_name", u.MotherName)
	optional("profile_picture_path", u.ProfilePicturePath)
	if u.TenthPercent != nil {
		set["tenth_percent"] = *u.TenthPercent
	}
	if u.TwelfthPercent != nil {
		set["twelfth_percent"] = *u.TwelfthPercent
	}
	if u.EnrollmentStatus != nil {
		set["enrollment_status"] = string(*u.EnrollmentStatus)
	}
	if u.EnrollmentDate != nil {
		set["enrollment_date"] = *u.EnrollmentDate
	}
	if u.CourseID != nil {
		set["course_id"] = *u.CourseID
	}
	if u.AcademicYearID != nil {
		set["academic_year_id"] = *u.AcademicYearID
	}
	return set
}

// SoftDelete moves the given students to the bin. Unknown ids and students
// already in the bin are skipped; the number of rows changed is returned.
func (r *StudentRepository) SoftDelete(ctx context.Context, ids []int64) (int64, error) {
	return r.setDeleted(ctx, "soft delete students", ids, 0, 1)
}

// Restore brings the given students back from the bin.
func (r *StudentRepository) Restore(ctx context.Context, ids []int64) (int64, error) {
	return r.setDeleted(ctx, "restore students", ids, 1, 0)
}

func (r *StudentRepository) setDeleted(ctx context.Context, op string, ids []int64, from, to int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sql, args, err := r.sb.Update("students").
		Set("deleted", to).
		Where(squirrel.Eq{"student_id": ids, "deleted": from}).
		ToSql()
	if err != nil {
		return 0, buildError(op, err)
	}

	var changed int64
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, sql, args...)
		if err != nil {
			return translate(op, err)
		}
		changed, err = res.RowsAffected()
		if err != nil {
			return translate(op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// PermanentDelete removes the given students. Their marks and payments are
// removed by the ON DELETE CASCADE constraints within the same statement.
func (r *StudentRepository) PermanentDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"student_id": ids}).
		ToSql()
	if err != nil {
		return 0, buildError("permanently delete students", err)
	}

	var removed int64
	err = r.db.WithTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, sql, args...)
		if err != nil {
			return translate("permanently delete students", err)
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return translate("permanently delete students", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

var markColumns = []string{
	"mark_id", "student_id", "course_id", "subject_name", "semester",
	"marks_obtained", "max_marks", "grade",
}

// MarkRepository handles mark database operations
type MarkRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewMarkRepository creates a new MarkRepository
func NewMarkRepository(database *db.DB) *MarkRepository {
	return &MarkRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Create inserts a mark and returns its id.
func (r *MarkRepository) Create(ctx context.Context, m *models.Mark) (int64, error) {
	sql, args, err := r.sb.Insert("marks").
		Columns("student_id", "course_id", "subject_name", "semester", "marks_obtained", "max_marks", "grade").
		Values(m.StudentID, m.CourseID, m.SubjectName, m.Semester, m.MarksObtained, m.MaxMarks, m.Grade).
		Suffix("RETURNING mark_id").
		ToSql()
	if err != nil {
		return 0, buildError("create mark", err)
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		return 0, translate("create mark", err)
	}
	return id, nil
}

// ListByStudent returns a student's marks ordered by semester then subject.
func (r *MarkRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Mark, error) {
	sql, args, err := r.sb.Select(markColumns...).
		From("marks").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("semester ASC", "subject_name ASC", "mark_id ASC").
		ToSql()
	if err != nil {
		return nil, buildError("list marks", err)
	}
	marks := []models.Mark{}
	if err := r.db.SelectContext(ctx, &marks, sql, args...); err != nil {
		return nil, translate("list marks", err)
	}
	return marks, nil
}

// CountByStudent returns how many marks a student has.
func (r *MarkRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("marks").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, buildError("count marks", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, sql, args...); err != nil {
		return 0, translate("count marks", err)
	}
	return n, nil
}

// Delete removes a mark.
func (r *MarkRepository) Delete(ctx context.Context, markID int64) error {
	sql, args, err := r.sb.Delete("marks").
		Where(squirrel.Eq{"mark_id": markID}).
		ToSql()
	if err != nil {
		return buildError("delete mark", err)
	}
	res, err := r.db.ExecContext(ctx, sql, args...)
	if err != nil {
		return translate("delete mark", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translate("delete mark", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("mark", markID)
	}
	return nil
}

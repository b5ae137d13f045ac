package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// columnKind controls how a selected value is rendered.
type columnKind int

const (
	kindText columnKind = iota
	kindMoney
	kindInt
	kindNumber
)

// reportColumn pairs a header with the expression that produces it, so the
// header order always follows the projection order.
type reportColumn struct {
	header string
	expr   string
	kind   columnKind
}

type reportQuery struct {
	columns []reportColumn
	build   func(q squirrel.SelectBuilder, params models.ReportParams) (squirrel.SelectBuilder, error)
}

var reportQueries = map[models.ReportType]reportQuery{
	models.ReportFullStudentList: {
		columns: []reportColumn{
			{"Roll No", "s.roll_number", kindText},
			{"Name", "s.name", kindText},
			{"Course", "c.course_name", kindText},
			{"Year", "y.year_name", kindText},
			{"Faculty", "f.faculty_name", kindText},
			{"Email", "s.email", kindText},
			{"Contact", "s.contact_number", kindText},
			{"Enroll Date", "s.enrollment_date", kindText},
		},
		build: func(q squirrel.SelectBuilder, _ models.ReportParams) (squirrel.SelectBuilder, error) {
			return q.From("students s").
				LeftJoin("courses c ON c.course_id = s.course_id").
				LeftJoin("academic_years y ON y.year_id = s.academic_year_id").
				LeftJoin("faculties f ON f.faculty_id = c.faculty_id").
				Where(squirrel.Eq{"s.deleted": 0}).
				OrderBy("s.name ASC", "s.roll_number ASC"), nil
		},
	},
	models.ReportEnrollment: {
		columns: []reportColumn{
			{"Date", "s.enrollment_date", kindText},
			{"Roll No", "s.roll_number", kindText},
			{"Name", "s.name", kindText},
			{"Course", "c.course_name", kindText},
			{"Status", "CASE WHEN s.enrollment_status = 'active' THEN 'Active' ELSE 'Inactive' END", kindText},
		},
		build: func(q squirrel.SelectBuilder, _ models.ReportParams) (squirrel.SelectBuilder, error) {
			return q.From("students s").
				LeftJoin("courses c ON c.course_id = s.course_id").
				Where(squirrel.Eq{"s.deleted": 0}).
				OrderBy("s.enrollment_date DESC", "s.roll_number ASC"), nil
		},
	},
	models.ReportPaymentHistory: {
		columns: []reportColumn{
			{"Date", "p.payment_date", kindText},
			{"Student", "s.name", kindText},
			{"Amount", "p.amount_paid", kindMoney},
			{"Type", "p.payment_type", kindText},
			{"Receipt#", "p.receipt_number", kindText},
		},
		build: buildPaymentHistory,
	},
	models.ReportStudentsPerCourse: {
		columns: []reportColumn{
			{"Course", "c.course_name", kindText},
			{"Faculty", "f.faculty_name", kindText},
			{"Students", "COUNT(s.student_id)", kindInt},
		},
		build: func(q squirrel.SelectBuilder, _ models.ReportParams) (squirrel.SelectBuilder, error) {
			return q.From("courses c").
				LeftJoin("faculties f ON f.faculty_id = c.faculty_id").
				LeftJoin("students s ON s.course_id = c.course_id AND s.deleted = 0").
				GroupBy("c.course_id", "c.course_name", "f.faculty_name").
				OrderBy("c.course_name ASC"), nil
		},
	},
	models.ReportFacultySummary: {
		columns: []reportColumn{
			{"Faculty", "f.faculty_name", kindText},
			{"Courses", "COUNT(DISTINCT c.course_id)", kindInt},
			{"Students", "COUNT(s.student_id)", kindInt},
		},
		build: func(q squirrel.SelectBuilder, _ models.ReportParams) (squirrel.SelectBuilder, error) {
			return q.From("faculties f").
				LeftJoin("courses c ON c.faculty_id = f.faculty_id").
				LeftJoin("students s ON s.course_id = c.course_id AND s.deleted = 0").
				GroupBy("f.faculty_id", "f.faculty_name").
				OrderBy("f.faculty_name ASC"), nil
		},
	},
	models.ReportStudentMarks: {
		columns: []reportColumn{
			{"Semester", "m.semester", kindInt},
			{"Subject", "m.subject_name", kindText},
			{"Course", "c.course_name", kindText},
			{"Obtained", "m.marks_obtained", kindNumber},
			{"Max", "m.max_marks", kindNumber},
			{"Grade", "m.grade", kindText},
		},
		build: func(q squirrel.SelectBuilder, params models.ReportParams) (squirrel.SelectBuilder, error) {
			roll := strings.TrimSpace(params.RollNumber)
			if roll == "" {
				return q, validation.Field("roll_number", "roll_number is required for the Student Marks report")
			}
			return q.From("marks m").
				Join("students s ON s.student_id = m.student_id").
				LeftJoin("courses c ON c.course_id = m.course_id").
				Where(squirrel.Eq{"s.roll_number": roll, "s.deleted": 0}).
				OrderBy("m.semester ASC", "m.subject_name ASC"), nil
		},
	},
}

func buildPaymentHistory(q squirrel.SelectBuilder, params models.ReportParams) (squirrel.SelectBuilder, error) {
	q = q.From("payments p").
		Join("students s ON s.student_id = p.student_id").
		Where(squirrel.Eq{"s.deleted": 0})
	if params.Since != "" {
		if !helpers.IsDate(params.Since) {
			return q, validation.Field("since", "since must be a date in YYYY-MM-DD format")
		}
		q = q.Where(squirrel.GtOrEq{"p.payment_date": params.Since})
	}
	if params.Until != "" {
		if !helpers.IsDate(params.Until) {
			return q, validation.Field("until", "until must be a date in YYYY-MM-DD format")
		}
		q = q.Where(squirrel.LtOrEq{"p.payment_date": params.Until})
	}
	if roll := strings.TrimSpace(params.RollNumber); roll != "" {
		q = q.Where(squirrel.Eq{"s.roll_number": roll})
	}
	return q.OrderBy("p.payment_date DESC", "p.receipt_number ASC"), nil
}

// ReportRepository runs the fixed report queries.
type ReportRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(database *db.DB) *ReportRepository {
	return &ReportRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Build runs the report and returns its rows as formatted strings. NULL
// values become empty strings. An empty result is not an error.
func (r *ReportRepository) Build(ctx context.Context, reportType models.ReportType, params models.ReportParams) (*models.TabularResult, error) {
	rq, ok := reportQueries[reportType]
	if !ok {
		return nil, validation.Field("report_type", fmt.Sprintf("unknown report type %q", reportType))
	}

	headers := make([]string, len(rq.columns))
	exprs := make([]string, len(rq.columns))
	for i, c := range rq.columns {
		headers[i] = c.header
		exprs[i] = c.expr
	}

	q, err := rq.build(r.sb.Select(exprs...), params)
	if err != nil {
		return nil, err
	}
	op := "build report " + string(reportType)
	query, args, err := q.ToSql()
	if err != nil {
		return nil, buildError(op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	result := &models.TabularResult{Headers: headers, Rows: [][]string{}}
	values := make([]sql.NullString, len(rq.columns))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, translate(op, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v, rq.columns[i].kind)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return result, nil
}

func formatValue(v sql.NullString, kind columnKind) string {
	s := helpers.NullStringValue(v)
	if s == "" || kind == kindText {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	switch kind {
	case kindMoney:
		return strconv.FormatFloat(f, 'f', 2, 64)
	case kindInt:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

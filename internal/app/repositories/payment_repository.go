package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
)

var paymentColumns = []string{
	"payment_id", "student_id", "amount_paid", "payment_date", "payment_type",
	"receipt_number", "description",
}

// PaymentRepository handles payment database operations. Payments are
// insert-only.
type PaymentRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(database *db.DB) *PaymentRepository {
	return &PaymentRepository{
		db: database,
		sb: database.Builder(),
	}
}

// Create inserts a payment and returns its id.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (int64, error) {
	sql, args, err := r.sb.Insert("payments").
		Columns("student_id", "amount_paid", "payment_date", "payment_type", "receipt_number", "description").
		Values(p.StudentID, p.AmountPaid, p.PaymentDate, p.PaymentType, p.ReceiptNumber, p.Description).
		Suffix("RETURNING payment_id").
		ToSql()
	if err != nil {
		return 0, buildError("create payment", err)
	}
	var id int64
	if err := r.db.QueryRowxContext(ctx, sql, args...).Scan(&id); err != nil {
		return 0, translate("create payment", err)
	}
	return id, nil
}

// ListByStudent returns a student's payments, newest first.
func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Payment, error) {
	sql, args, err := r.sb.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("payment_date DESC", "payment_id DESC").
		ToSql()
	if err != nil {
		return nil, buildError("list payments", err)
	}
	payments := []models.Payment{}
	if err := r.db.SelectContext(ctx, &payments, sql, args...); err != nil {
		return nil, translate("list payments", err)
	}
	return payments, nil
}

// CountByStudent returns how many payments a student has.
func (r *PaymentRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("payments").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return 0, buildError("count payments", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, sql, args...); err != nil {
		return 0, translate("count payments", err)
	}
	return n, nil
}

// GetReceipt returns the payment with the given receipt number joined with
// the student and course it belongs to.
func (r *PaymentRepository) GetReceipt(ctx context.Context, receiptNumber string) (*models.Receipt, error) {
	sql, args, err := r.sb.Select(
		"p.payment_id", "p.student_id", "p.amount_paid", "p.payment_date",
		"p.payment_type", "p.receipt_number", "p.description",
		"s.name AS student_name", "s.roll_number", "c.course_name",
	).
		From("payments p").
		Join("students s ON s.student_id = p.student_id").
		LeftJoin("courses c ON c.course_id = s.course_id").
		Where(squirrel.Eq{"p.receipt_number": receiptNumber}).
		ToSql()
	if err != nil {
		return nil, buildError("get receipt", err)
	}
	receipt := &models.Receipt{}
	if err := r.db.GetContext(ctx, receipt, sql, args...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.NewNotFoundError("receipt", receiptNumber)
		}
		return nil, translate("get receipt", err)
	}
	return receipt, nil
}

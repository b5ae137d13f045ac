package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// PaymentService defines the interface for fee payments. Payments cannot
// be changed or removed once recorded.
type PaymentService interface {
	Record(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.Payment, error)
	GetByReceipt(ctx context.Context, receiptNumber string) (*models.Receipt, error)
}

// paymentServiceImpl implements the PaymentService interface
type paymentServiceImpl struct {
	paymentRepo *repositories.PaymentRepository
	studentRepo *repositories.StudentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(paymentRepo *repositories.PaymentRepository, studentRepo *repositories.StudentRepository, logger zerolog.Logger) PaymentService {
	return &paymentServiceImpl{
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// ReceiptNumber builds the default receipt number for a payment.
func ReceiptNumber(studentID int64, at time.Time) string {
	return "RCPT" + strconv.FormatInt(studentID, 10) + strconv.FormatInt(at.Unix(), 10)
}

// Record stores a payment, defaulting the date to today and generating a
// receipt number when none is given.
func (s *paymentServiceImpl) Record(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment == nil {
		return nil, validation.Field("payment", "payment is required")
	}
	now := s.now()
	payment.PaymentDate = strings.TrimSpace(payment.PaymentDate)
	if payment.PaymentDate == "" {
		payment.PaymentDate = helpers.FormatDate(now)
	}
	payment.ReceiptNumber = strings.TrimSpace(payment.ReceiptNumber)
	if payment.ReceiptNumber == "" {
		payment.ReceiptNumber = ReceiptNumber(payment.StudentID, now)
	}
	payment.PaymentType = helpers.TrimToNil(payment.PaymentType)
	payment.Description = helpers.TrimToNil(payment.Description)

	if err := validation.Struct(payment); err != nil {
		return nil, err
	}
	if err := requireActiveStudent(ctx, s.studentRepo, payment.StudentID); err != nil {
		return nil, err
	}

	id, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = id
	s.logger.Info().
		Int64("student_id", payment.StudentID).
		Str("receipt_number", payment.ReceiptNumber).
		Float64("amount", payment.AmountPaid).
		Msg("Payment recorded")
	return payment, nil
}

// ListForStudent returns a student's payments, newest first
func (s *paymentServiceImpl) ListForStudent(ctx context.Context, studentID int64) ([]models.Payment, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByStudent(ctx, studentID)
}

// GetByReceipt returns the payment with its student details
func (s *paymentServiceImpl) GetByReceipt(ctx context.Context, receiptNumber string) (*models.Receipt, error) {
	receiptNumber = strings.TrimSpace(receiptNumber)
	if receiptNumber == "" {
		return nil, validation.Field("receipt_number", "receipt number is required")
	}
	return s.paymentRepo.GetReceipt(ctx, receiptNumber)
}

// ReceiptTable lays a receipt out as Field/Value rows for export.
func ReceiptTable(r *models.Receipt) *models.TabularResult {
	return &models.TabularResult{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Receipt No", r.ReceiptNumber},
			{"Date", r.PaymentDate},
			{"Student", r.StudentName},
			{"Roll No", r.RollNumber},
			{"Course", helpers.Deref(r.CourseName)},
			{"Amount", fmt.Sprintf("%.2f", r.AmountPaid)},
			{"Type", helpers.Deref(r.PaymentType)},
			{"Description", helpers.Deref(r.Description)},
		},
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/testutil"
)

func TestRecordPaymentDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.svc.Payments.(*paymentServiceImpl).now = fixedClock("2025-03-01T09:30:00Z")
	ctx := context.Background()
	id := testutil.CreateStudent(t, env.db, "R001", "Asha Rao")

	p, err := env.svc.Payments.Record(ctx, &models.Payment{StudentID: id, AmountPaid: 1500, PaymentType: helpers.StringPtr(" ")})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "2025-03-01", p.PaymentDate)
	assert.Equal(t, ReceiptNumber(id, fixedClock("2025-03-01T09:30:00Z")()), p.ReceiptNumber)
	assert.Equal(t, "RCPT11740821400", p.ReceiptNumber)
	assert.Nil(t, p.PaymentType)

	_, err = env.svc.Payments.Record(ctx, &models.Payment{StudentID: id, AmountPaid: 10})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	list, err := env.svc.Payments.ListForStudent(ctx, id)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecordPaymentRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := testutil.CreateStudent(t, env.db, "R001", "Asha Rao")

	_, err := env.svc.Payments.Record(ctx, &models.Payment{StudentID: id, AmountPaid: 0})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.svc.Payments.Record(ctx, &models.Payment{StudentID: id, AmountPaid: 10, PaymentDate: "01-03-2025"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.svc.Payments.Record(ctx, &models.Payment{StudentID: 999, AmountPaid: 10})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	assert.Equal(t, 0, testutil.Count(t, env.db, "payments"))
}

func TestReceiptTable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := testutil.CreateStudent(t, env.db, "R001", "Asha Rao")
	_, err := env.svc.Payments.Record(ctx, &models.Payment{
		StudentID:     id,
		AmountPaid:    1250.5,
		PaymentDate:   "2024-09-10",
		ReceiptNumber: "RCPT-A2",
		PaymentType:   helpers.StringPtr("Tuition"),
	})
	require.NoError(t, err)

	receipt, err := env.svc.Payments.GetByReceipt(ctx, " RCPT-A2 ")
	require.NoError(t, err)

	table := ReceiptTable(receipt)
	assert.Equal(t, []string{"Field", "Value"}, table.Headers)
	assert.Equal(t, [][]string{
		{"Receipt No", "RCPT-A2"},
		{"Date", "2024-09-10"},
		{"Student", "Asha Rao"},
		{"Roll No", "R001"},
		{"Course", "BCA"},
		{"Amount", "1250.50"},
		{"Type", "Tuition"},
		{"Description", ""},
	}, table.Rows)

	_, err = env.svc.Payments.GetByReceipt(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

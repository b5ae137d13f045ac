package repositories_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/testutil"
)

func TestReferenceRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewReferenceRepository(database)

	id, created, err := repo.CreateFacultyIfAbsent(ctx, "School of Management")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, testutil.FacultyManagement, id)

	id, created, err = repo.CreateCourseIfAbsent(ctx, "M.Com", &id)
	require.NoError(t, err)
	assert.True(t, created)

	course, err := repo.GetCourseByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "M.Com", course.Name)
	assert.Equal(t, testutil.FacultyManagement, *course.FacultyID)

	_, err = repo.GetCourseByName(ctx, "PhD")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	faculty, err := repo.GetFacultyByID(ctx, testutil.FacultyScience)
	require.NoError(t, err)
	assert.Equal(t, "School of Science", faculty.Name)

	year, err := repo.GetAcademicYearByID(ctx, testutil.YearSecond)
	require.NoError(t, err)
	assert.Equal(t, "Second Year", year.Name)

	courses, err := repo.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 6)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewUserRepository(database)

	user := &models.User{UserID: "R001", PasswordHash: "hash", DisplayName: "Asha Rao", Role: models.RoleStudent}
	require.NoError(t, repo.Create(ctx, user))
	assert.ErrorIs(t, repo.Create(ctx, user), apperrors.ErrDuplicateKey)

	created, err := repo.CreateIfAbsent(ctx, user)
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, repo.UpdatePasswordHash(ctx, "R001", "hash2"))
	got, err := repo.GetByID(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, "hash2", got.PasswordHash)
	assert.Equal(t, models.RoleStudent, got.Role)

	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "nobody", "x"), apperrors.ErrNotFound)
	_, err = repo.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewMarkRepository(database)
	student := testutil.CreateStudent(t, database, "R001", "Asha Rao")

	id, err := repo.Create(ctx, &models.Mark{
		StudentID: student, CourseID: testutil.CourseBCA, SubjectName: "Maths",
		Semester: 1, MarksObtained: 45, MaxMarks: 50, Grade: "A+",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Mark{
		StudentID: student, CourseID: testutil.CourseBCA, SubjectName: "Maths",
		Semester: 1, MarksObtained: 60, MaxMarks: 50, Grade: "A+",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = repo.Create(ctx, &models.Mark{
		StudentID: 999, CourseID: testutil.CourseBCA, SubjectName: "Maths",
		Semester: 1, MarksObtained: 10, MaxMarks: 50, Grade: "F",
	})
	assert.ErrorIs(t, err, apperrors.ErrReference)

	marks, err := repo.ListByStudent(ctx, student)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, 45.0, marks[0].MarksObtained)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), apperrors.ErrNotFound)

	n, err := repo.CountByStudent(ctx, student)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPaymentRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewPaymentRepository(database)
	student := testutil.CreateStudent(t, database, "R001", "Asha Rao")

	_, err := repo.Create(ctx, &models.Payment{
		StudentID: student, AmountPaid: 5000, PaymentDate: "2024-07-02",
		PaymentType: helpers.StringPtr("Tuition"), ReceiptNumber: "RCPT1",
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Payment{
		StudentID: student, AmountPaid: 10, PaymentDate: "2024-07-03", ReceiptNumber: "RCPT1",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	_, err = repo.Create(ctx, &models.Payment{
		StudentID: student, AmountPaid: 0, PaymentDate: "2024-07-03", ReceiptNumber: "RCPT2",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	receipt, err := repo.GetReceipt(ctx, "RCPT1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", receipt.StudentName)
	assert.Equal(t, "R001", receipt.RollNumber)
	assert.Equal(t, "BCA", *receipt.CourseName)
	assert.Equal(t, 5000.0, receipt.AmountPaid)
	assert.Equal(t, "Tuition", *receipt.PaymentType)

	_, err = repo.GetReceipt(ctx, "RCPT404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	n, err := repo.CountByStudent(ctx, student)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCommunicationRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewCommunicationRepository(database)

	first, err := repo.Create(ctx, &models.Communication{
		SenderID: helpers.StringPtr("admin"), Subject: "Fees", MessageText: "When?",
		Type: models.CommQuery, Status: models.CommPending, Timestamp: "2024-07-01 10:00:00",
	})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &models.Communication{
		Subject: "Holiday", MessageText: "Closed Friday",
		Type: models.CommAnnouncement, Status: models.CommPosted, Timestamp: "2024-07-02 09:00:00",
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, models.CommunicationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID)

	queries, err := repo.List(ctx, models.CommunicationFilter{Type: models.CommQuery, SenderID: "admin"})
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, first, queries[0].ID)

	require.NoError(t, repo.SetResponse(ctx, first, "Next week", "2024-07-03 11:00:00", models.CommAnswered))
	got, err := repo.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, models.CommAnswered, got.Status)
	assert.Equal(t, "Next week", *got.ResponseText)
	assert.Equal(t, "2024-07-03 11:00:00", *got.ResponseTimestamp)

	require.NoError(t, repo.SetStatus(ctx, first, models.CommRead))
	require.NoError(t, repo.Delete(ctx, first))
	assert.ErrorIs(t, repo.Delete(ctx, first), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, first, models.CommRead), apperrors.ErrNotFound)
}

func TestDeliveryLogRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewDeliveryLogRepository(database)

	for i, status := range []models.DeliveryStatus{models.DeliveryCompleted, models.DeliveryFailed, models.DeliverySent} {
		entry := &models.DeliveryLog{
			ArtefactType:       models.ArtefactReport,
			ArtefactIdentifier: "FullStudentList",
			RecipientAddress:   "local",
			Channel:            models.ChannelFile,
			DeliveryStatus:     status,
			Timestamp:          "2024-07-01 10:00:00",
		}
		if status == models.DeliveryFailed {
			entry.ErrorMessage = helpers.StringPtr("disk full")
		}
		id, err := repo.Record(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	entries, err := repo.List(ctx, models.DeliveryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.DeliveryCompleted, entries[0].DeliveryStatus)

	failed, err := repo.List(ctx, models.DeliveryFilter{Status: models.DeliveryFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "disk full", *failed[0].ErrorMessage)

	limited, err := repo.List(ctx, models.DeliveryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = repo.Record(ctx, &models.DeliveryLog{
		ArtefactType: models.ArtefactReport, ArtefactIdentifier: "x", RecipientAddress: "x",
		Channel: models.Channel("fax"), DeliveryStatus: models.DeliverySent, Timestamp: "2024-07-01 10:00:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

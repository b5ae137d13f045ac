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

func names(students []*models.Student) []string {
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = s.Name
	}
	return out
}

func TestStudentCreateAndGet(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)

	s := testutil.NewStudent("R001", "Asha Rao")
	s.TenthPercent = helpers.Float64Ptr(88.5)
	id, err := repo.Create(ctx, s)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "R001", got.RollNumber)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, 88.5, *got.TenthPercent)
	assert.Nil(t, got.TwelfthPercent)
	assert.Equal(t, models.EnrollmentActive, got.EnrollmentStatus)
	assert.False(t, got.Deleted)

	byRoll, err := repo.GetByRollNumber(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, id, byRoll.ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStudentCreateDuplicateRollNumber(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)

	testutil.CreateStudent(t, database, "R001", "Asha Rao")

	_, err := repo.Create(ctx, testutil.NewStudent("R001", "Someone Else"))
	require.ErrorIs(t, err, apperrors.ErrDuplicateKey)
	assert.Equal(t, 1, testutil.Count(t, database, "students"))
}

func TestStudentCreateUnknownCourse(t *testing.T) {
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)

	s := testutil.NewStudent("R001", "Asha Rao")
	course := int64(404)
	s.CourseID = &course

	_, err := repo.Create(context.Background(), s)
	assert.ErrorIs(t, err, apperrors.ErrReference)
}

func TestStudentUpdate(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)
	id := testutil.CreateStudent(t, database, "R001", "Asha Rao")

	err := repo.Update(ctx, id, models.StudentUpdate{
		Name:         helpers.StringPtr("Asha R. Rao"),
		Email:        helpers.StringPtr(""),
		TenthPercent: helpers.Float64Ptr(91),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha R. Rao", got.Name)
	assert.Nil(t, got.Email)
	assert.Equal(t, 91.0, *got.TenthPercent)
	assert.Equal(t, "R001", got.RollNumber)

	require.NoError(t, repo.Update(ctx, id, models.StudentUpdate{}))
	assert.ErrorIs(t, repo.Update(ctx, 999, models.StudentUpdate{}), apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, 999, models.StudentUpdate{Name: helpers.StringPtr("X")}), apperrors.ErrNotFound)
}

func TestStudentUpdateRejectedByConstraint(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)
	testutil.CreateStudent(t, database, "R001", "Asha Rao")
	id := testutil.CreateStudent(t, database, "R002", "Bina Das")

	err := repo.Update(ctx, id, models.StudentUpdate{RollNumber: helpers.StringPtr("R001")})
	require.ErrorIs(t, err, apperrors.ErrDuplicateKey)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "R002", got.RollNumber)
}

func TestStudentSoftDeleteAndRestore(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)
	a := testutil.CreateStudent(t, database, "R001", "Asha Rao")
	b := testutil.CreateStudent(t, database, "R002", "Bina Das")

	n, err := repo.SoftDelete(ctx, []int64{a, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// already in the bin
	n, err = repo.SoftDelete(ctx, []int64{a})
	require.NoError(t, err)
	assert.Zero(t, n)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bina Das"}, names(active))

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha Rao", "Bina Das"}, names(all))

	bin, err := repo.ListDeleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha Rao"}, names(bin))

	found, err := repo.Search(ctx, models.SearchByName, "asha")
	require.NoError(t, err)
	assert.Empty(t, found)

	exists, err := repo.Exists(ctx, a)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err = repo.Restore(ctx, []int64{a, b})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	active, err = repo.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha Rao", "Bina Das"}, names(active))

	n, err = repo.SoftDelete(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStudentPermanentDeleteCascades(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)
	a := testutil.CreateStudent(t, database, "R001", "Asha Rao")
	b := testutil.CreateStudent(t, database, "R002", "Bina Das")

	_, err := repositories.NewMarkRepository(database).Create(ctx, &models.Mark{
		StudentID: a, CourseID: testutil.CourseBCA, SubjectName: "Maths", Semester: 1,
		MarksObtained: 80, MaxMarks: 100, Grade: "A",
	})
	require.NoError(t, err)
	_, err = repositories.NewPaymentRepository(database).Create(ctx, &models.Payment{
		StudentID: a, AmountPaid: 5000, PaymentDate: "2024-07-02", ReceiptNumber: "RCPT1",
	})
	require.NoError(t, err)

	n, err := repo.PermanentDelete(ctx, []int64{a, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, 0, testutil.Count(t, database, "marks"))
	assert.Equal(t, 0, testutil.Count(t, database, "payments"))

	_, err = repo.GetByID(ctx, a)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.GetByID(ctx, b)
	assert.NoError(t, err)
}

func TestStudentSearch(t *testing.T) {
	ctx := context.Background()
	database := testutil.PrepareDB(t)
	repo := repositories.NewStudentRepository(database)

	testutil.CreateStudent(t, database, "R001", "Asha Rao")
	testutil.CreateStudent(t, database, "R002", "Bina Das")
	mba := testutil.NewStudent("M100", "Chetan 100%")
	course := testutil.CourseBBA
	mba.CourseID = &course
	_, err := repo.Create(ctx, mba)
	require.NoError(t, err)

	tests := []struct {
		name  string
		field models.SearchField
		text  string
		want  []string
	}{
		{"name case insensitive", models.SearchByName, "ASHA", []string{"Asha Rao"}},
		{"roll number substring", models.SearchByRollNumber, "r00", []string{"Asha Rao", "Bina Das"}},
		{"course name", models.SearchByCourse, "bba", []string{"Chetan 100%"}},
		{"email", models.SearchByEmail, "r002@", []string{"Bina Das"}},
		{"percent is literal", models.SearchByName, "%", []string{"Chetan 100%"}},
		{"underscore is literal", models.SearchByName, "_", []string{}},
		{"empty text lists all", models.SearchByName, "  ", []string{"Asha Rao", "Bina Das", "Chetan 100%"}},
		{"no match", models.SearchByName, "zed", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.field, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	_, err = repo.Search(ctx, models.SearchField("address"), "x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

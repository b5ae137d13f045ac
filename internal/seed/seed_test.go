package seed_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/seed"
	"github.com/yigit/studentrecords/internal/testutil"
)

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	cfg := testutil.Config()

	require.NoError(t, seed.CreateDefaultData(ctx, database, cfg, zerolog.Nop()))

	refs := repositories.NewReferenceRepository(database)
	faculties, err := refs.ListFaculties(ctx)
	require.NoError(t, err)
	assert.Len(t, faculties, 3)

	years, err := refs.ListAcademicYears(ctx)
	require.NoError(t, err)
	require.Len(t, years, 5)
	assert.Equal(t, "First Year", years[0].Name)
	assert.Equal(t, "Fifth Year", years[4].Name)

	mca, err := refs.GetCourseByName(ctx, "MCA")
	require.NoError(t, err)
	require.NotNil(t, mca.FacultyID)
	assert.Equal(t, testutil.FacultyComputerScience, *mca.FacultyID)

	bsc, err := refs.GetCourseByName(ctx, "B.Sc. (Physics)")
	require.NoError(t, err)
	assert.Equal(t, testutil.FacultyScience, *bsc.FacultyID)

	admin, err := repositories.NewUserRepository(database).GetByID(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "admin123"))
}

func TestCreateDefaultDataNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewDB(t)
	cfg := testutil.Config()
	users := repositories.NewUserRepository(database)

	require.NoError(t, seed.CreateDefaultData(ctx, database, cfg, zerolog.Nop()))

	hash, err := auth.HashPassword("changed-password")
	require.NoError(t, err)
	require.NoError(t, users.UpdatePasswordHash(ctx, "admin", hash))
	testutil.Exec(t, database, `UPDATE courses SET faculty_id = ? WHERE course_name = ?`, testutil.FacultyManagement, "BCA")

	require.NoError(t, seed.CreateDefaultData(ctx, database, cfg, zerolog.Nop()))

	assert.Equal(t, 3, testutil.Count(t, database, "faculties"))
	assert.Equal(t, 5, testutil.Count(t, database, "academic_years"))
	assert.Equal(t, 5, testutil.Count(t, database, "courses"))
	assert.Equal(t, 1, testutil.Count(t, database, "users"))

	admin, err := users.GetByID(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "changed-password"))

	bca, err := repositories.NewReferenceRepository(database).GetCourseByName(ctx, "BCA")
	require.NoError(t, err)
	assert.Equal(t, testutil.FacultyManagement, *bca.FacultyID)
}

func TestCreateDefaultDataReportsFailures(t *testing.T) {
	database := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.Seed.AdminPassword = "123"

	err := seed.CreateDefaultData(context.Background(), database, cfg, zerolog.Nop())
	require.ErrorIs(t, err, auth.ErrPasswordTooShort)

	// the rest of the reference data is still written
	assert.Equal(t, 5, testutil.Count(t, database, "courses"))
	assert.Equal(t, 0, testutil.Count(t, database, "users"))
}

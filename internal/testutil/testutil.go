// Package testutil prepares seeded in-memory record stores for tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/studentrecords/internal/app/migrations"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/seed"
)

// Seeded reference ids, in insertion order.
const (
	FacultyComputerScience int64 = 1
	FacultyManagement      int64 = 2
	FacultyScience         int64 = 3

	CourseBCA int64 = 1
	CourseMCA int64 = 2
	CourseBBA int64 = 3

	YearFirst  int64 = 1
	YearSecond int64 = 2
)

var dbCounter int64

// Config returns a configuration suitable for tests.
func Config() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	cfg.Storage.ExportDir = "exports"
	cfg.Email.Provider = config.EmailConsole
	cfg.Email.Timeout = "5s"
	cfg.Seed.AdminUserID = "admin"
	cfg.Seed.AdminPassword = "admin123"
	cfg.Seed.AdminDisplayName = "Administrator"
	return cfg
}

// NewDB opens a fresh in-memory database with the schema applied but no
// seed data.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost

	database, err := db.Open(Config())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.NewMigrator(database, zerolog.Nop()).Migrate(context.Background()))
	return database
}

// PrepareDB opens a fresh in-memory database, migrates and seeds it.
func PrepareDB(t *testing.T) *db.DB {
	t.Helper()
	database := NewDB(t)
	require.NoError(t, seed.CreateDefaultData(context.Background(), database, Config(), zerolog.Nop()))
	return database
}

// NewStudent returns a valid student that has not been stored yet.
func NewStudent(roll, name string) *models.Student {
	course := CourseBCA
	year := YearFirst
	return &models.Student{
		RollNumber:       roll,
		Name:             name,
		Email:            helpers.StringPtr(fmt.Sprintf("%s@example.edu", roll)),
		EnrollmentStatus: models.EnrollmentActive,
		EnrollmentDate:   "2024-07-01",
		CourseID:         &course,
		AcademicYearID:   &year,
	}
}

// CreateStudent stores a student directly through the repository.
func CreateStudent(t *testing.T, database *db.DB, roll, name string) int64 {
	t.Helper()
	id, err := repositories.NewStudentRepository(database).Create(context.Background(), NewStudent(roll, name))
	require.NoError(t, err)
	return id
}

// Count returns the number of rows in table.
func Count(t *testing.T, database *db.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

// Exec runs a statement with no result, for arranging test state.
func Exec(t *testing.T, database *db.DB, query string, args ...interface{}) {
	t.Helper()
	_, err := database.Exec(database.Rebind(query), args...)
	require.NoError(t, err)
}

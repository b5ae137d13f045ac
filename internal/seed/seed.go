package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/auth"
)

// DefaultFaculties are created on first start.
var DefaultFaculties = []string{
	"School of Computer Science",
	"School of Management",
	"School of Science",
}

// DefaultAcademicYears are created on first start, in order.
var DefaultAcademicYears = []string{
	"First Year",
	"Second Year",
	"Third Year",
	"Fourth Year",
	"Fifth Year",
}

// defaultCourse pairs a course with the faculty it belongs to.
type defaultCourse struct {
	Name    string
	Faculty string
}

// DefaultCourses are created on first start.
var DefaultCourses = []defaultCourse{
	{Name: "BCA", Faculty: "School of Computer Science"},
	{Name: "MCA", Faculty: "School of Computer Science"},
	{Name: "BBA", Faculty: "School of Management"},
	{Name: "B.Sc. (Physics)", Faculty: "School of Science"},
	{Name: "Integrated MCA", Faculty: "School of Computer Science"},
}

// CreateDefaultData creates the default reference data and the admin
// account if they don't exist. Existing rows are never overwritten. Every
// failure is logged and the joined errors are returned; callers carry on.
func CreateDefaultData(ctx context.Context, database *db.DB, cfg *config.Config, lgr zerolog.Logger) error {
	refRepo := repositories.NewReferenceRepository(database)
	userRepo := repositories.NewUserRepository(database)

	lgr.Info().Msg("Checking/Creating default data (Faculties/Years/Courses)...")
	var finalErr error // To collect errors without stopping the process

	facultyIDs := make(map[string]int64, len(DefaultFaculties))
	for _, name := range DefaultFaculties {
		id, created, err := refRepo.CreateFacultyIfAbsent(ctx, name)
		if err != nil {
			lgr.Error().Err(err).Str("faculty", name).Msg("Error creating default faculty")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		facultyIDs[name] = id
		if created {
			lgr.Debug().Str("faculty", name).Msg("Default faculty created")
		}
	}

	for _, name := range DefaultAcademicYears {
		if _, _, err := refRepo.CreateAcademicYearIfAbsent(ctx, name); err != nil {
			lgr.Error().Err(err).Str("year", name).Msg("Error creating default academic year")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, course := range DefaultCourses {
		var facultyID *int64
		if id, ok := facultyIDs[course.Faculty]; ok {
			facultyID = &id
		}
		if _, _, err := refRepo.CreateCourseIfAbsent(ctx, course.Name, facultyID); err != nil {
			lgr.Error().Err(err).Str("course", course.Name).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createAdmin(ctx, userRepo, cfg, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation completed.")
	}
	return finalErr
}

func createAdmin(ctx context.Context, userRepo *repositories.UserRepository, cfg *config.Config, lgr zerolog.Logger) error {
	exists, err := userRepo.Exists(ctx, cfg.Seed.AdminUserID)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking default admin user")
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}
	admin := &models.User{
		UserID:       cfg.Seed.AdminUserID,
		PasswordHash: hash,
		DisplayName:  cfg.Seed.AdminDisplayName,
		Role:         models.RoleAdmin,
	}
	created, err := userRepo.CreateIfAbsent(ctx, admin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}
	if created {
		lgr.Warn().Str("user_id", admin.UserID).Msg("Default admin user created, change its password")
	}
	return nil
}

package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/pkg/email"
	"github.com/yigit/studentrecords/internal/testutil"
)

func TestBuildDependencies(t *testing.T) {
	cfg := testutil.Config()
	cfg.Storage.ExportDir = filepath.Join(t.TempDir(), "exports")

	database, err := SetupDatabase(cfg, zerolog.Nop())
	require.NoError(t, err)

	deps, err := BuildDependencies(cfg, database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { deps.Close() })

	assert.IsType(t, &email.ConsoleSender{}, deps.Sender)
	assert.DirExists(t, cfg.Storage.ExportDir)

	courses, err := deps.Services.References.ListCourses(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 5)

	_, err = deps.Services.Users.Authenticate(context.Background(), "admin", "admin123")
	assert.NoError(t, err)

	path := filepath.Join(cfg.Storage.ExportDir, "faculty.csv")
	require.NoError(t, deps.Services.Distribution.ExportReport(context.Background(), models.ReportFacultySummary, models.ReportParams{}, "csv", path))
	assert.FileExists(t, path)
}

func TestMigrateIsRepeatable(t *testing.T) {
	cfg := testutil.Config()
	database, err := SetupDatabase(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, Migrate(context.Background(), cfg, database, zerolog.Nop()))
	assert.Equal(t, 5, testutil.Count(t, database, "courses"))
	assert.Equal(t, 1, testutil.Count(t, database, "users"))
}

func TestBuildDependenciesRejectsSendGridWithoutKey(t *testing.T) {
	cfg := testutil.Config()
	cfg.Storage.ExportDir = t.TempDir()
	cfg.Email.Provider = config.EmailSendGrid

	database, err := SetupDatabase(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = BuildDependencies(cfg, database, zerolog.Nop())
	assert.ErrorContains(t, err, "sendgrid api key is required")
}

func TestEmailConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Email.Provider = config.EmailSMTP
	cfg.Email.Host = "smtp.example.com"
	cfg.Email.Port = 2525
	cfg.Email.FromEmail = "office@example.edu"

	got := EmailConfig(cfg)
	assert.Equal(t, email.Config{Provider: "smtp", Host: "smtp.example.com", Port: 2525, FromEmail: "office@example.edu"}, got)
}

func TestConfigPath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	assert.Equal(t, filepath.Join("configs", "config.yaml"), ConfigPath())
	t.Setenv(ConfigPathEnv, "/etc/records.yaml")
	assert.Equal(t, "/etc/records.yaml", ConfigPath())
}

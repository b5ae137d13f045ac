package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/email"
	"github.com/yigit/studentrecords/internal/pkg/export"
	"github.com/yigit/studentrecords/internal/pkg/filestorage"
	"github.com/yigit/studentrecords/internal/testutil"
)

type testEnv struct {
	db         *db.DB
	svc        *Services
	sender     *email.MemorySender
	storageDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithSender(t, &email.MemorySender{}, 5*time.Second)
}

func newTestEnvWithSender(t *testing.T, sender *email.MemorySender, timeout time.Duration) *testEnv {
	t.Helper()
	database := testutil.PrepareDB(t)
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir)
	require.NoError(t, err)

	svc := NewServices(repositories.NewRepositories(database), Delivery{
		Exporter:     export.NewEngine(zerolog.Nop()),
		Sender:       sender,
		Storage:      storage,
		EmailTimeout: timeout,
	}, zerolog.Nop())

	return &testEnv{db: database, svc: svc, sender: sender, storageDir: dir}
}

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			panic(err)
		}
		return t
	}
}

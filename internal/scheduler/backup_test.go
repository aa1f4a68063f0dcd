package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/recordstore"
)

func setupSource(t *testing.T) *recordstore.FileBackend {
	t.Helper()
	source, err := recordstore.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, source.WriteDocument("users", []byte(`[{"username":"alice"}]`)))
	require.NoError(t, source.WriteDocument("books", []byte(`[]`)))
	return source
}

func newTestScheduler(source recordstore.Backend, cfg config.Backup) *BackupScheduler {
	s := NewBackupScheduler(source, cfg)
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestBackupScheduler_RunNow(t *testing.T) {
	source := setupSource(t)
	backupDir := filepath.Join(t.TempDir(), "backups")
	s := newTestScheduler(source, config.Backup{Dir: backupDir, Keep: 5})

	result, err := s.RunNow()
	require.NoError(t, err)

	assert.Equal(t, []string{"books", "users"}, result.Documents)
	assert.Equal(t, backupDir, filepath.Dir(result.Dir))
	assert.Regexp(t, `^20240501T100100Z-[0-9a-f]{8}$`, filepath.Base(result.Dir))

	data, err := os.ReadFile(filepath.Join(result.Dir, "users.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"username":"alice"}]`, string(data))
}

func TestBackupScheduler_PrunesOldSnapshots(t *testing.T) {
	source := setupSource(t)
	backupDir := t.TempDir()
	s := newTestScheduler(source, config.Backup{Dir: backupDir, Keep: 2})

	var dirs []string
	for range 4 {
		result, err := s.RunNow()
		require.NoError(t, err)
		dirs = append(dirs, filepath.Base(result.Dir))
	}

	snapshots, err := ListSnapshots(backupDir)
	require.NoError(t, err)
	assert.Equal(t, dirs[2:], snapshots)
}

func TestBackupScheduler_KeepZeroRetainsAll(t *testing.T) {
	source := setupSource(t)
	backupDir := t.TempDir()
	s := newTestScheduler(source, config.Backup{Dir: backupDir})

	for range 3 {
		_, err := s.RunNow()
		require.NoError(t, err)
	}

	snapshots, err := ListSnapshots(backupDir)
	require.NoError(t, err)
	assert.Len(t, snapshots, 3)
}

func TestListSnapshots_IgnoresOtherEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "20240101T000000Z-0123abcd"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "manual"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240102T000000Z-0123abcd"), nil, 0644))

	snapshots, err := ListSnapshots(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101T000000Z-0123abcd"}, snapshots)

	missing, err := ListSnapshots(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestBackupScheduler_StartDisabled(t *testing.T) {
	s := NewBackupScheduler(setupSource(t), config.Backup{Enabled: false, Schedule: "0 * * * *"})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestBackupScheduler_StartInvalidSchedule(t *testing.T) {
	s := NewBackupScheduler(setupSource(t), config.Backup{Enabled: true, Schedule: "every hour"})

	err := s.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestBackupScheduler_StartStop(t *testing.T) {
	s := NewBackupScheduler(setupSource(t), config.Backup{Enabled: true, Schedule: "0 * * * *", Dir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestBackupScheduler_RestartSchedulesOnce(t *testing.T) {
	s := NewBackupScheduler(setupSource(t), config.Backup{Enabled: true, Schedule: "0 * * * *", Dir: t.TempDir()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for range 3 {
		require.NoError(t, s.Start(ctx))
		s.Stop()
	}
	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())
}

func TestSchedule_Helpers(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("*/15 * * * *"))
	assert.Error(t, ValidateCronSchedule("* * *"))

	assert.Equal(t, "Every hour at :00", CronDescription("0 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", CronDescription("5 4 * * *"))

	from := time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC)
	next, err := NextRunTime("0 * * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), next)
}

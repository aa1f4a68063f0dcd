// Package scheduler runs periodic background jobs. Currently that is the
// snapshot backup of every record-store document.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/recordstore"
)

const snapshotTimeLayout = "20060102T150405Z"

var snapshotDirPattern = regexp.MustCompile(`^\d{8}T\d{6}Z-[0-9a-f]{8}$`)

// BackupResult describes one completed snapshot.
type BackupResult struct {
	Dir       string        `json:"dir"`
	Documents []string      `json:"documents"`
	Pruned    int           `json:"pruned"`
	Duration  time.Duration `json:"duration"`
}

// BackupScheduler copies every document of a backend into a fresh
// <dir>/<timestamp>-<short id>/ directory on a cron schedule.
type BackupScheduler struct {
	source recordstore.Backend
	config config.Backup
	now    func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isBackup   bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance
func NewBackupScheduler(source recordstore.Backend, cfg config.Backup) *BackupScheduler {
	return &BackupScheduler{
		source: source,
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the scheduler if backups are enabled
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Backup scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	// Each run owns its cron; entries never carry over a restart.
	c := cron.New(cron.WithParser(scheduleParser))
	entryID, err := c.AddFunc(s.config.Schedule, s.runScheduled)
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.cron = c
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.config.Schedule, s.now())
	log.Printf("Backup scheduler: started with schedule '%s' (%s). Next run: %v",
		s.config.Schedule,
		CronDescription(s.config.Schedule),
		nextRun)

	go func() {
		<-cancelCtx.Done()
		s.stop(c)
	}()

	return nil
}

// Stop waits for a running backup to finish and stops the scheduler.
func (s *BackupScheduler) Stop() {
	s.stop(nil)
}

// stop stops the scheduler; a non-nil only limits it to the run that started that cron.
func (s *BackupScheduler) stop(only *cron.Cron) {
	s.mu.Lock()
	if !s.isRunning || (only != nil && s.cron != only) {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	c := s.cron
	s.mu.Unlock()

	// A running job takes s.mu in RunNow, so wait without holding it.
	ctx := c.Stop()
	<-ctx.Done()

	if cancel != nil {
		cancel()
	}
	log.Printf("Backup scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next backup will occur
func (s *BackupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow performs one backup synchronously. It fails if another backup is in progress.
func (s *BackupScheduler) RunNow() (*BackupResult, error) {
	s.mu.Lock()
	if s.isBackup {
		s.mu.Unlock()
		return nil, fmt.Errorf("backup already in progress")
	}
	s.isBackup = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isBackup = false
		s.mu.Unlock()
	}()

	return s.backup()
}

func (s *BackupScheduler) runScheduled() {
	result, err := s.RunNow()
	if err != nil {
		log.Printf("Backup: failed: %v", err)
		return
	}
	log.Printf("Backup: copied %d documents to %s in %v (pruned %d)",
		len(result.Documents), result.Dir, result.Duration.Round(time.Millisecond), result.Pruned)
}

func (s *BackupScheduler) backup() (*BackupResult, error) {
	startTime := s.now()
	name := fmt.Sprintf("%s-%s", startTime.Format(snapshotTimeLayout), uuid.NewString()[:8])
	dir := filepath.Join(s.config.Dir, name)

	dst, err := recordstore.NewFileBackend(dir)
	if err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	documents, err := recordstore.Snapshot(s.source, dst)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	pruned, err := s.prune()
	if err != nil {
		return nil, fmt.Errorf("prune snapshots: %w", err)
	}

	return &BackupResult{
		Dir:       dir,
		Documents: documents,
		Pruned:    pruned,
		Duration:  s.now().Sub(startTime),
	}, nil
}

// prune removes the oldest snapshots beyond the configured count. Keep <= 0 keeps everything.
func (s *BackupScheduler) prune() (int, error) {
	if s.config.Keep <= 0 {
		return 0, nil
	}

	snapshots, err := ListSnapshots(s.config.Dir)
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= s.config.Keep {
		return 0, nil
	}

	stale := snapshots[:len(snapshots)-s.config.Keep]
	for _, name := range stale {
		if err := os.RemoveAll(filepath.Join(s.config.Dir, name)); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// ListSnapshots returns the snapshot directory names under dir, oldest first.
func ListSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && snapshotDirPattern.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/readinglog/internal/config"
	"github.com/mrlokans/readinglog/internal/entrypoint"
	"github.com/mrlokans/readinglog/internal/scheduler"
)

// BackupCommand takes one snapshot of every document, honoring BACKUP_KEEP.
type BackupCommand struct {
	config *config.Config
}

func NewBackupCommand(cfg *config.Config) *BackupCommand {
	return &BackupCommand{config: cfg}
}

func (cmd *BackupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)

	fs.StringVar(&cmd.config.Backup.Dir, "dir", cmd.config.Backup.Dir, "Directory to create the snapshot in")
	fs.IntVar(&cmd.config.Backup.Keep, "keep", cmd.config.Backup.Keep, "Number of snapshots to retain (0 keeps all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s backup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Copy every stored document into a new timestamped snapshot directory.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *BackupCommand) Run() (*scheduler.BackupResult, error) {
	app, err := entrypoint.NewApp(cmd.config)
	if err != nil {
		return nil, err
	}
	defer app.Close()

	result, err := scheduler.NewBackupScheduler(app.Backend, cmd.config.Backup).RunNow()
	if err != nil {
		return nil, err
	}

	fmt.Printf("Backed up %d documents to %s\n", len(result.Documents), result.Dir)
	if result.Pruned > 0 {
		fmt.Printf("  Removed %d old snapshots\n", result.Pruned)
	}
	return result, nil
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/tasks"
)

// CleanupAuditCommand runs one audit retention pass outside the task queue.
type CleanupAuditCommand struct {
	Driver        string
	DatabasePath  string
	DSN           string
	RetentionDays int

	Out io.Writer
}

func NewCleanupAuditCommand(cfg *config.Config) *CleanupAuditCommand {
	return &CleanupAuditCommand{
		Driver:        cfg.Database.Driver,
		DatabasePath:  cfg.Database.Path,
		DSN:           cfg.Database.DSN,
		RetentionDays: cfg.Audit.RetentionDays,
		Out:           os.Stdout,
	}
}

func (cmd *CleanupAuditCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-audit", flag.ExitOnError)

	fs.StringVar(&cmd.Driver, "driver", cmd.Driver, "Database driver (sqlite or postgres)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the sqlite database file")
	fs.StringVar(&cmd.DSN, "dsn", cmd.DSN, "PostgreSQL connection string")
	fs.IntVar(&cmd.RetentionDays, "days", cmd.RetentionDays, "Delete audit events older than this many days")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-audit [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete audit events older than the retention period.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cleanup-audit -days 7\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.RetentionDays < 1 {
		fs.Usage()
		return fmt.Errorf("days must be at least 1")
	}
	return nil
}

func (cmd *CleanupAuditCommand) Run(ctx context.Context) error {
	db, err := database.NewDatabase(cmd.Driver, cmd.DatabasePath, cmd.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := audit.NewService(auditrepo.NewRepository(db.DB))
	deleted, err := tasks.CleanupAuditEvents(ctx, service, cmd.RetentionDays)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Deleted %d audit events older than %d days\n", deleted, cmd.RetentionDays)
	return nil
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
)

// StatsCommand prints the record counts of the catalog.
type StatsCommand struct {
	Driver       string
	DatabasePath string
	DSN          string

	Out io.Writer
}

func NewStatsCommand(cfg *config.Config) *StatsCommand {
	return &StatsCommand{
		Driver:       cfg.Database.Driver,
		DatabasePath: cfg.Database.Path,
		DSN:          cfg.Database.DSN,
		Out:          os.Stdout,
	}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)

	fs.StringVar(&cmd.Driver, "driver", cmd.Driver, "Database driver (sqlite or postgres)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the sqlite database file")
	fs.StringVar(&cmd.DSN, "dsn", cmd.DSN, "PostgreSQL connection string")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the number of books, copies, authors and genres.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *StatsCommand) Run(ctx context.Context) error {
	db, err := database.NewDatabase(cmd.Driver, cmd.DatabasePath, cmd.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	summary, err := catalog.NewService(database.NewStore(db.DB), nil).Summary(ctx)
	if err != nil {
		return err
	}
	return PrintSummary(cmd.Out, summary)
}

// PrintSummary writes the counts as an aligned two column table.
func PrintSummary(w io.Writer, s catalog.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Books:\t%d\n", s.Books)
	fmt.Fprintf(tw, "Copies:\t%d\n", s.Instances)
	fmt.Fprintf(tw, "Copies available:\t%d\n", s.AvailableInstances)
	fmt.Fprintf(tw, "Authors:\t%d\n", s.Authors)
	fmt.Fprintf(tw, "Genres:\t%d\n", s.Genres)
	return tw.Flush()
}

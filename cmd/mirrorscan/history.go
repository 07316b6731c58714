package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirrorscan/mirrorscan/internal/config"
	"github.com/mirrorscan/mirrorscan/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain-suffix]",
		Short: "Show past discovery runs",
		Long: `History lists discovery runs recorded in the local database.

Without arguments it lists the most recent runs across all properties.
With a domain suffix it shows the latest run for that property, including
its per-category URL counts.

Examples:
  # List the last 20 runs
  mirrorscan history

  # List the last 5 runs
  mirrorscan history --limit 5

  # Show the latest run for one property
  mirrorscan history example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Database directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history available: %w", err)
	}
	defer db.Close()

	if len(args) == 1 {
		return showLatestRun(cmd, db, args[0])
	}
	return listRuns(cmd, db, limit)
}

// listRuns prints the most recent runs, newest first.
func listRuns(cmd *cobra.Command, db *database.DiscoveryDB, limit int) error {
	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No discovery runs recorded yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %-30s  pages=%d  internal=%d  assets=%d  errors=%d\n",
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DomainSuffix,
			run.Summary.Counts.Pages,
			run.Summary.Counts.InternalURLs,
			run.Summary.Counts.ExternalAssets,
			run.Summary.Counts.FetchErrors,
		)
	}
	return nil
}

// showLatestRun prints the latest run for one property in detail.
func showLatestRun(cmd *cobra.Command, db *database.DiscoveryDB, domainSuffix string) error {
	run, err := db.GetLatestRun(cmd.Context(), domainSuffix)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no runs recorded for %s", domainSuffix)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Latest run for %s\n", run.DomainSuffix)
	fmt.Fprintf(out, "  Run ID:             %d\n", run.ID)
	fmt.Fprintf(out, "  Start URL:          %s\n", run.StartURL)
	fmt.Fprintf(out, "  Recorded:           %s\n", run.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Pages:              %d\n", run.Summary.Counts.Pages)
	fmt.Fprintf(out, "  Internal URLs:      %d\n", run.Summary.Counts.InternalURLs)
	fmt.Fprintf(out, "  Internal resources: %d\n", run.Summary.Counts.InternalResources)
	fmt.Fprintf(out, "  External assets:    %d\n", run.Summary.Counts.ExternalAssets)
	fmt.Fprintf(out, "  Download domains:   %d\n", run.Summary.Counts.DownloadDomains)
	fmt.Fprintf(out, "  Fetch errors:       %d\n", run.Summary.Counts.FetchErrors)
	return nil
}

package main

import (
	"github.com/spf13/cobra"
)

var (
	flagArchives    bool
	flagArchiveDir  string
	flagRecord      bool
	flagOut         string
	flagDB          string
	flagMetricsAddr string
	flagWorkers     int
	flagLogLevel    string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premierstats",
		Short: "Scrape and normalize Premier League player statistics and transfer values",
		Long: `premierstats scrapes per-player statistics for every Premier League squad
from fbref.com, merges them into one row per player, and optionally joins
transfer values from footballtransfers.com.

Pages can be recorded to an archive directory with --record and replayed
later with --archives, without touching the network.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&flagArchives, "archives", false, "Read pages from the archive directory instead of the network")
	pf.StringVar(&flagArchiveDir, "archive-dir", "", "Archive directory (default ARCHIVE_DIR)")
	pf.BoolVar(&flagRecord, "record", false, "Write every fetched page to the archive directory")
	pf.StringVar(&flagOut, "out", "", "Output directory (default OUTPUT_DIR)")
	pf.StringVar(&flagDB, "db", "", "sqlite run log path (default DB_PATH, empty disables)")
	pf.StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	pf.IntVar(&flagWorkers, "workers", 0, "Concurrent units when reading archives (default WORKERS)")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug|info|warn|error (default LOG_LEVEL)")

	cmd.MarkFlagsMutuallyExclusive("archives", "record")

	cmd.AddCommand(newPlayersCmd(), newTransfersCmd(), newRunCmd(), newHistoryCmd())
	return cmd
}

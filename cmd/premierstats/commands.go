package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"premierstats/internal/pipeline"
)

func newPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "Build the player statistics dataset and write results.csv and results.xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ds, sum, err := a.players(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.exportPlayers(ds); err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), sum)
			return nil
		},
	}
}

func newTransfersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfers",
		Short: "Build the player dataset, then the transfer values of players above the minutes threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ds, playersSum, err := a.players(cmd.Context())
			if err != nil {
				return err
			}
			values, sum, err := a.transfers(cmd.Context(), ds)
			if err != nil {
				return err
			}
			if err := pipeline.ExportTransfersCSV(values, filepath.Join(a.cfg.OutputDir, pipeline.TransfersCSV)); err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), playersSum, sum)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build and export both datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ds, playersSum, err := a.players(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.exportPlayers(ds); err != nil {
				return err
			}
			values, sum, err := a.transfers(cmd.Context(), ds)
			if err != nil {
				return err
			}
			if err := pipeline.ExportTransfersCSV(values, filepath.Join(a.cfg.OutputDir, pipeline.TransfersCSV)); err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), playersSum, sum)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs from the sqlite run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			if a.db == nil {
				return errNoRunLog
			}

			runs, err := a.db.ListRuns(limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	return cmd
}

func (a *app) exportPlayers(ds *pipeline.Dataset) error {
	if err := pipeline.ExportPlayersCSV(ds, filepath.Join(a.cfg.OutputDir, pipeline.PlayersCSV)); err != nil {
		return err
	}
	return pipeline.ExportPlayersXLSX(ds, filepath.Join(a.cfg.OutputDir, pipeline.PlayersXLSX))
}

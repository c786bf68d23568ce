package main

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"

	"premierstats/internal/pipeline"
	"premierstats/internal/storage"
)

var errNoRunLog = errors.New("no run log configured: set DB_PATH or --db")

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printSummaries(w io.Writer, sums ...pipeline.Summary) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Dataset", "Units", "Failed", "Records", "Duplicates", "Ineligible", "Rows", "Elapsed"})
	for _, s := range sums {
		t.AppendRow(table.Row{
			s.Dataset, s.Units, s.UnitsFailed(), s.RecordsCollected, s.DuplicatesDropped,
			s.Ineligible, s.Rows, s.Elapsed.Round(time.Millisecond),
		})
	}
	t.Render()

	failed := newTable(w)
	failed.AppendHeader(table.Row{"Dataset", "Unit", "Reason", "Error"})
	n := 0
	for _, s := range sums {
		for _, f := range s.Failures {
			failed.AppendRow(table.Row{s.Dataset, f.Unit, f.Reason, f.Err})
			n++
		}
	}
	if n > 0 {
		failed.Render()
	}
}

func printRuns(w io.Writer, runs []storage.Run) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Dataset", "Started", "Offline", "Units", "Failed", "Rows", "Elapsed"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID, r.Dataset, r.StartedAt.Local().Format(time.DateTime), r.Offline,
			r.Units, r.UnitsFailed, r.Rows, r.Elapsed,
		})
	}
	t.Render()
}

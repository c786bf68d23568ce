package pipeline

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"

	"premierstats/internal"
	"premierstats/internal/logging"
	"premierstats/internal/metrics"
	"premierstats/internal/schema"
)

const (
	DatasetPlayers   = "players"
	DatasetTransfers = "transfers"
)

// PlayerSource enumerates teams and scrapes one team page at a time.
type PlayerSource interface {
	ListTeams(ctx context.Context) ([]internal.Unit, error)
	ScrapeTeam(ctx context.Context, unit internal.Unit) ([]internal.PlayerRecord, error)
}

type Options struct {
	// Workers above 1 scrape units concurrently. Callers only raise it when
	// pages come from the local archive.
	Workers int
	Metrics *metrics.Metrics
	Logger  *logging.Logger
}

func (o Options) logger() *logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Default()
}

// Summary reports what one build did besides producing its output.
type Summary struct {
	Dataset           string
	Units             int
	Failures          []internal.UnitFailure
	RecordsCollected  int
	DuplicatesDropped int
	// Ineligible counts transfer rows dropped by the minutes threshold.
	Ineligible int
	Rows       int
	Elapsed    time.Duration
}

func (s Summary) UnitsFailed() int { return len(s.Failures) }

// BuildPlayers scrapes every team and returns the typed player dataset.
// Only a failure to list teams aborts the run; a failing team is recorded in
// the summary and the remaining teams are still scraped.
func BuildPlayers(ctx context.Context, src PlayerSource, s schema.Schema, opts Options) (*Dataset, Summary, error) {
	start := time.Now()
	sum := Summary{Dataset: DatasetPlayers}

	units, err := src.ListTeams(ctx)
	if err != nil {
		return nil, sum, errors.Wrap(err, "list teams")
	}
	sum.Units = len(units)
	opts.logger().Info("teams listed", "teams", len(units), "schema", s.Version)

	records, err := collect(ctx, DatasetPlayers, units, src.ScrapeTeam, opts, &sum)
	if err != nil {
		return nil, sum, err
	}

	deduped, dropped := SortAndDedup(records)
	ds := Assemble(s, deduped)

	sum.DuplicatesDropped = dropped
	sum.Rows = ds.Len()
	sum.Elapsed = time.Since(start)
	opts.Metrics.RunFinished(DatasetPlayers, sum.RecordsCollected, dropped)
	opts.logger().Info("players built",
		"rows", sum.Rows, "records", sum.RecordsCollected, "duplicates", dropped,
		"failed_units", sum.UnitsFailed(), "elapsed", sum.Elapsed)
	return ds, sum, nil
}

type unitResult[R any] struct {
	unit  internal.Unit
	items []R
	err   error
	took  time.Duration
}

// collect scrapes units and folds their items in enumeration order, so the
// accumulated slice is identical whatever the worker count.
func collect[R any](
	ctx context.Context,
	dataset string,
	units []internal.Unit,
	scrape func(context.Context, internal.Unit) ([]R, error),
	opts Options,
	sum *Summary,
) ([]R, error) {
	log := opts.logger().With("dataset", dataset)
	var acc []R

	fold := func(i int, res unitResult[R]) {
		if res.err != nil {
			reason := internal.FailureReason(res.err)
			sum.Failures = append(sum.Failures, internal.UnitFailure{Unit: res.unit.Label, Reason: reason, Err: res.err})
			opts.Metrics.UnitFailed(dataset, reason, res.took)
			log.Warn("unit failed", "unit", res.unit.Label, "n", i+1, "of", len(units), "reason", reason, "err", res.err)
			return
		}
		acc = append(acc, res.items...)
		sum.RecordsCollected += len(res.items)
		opts.Metrics.UnitScraped(dataset, res.took)
		log.Info("unit scraped", "unit", res.unit.Label, "n", i+1, "of", len(units), "records", len(res.items))
	}

	run := func(u internal.Unit) unitResult[R] {
		started := time.Now()
		items, err := scrape(ctx, u)
		return unitResult[R]{unit: u, items: items, err: err, took: time.Since(started)}
	}

	if opts.Workers <= 1 {
		for i, u := range units {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, "scrape interrupted")
			}
			fold(i, run(u))
		}
		return acc, nil
	}

	mapper := iter.Mapper[internal.Unit, unitResult[R]]{MaxGoroutines: opts.Workers}
	results := mapper.Map(units, func(u *internal.Unit) unitResult[R] {
		if err := ctx.Err(); err != nil {
			return unitResult[R]{unit: *u, err: err}
		}
		return run(*u)
	})
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "scrape interrupted")
	}
	for i, res := range results {
		fold(i, res)
	}
	return acc, nil
}

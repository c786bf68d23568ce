package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"

	"premierstats/internal"
	"premierstats/internal/reconcile"
	"premierstats/internal/schema"
)

// suggestionSimilarity is the Jaro-Winkler floor for logging a likely alias.
const suggestionSimilarity = 0.88

// TransferSource enumerates listing pages and scrapes one page at a time.
// Names it returns are already reconciled.
type TransferSource interface {
	ListPages(ctx context.Context) ([]internal.Unit, error)
	ScrapePage(ctx context.Context, unit internal.Unit) ([]internal.TransferValue, error)
}

// EligibleNames returns the players whose minutes exceed minMinutes, in
// dataset order.
func EligibleNames(players *Dataset, minMinutes float64) []string {
	col, ok := players.Column(schema.MinutesKey)
	if !ok {
		return nil
	}
	names := players.Names()
	out := []string{}
	for i, name := range names {
		if m, ok := col.Float(i); ok && m > minMinutes {
			out = append(out, name)
		}
	}
	return out
}

// BuildTransferValues scrapes every listing page and keeps one value per
// eligible player, sorted by name. Eligibility is decided by the minutes
// column of players, not by anything on the listing.
func BuildTransferValues(ctx context.Context, src TransferSource, players *Dataset, minMinutes float64, opts Options) ([]internal.TransferValue, Summary, error) {
	start := time.Now()
	sum := Summary{Dataset: DatasetTransfers}

	units, err := src.ListPages(ctx)
	if err != nil {
		return nil, sum, errors.Wrap(err, "list transfer pages")
	}
	sum.Units = len(units)

	eligibleNames := EligibleNames(players, minMinutes)
	eligible := make(map[string]bool, len(eligibleNames))
	for _, n := range eligibleNames {
		eligible[n] = true
	}
	known := make(map[string]bool, players.Len())
	for _, n := range players.Names() {
		known[n] = true
	}

	values, err := collect(ctx, DatasetTransfers, units, src.ScrapePage, opts, &sum)
	if err != nil {
		return nil, sum, err
	}

	kept := make([]internal.TransferValue, 0, len(eligibleNames))
	var unknown []string
	for _, v := range values {
		if eligible[v.Name] {
			kept = append(kept, v)
			continue
		}
		sum.Ineligible++
		if !known[v.Name] {
			unknown = append(unknown, v.Name)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	out := make([]internal.TransferValue, 0, len(kept))
	for _, v := range kept {
		if len(out) > 0 && out[len(out)-1].Name == v.Name {
			continue
		}
		out = append(out, v)
	}
	sum.DuplicatesDropped = len(kept) - len(out)

	for _, s := range reconcile.Suggest(unknown, eligibleNames, suggestionSimilarity) {
		opts.logger().Info("possible alias", "listing_name", s.Name, "player", s.Candidate, "similarity", s.Similarity)
	}

	sum.Rows = len(out)
	sum.Elapsed = time.Since(start)
	opts.Metrics.RunFinished(DatasetTransfers, sum.RecordsCollected, sum.DuplicatesDropped)
	opts.logger().Info("transfer values built",
		"rows", sum.Rows, "eligible", len(eligibleNames), "ineligible", sum.Ineligible,
		"failed_units", sum.UnitsFailed(), "elapsed", sum.Elapsed)
	return out, sum, nil
}

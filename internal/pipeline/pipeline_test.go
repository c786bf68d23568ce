package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premierstats/internal"
	"premierstats/internal/metrics"
	"premierstats/internal/reconcile"
	"premierstats/internal/schema"
	"premierstats/internal/scrape"
	"premierstats/internal/util"
)

type pageSet map[string]string

func (p pageSet) Fetch(_ context.Context, key, url string) ([]byte, error) {
	html, ok := p[key]
	if !ok {
		return nil, &internal.FetchError{URL: url, Status: 404}
	}
	return []byte(html), nil
}

var e2eSchema = schema.Schema{
	Version:          "e2e.v1",
	EligibilityTable: "stats_playing_time_9",
	Groups:           []schema.Group{{TableID: "g1", Keys: []string{"goals"}}},
}

func squad(eligibility, g1 [][2]string) string {
	html := `<table id="stats_playing_time_9"><tbody>`
	for _, r := range eligibility {
		html += fmt.Sprintf(`<tr><th>%s</th><td data-stat="minutes">%s</td></tr>`, r[0], r[1])
	}
	html += `</tbody></table><table id="g1"><tbody>`
	for _, r := range g1 {
		html += fmt.Sprintf(`<tr><th>%s</th><td data-stat="goals">%s</td></tr>`, r[0], r[1])
	}
	return html + `</tbody></table>`
}

const league = `<table id="league"><tbody>
<tr><td data-stat="team"><a href="/a">A</a></td></tr>
<tr><td data-stat="team"><a href="/b">B</a></td></tr>
</tbody></table>`

func fbrefSource(pages pageSet) *scrape.FBref {
	return scrape.NewFBref(pages, e2eSchema, scrape.FBrefOptions{
		LeagueURL:        "https://fbref.test/league",
		SiteBaseURL:      "https://fbref.test",
		TeamTableID:      "league",
		MinutesThreshold: 90,
	})
}

func TestBuildPlayersEndToEnd(t *testing.T) {
	pages := pageSet{
		scrape.LeagueKey: league,
		"A":              squad([][2]string{{"P1", "1000"}}, [][2]string{{"P1", "10"}}),
		"B":              squad([][2]string{{"P2", "50"}}, [][2]string{{"P2", "3"}}),
	}

	ds, sum, err := BuildPlayers(context.Background(), fbrefSource(pages), e2eSchema, Options{})
	require.NoError(t, err)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, []internal.Value{
		internal.TextValue("P1"),
		internal.TextValue("A"),
		internal.IntValue(10),
	}, ds.Row(0))
	assert.Equal(t, []string{"P1"}, ds.Names())

	assert.Equal(t, 2, sum.Units)
	assert.Equal(t, 0, sum.UnitsFailed())
	assert.Equal(t, 1, sum.RecordsCollected)
	assert.Equal(t, 1, sum.Rows)
}

func TestBuildPlayersIsolatesUnitFailures(t *testing.T) {
	pages := pageSet{
		scrape.LeagueKey: league,
		"B":              squad([][2]string{{"P2", "500"}}, [][2]string{{"P2", "3"}}),
	}
	m := metrics.New()

	ds, sum, err := BuildPlayers(context.Background(), fbrefSource(pages), e2eSchema, Options{Metrics: m})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "A", sum.Failures[0].Unit)
	assert.Equal(t, "fetch", sum.Failures[0].Reason)
	assert.True(t, errors.Is(sum.Failures[0].Err, internal.ErrFetch))
}

func TestBuildPlayersMalformedRowFailsUnit(t *testing.T) {
	broken := `<table id="stats_playing_time_9"><tbody><tr><th>P1</th><td data-stat="minutes">1000</td></tr></tbody></table>
<table id="g1"><tbody><tr><th>P1</th><td data-stat="assists">1</td></tr></tbody></table>`
	pages := pageSet{
		scrape.LeagueKey: league,
		"A":              broken,
		"B":              squad([][2]string{{"P2", "500"}}, nil),
	}

	ds, sum, err := BuildPlayers(context.Background(), fbrefSource(pages), e2eSchema, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"P2"}, ds.Names())
	require.Len(t, sum.Failures, 1)
	assert.Equal(t, "malformed_row", sum.Failures[0].Reason)

	goals, ok := ds.Column("goals")
	require.True(t, ok)
	assert.True(t, goals.Values[0].IsAbsent(), "P2 has no g1 row")
}

func TestBuildPlayersAbortsWhenTeamsUnavailable(t *testing.T) {
	_, _, err := BuildPlayers(context.Background(), fbrefSource(pageSet{}), e2eSchema, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internal.ErrFetch))
}

func TestBuildPlayersCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pages := pageSet{scrape.LeagueKey: league}
	_, _, err := BuildPlayers(ctx, fbrefSource(pages), e2eSchema, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakePlayers struct {
	units   []internal.Unit
	records map[string][]internal.PlayerRecord
}

func (f fakePlayers) ListTeams(context.Context) ([]internal.Unit, error) { return f.units, nil }

func (f fakePlayers) ScrapeTeam(_ context.Context, u internal.Unit) ([]internal.PlayerRecord, error) {
	return f.records[u.Label], nil
}

func TestBuildPlayersWorkersMatchSequential(t *testing.T) {
	src := fakePlayers{records: map[string][]internal.PlayerRecord{}}
	for i := 0; i < 12; i++ {
		label := fmt.Sprintf("team-%02d", i)
		src.units = append(src.units, internal.Unit{Label: label})
		src.records[label] = []internal.PlayerRecord{
			{Name: "Shared", Team: label, Values: []internal.Value{internal.IntValue(int64(i))}},
			{Name: fmt.Sprintf("Player %02d", 11-i), Team: label, Values: []internal.Value{internal.IntValue(1)}},
		}
	}

	seq, seqSum, err := BuildPlayers(context.Background(), src, e2eSchema, Options{Workers: 1})
	require.NoError(t, err)
	par, parSum, err := BuildPlayers(context.Background(), src, e2eSchema, Options{Workers: 4})
	require.NoError(t, err)

	require.Equal(t, seq.Len(), par.Len())
	for i := 0; i < seq.Len(); i++ {
		assert.Equal(t, seq.Row(i), par.Row(i))
	}
	assert.Equal(t, seqSum.DuplicatesDropped, parSum.DuplicatesDropped)
	assert.Equal(t, 11, seqSum.DuplicatesDropped)

	shared, ok := par.Column("team")
	require.True(t, ok)
	idx := len(par.Names()) - 1
	assert.Equal(t, "Shared", par.Names()[idx])
	assert.Equal(t, internal.TextValue("team-00"), shared.Values[idx], "earliest unit wins")
}

var transferSchema = schema.Schema{
	Version:          "transfers.v1",
	EligibilityTable: "stats_playing_time_9",
	Groups:           []schema.Group{{TableID: "stats_standard_9", Keys: []string{"minutes"}}},
}

func playersWithMinutes(rows map[string]int64) *Dataset {
	recs := make([]internal.PlayerRecord, 0, len(rows))
	for name, minutes := range rows {
		recs = append(recs, internal.PlayerRecord{Name: name, Team: "T", Values: []internal.Value{internal.IntValue(minutes)}})
	}
	deduped, _ := SortAndDedup(recs)
	return Assemble(transferSchema, deduped)
}

const listing = `<table class="table"><tbody>
<tr><td><div class="text"><a title="Bobby Reid">Bobby Reid</a></div></td><td><span class="player-tag">€12.3M</span></td></tr>
<tr><td><div class="text"><a>Bench Player</a></div></td><td><span class="player-tag">€1.5M</span></td></tr>
<tr><td><div class="text"><a>Bukayo Saka</a></div></td><td><span class="player-tag">€140M</span></td></tr>
</tbody></table>`

func TestBuildTransferValuesEndToEnd(t *testing.T) {
	players := playersWithMinutes(map[string]int64{
		"Bobby De Cordova-Reid": 1800,
		"Bench Player":          300,
	})
	pages := pageSet{
		scrape.TransferIndexKey: listing,
		"transfers-page-1":      listing,
		"transfers-page-2":      `<table class="table"><tbody><tr><td><div class="text"><a>Bobby Reid</a></div></td><td><span class="player-tag">€99M</span></td></tr></tbody></table>`,
	}
	src := scrape.NewTransfers(pages, reconcile.New(map[string]string{"Bobby Reid": "Bobby De Cordova-Reid"}), scrape.TransferOptions{
		BaseURL: "https://transfers.test/values",
		Pages:   3,
		Scale:   util.ScaleMillions,
	})

	values, sum, err := BuildTransferValues(context.Background(), src, players, 900, Options{})
	require.NoError(t, err)
	assert.Equal(t, []internal.TransferValue{{Name: "Bobby De Cordova-Reid", Value: 12.3}}, values)

	assert.Equal(t, 3, sum.Units)
	require.Len(t, sum.Failures, 1, "page 3 is not archived")
	assert.Equal(t, "transfers-page-3", sum.Failures[0].Unit)
	assert.Equal(t, 1, sum.DuplicatesDropped)
	assert.Equal(t, 2, sum.Ineligible)
}

func TestEligibleNames(t *testing.T) {
	players := playersWithMinutes(map[string]int64{"A": 901, "B": 900, "C": 2000})
	assert.Equal(t, []string{"A", "C"}, EligibleNames(players, 900))
	assert.Nil(t, EligibleNames(Assemble(e2eSchema, nil), 900))
}

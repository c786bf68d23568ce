// Package scrape turns fetched pages into unit lists and unit-local records.
package scrape

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"premierstats/internal"
	"premierstats/internal/fetch"
	"premierstats/internal/schema"
	"premierstats/internal/util"
)

// LeagueKey names the league index page in the archive.
const LeagueKey = "league"

type FBrefOptions struct {
	LeagueURL        string
	SiteBaseURL      string
	TeamTableID      string
	MinutesThreshold float64
}

// FBref enumerates the league's teams and scrapes each squad page.
type FBref struct {
	fetcher fetch.Fetcher
	schema  schema.Schema
	opts    FBrefOptions
}

func NewFBref(f fetch.Fetcher, s schema.Schema, opts FBrefOptions) *FBref {
	return &FBref{fetcher: f, schema: s, opts: opts}
}

// ListTeams fetches the league table. Any error here is fatal for a run.
func (s *FBref) ListTeams(ctx context.Context) ([]internal.Unit, error) {
	doc, err := s.document(ctx, LeagueKey, s.opts.LeagueURL)
	if err != nil {
		return nil, err
	}
	return ParseTeams(doc, s.opts.TeamTableID, s.opts.SiteBaseURL), nil
}

func (s *FBref) ScrapeTeam(ctx context.Context, unit internal.Unit) ([]internal.PlayerRecord, error) {
	doc, err := s.document(ctx, unit.Label, unit.URL)
	if err != nil {
		return nil, err
	}
	return ParseTeamPage(doc, unit.Label, s.schema, s.opts.MinutesThreshold)
}

func (s *FBref) document(ctx context.Context, key, pageURL string) (*goquery.Document, error) {
	blob, err := s.fetcher.Fetch(ctx, key, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", key)
	}
	return doc, nil
}

// ParseTeams reads team links from the league table in page order.
func ParseTeams(doc *goquery.Document, tableID, baseURL string) []internal.Unit {
	out := []internal.Unit{}
	selector := "table#" + tableID + " > tbody > tr > td[data-stat=team] > a"
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		label := util.CleanText(a.Text())
		href, ok := a.Attr("href")
		if label == "" || !ok {
			return
		}
		out = append(out, internal.Unit{Label: label, URL: resolveURL(baseURL, href)})
	})
	return out
}

func resolveURL(baseURL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	base, err := url.Parse(baseURL)
	if err != nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// ParseTeamPage builds the unit-local records of one squad page. Only names
// whose eligibility-table minutes exceed threshold are admitted. Every
// returned record carries exactly s.AttributeWidth() values. A page without
// the eligibility table yields no records and no error.
func ParseTeamPage(doc *goquery.Document, team string, s schema.Schema, threshold float64) ([]internal.PlayerRecord, error) {
	order := []string{}
	records := map[string]*internal.PlayerRecord{}

	rows(doc, s.EligibilityTable).Each(func(_ int, tr *goquery.Selection) {
		if _, spacer := tr.Attr("class"); spacer {
			return
		}
		name := rowName(tr)
		if name == "" {
			return
		}
		if _, seen := records[name]; seen {
			return
		}
		minutes, ok := util.Normalize(cellText(tr, schema.MinutesKey)).Number()
		if !ok || minutes <= threshold {
			return
		}
		order = append(order, name)
		records[name] = &internal.PlayerRecord{
			Name:   name,
			Team:   team,
			Values: make([]internal.Value, 0, s.AttributeWidth()),
		}
	})
	if len(order) == 0 {
		return nil, nil
	}

	for _, g := range s.Groups {
		filled := make(map[string]bool, len(order))
		var rowErr error

		rows(doc, g.TableID).EachWithBreak(func(_ int, tr *goquery.Selection) bool {
			name := rowName(tr)
			rec, ok := records[name]
			if !ok || filled[name] {
				return true
			}
			cells := statCells(tr)
			for _, key := range g.Keys {
				text, ok := cells[key]
				if !ok {
					rowErr = &internal.MalformedRowError{Table: g.TableID, Row: name, Key: key}
					return false
				}
				rec.Values = append(rec.Values, util.Normalize(text))
			}
			filled[name] = true
			return true
		})
		if rowErr != nil {
			return nil, rowErr
		}

		for _, name := range order {
			if filled[name] {
				continue
			}
			rec := records[name]
			for range g.Keys {
				rec.Values = append(rec.Values, internal.Absent())
			}
		}
	}

	out := make([]internal.PlayerRecord, 0, len(order))
	for _, name := range order {
		out = append(out, *records[name])
	}
	return out, nil
}

func rows(doc *goquery.Document, tableID string) *goquery.Selection {
	return doc.Find("table#" + tableID + " > tbody > tr")
}

func rowName(tr *goquery.Selection) string {
	return util.CleanText(tr.ChildrenFiltered("th").First().Text())
}

func cellText(tr *goquery.Selection, stat string) string {
	return tr.Find(`td[data-stat="` + stat + `"]`).First().Text()
}

func statCells(tr *goquery.Selection) map[string]string {
	cells := map[string]string{}
	tr.Find("td[data-stat]").Each(func(_ int, td *goquery.Selection) {
		stat, _ := td.Attr("data-stat")
		if _, dup := cells[stat]; !dup {
			cells[stat] = td.Text()
		}
	})
	return cells
}

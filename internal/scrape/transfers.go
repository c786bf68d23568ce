package scrape

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"premierstats/internal"
	"premierstats/internal/fetch"
	"premierstats/internal/logging"
	"premierstats/internal/reconcile"
	"premierstats/internal/util"
)

// TransferIndexKey names the first listing page in the archive.
const TransferIndexKey = "transfers-index"

type TransferOptions struct {
	BaseURL string
	// Pages is used when the listing does not expose its page count.
	Pages int
	Scale util.Scale
}

// Transfers scrapes the paginated transfer-value listing.
type Transfers struct {
	fetcher    fetch.Fetcher
	reconciler *reconcile.Reconciler
	opts       TransferOptions
}

func NewTransfers(f fetch.Fetcher, r *reconcile.Reconciler, opts TransferOptions) *Transfers {
	if r == nil {
		r = reconcile.New(nil)
	}
	return &Transfers{fetcher: f, reconciler: r, opts: opts}
}

// ListPages fetches the first listing page and returns one unit per page.
func (t *Transfers) ListPages(ctx context.Context) ([]internal.Unit, error) {
	blob, err := t.fetcher.Fetch(ctx, TransferIndexKey, t.opts.BaseURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, errors.Wrap(err, "parse transfer index")
	}

	pages := PageCount(doc)
	if pages == 0 {
		pages = t.opts.Pages
	}
	return TransferPages(t.opts.BaseURL, pages), nil
}

func (t *Transfers) ScrapePage(ctx context.Context, unit internal.Unit) ([]internal.TransferValue, error) {
	blob, err := t.fetcher.Fetch(ctx, unit.Label, unit.URL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", unit.Label)
	}
	return ParseTransferPage(doc, t.reconciler, t.opts.Scale), nil
}

// TransferPages lists pages 1..n; page 1 is the base URL itself.
func TransferPages(baseURL string, n int) []internal.Unit {
	base := strings.TrimRight(baseURL, "/")
	out := make([]internal.Unit, 0, n)
	for page := 1; page <= n; page++ {
		u := base
		if page > 1 {
			u = base + "/" + strconv.Itoa(page)
		}
		out = append(out, internal.Unit{Label: "transfers-page-" + strconv.Itoa(page), URL: u})
	}
	return out
}

// PageCount returns the highest page number in the pagination block, or 0.
func PageCount(doc *goquery.Document) int {
	highest := 0
	doc.Find(".pagination a, .pagination li, .pagination span").Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(util.CleanText(s.Text()))
		if err == nil && n > highest {
			highest = n
		}
	})
	return highest
}

// ParseTransferPage returns reconciled (name, value) pairs in page order.
// Rows without a readable value are skipped.
func ParseTransferPage(doc *goquery.Document, r *reconcile.Reconciler, scale util.Scale) []internal.TransferValue {
	out := []internal.TransferValue{}
	doc.Find("table.table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		a := tr.Find("td .text > a").First()
		name, ok := a.Attr("title")
		if !ok || util.CleanText(name) == "" {
			name = a.Text()
		}
		name = util.CleanText(name)
		if name == "" {
			return
		}
		raw := tr.Find("td .player-tag").First().Text()
		value, ok := util.ParseCurrency(raw, scale)
		if !ok {
			logging.Default().Debug("transfer row without value", "player", name, "raw", util.CleanText(raw))
			return
		}
		out = append(out, internal.TransferValue{Name: r.Canonicalize(name), Value: value})
	})
	return out
}

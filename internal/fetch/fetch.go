// Package fetch retrieves raw page content for a unit, either live over HTTP
// or from a local archive of previously fetched pages. Both paths return the
// same bytes to the scrapers, so offline runs exercise identical parsing.
package fetch

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"

	"premierstats/internal"
	"premierstats/internal/logging"
	"premierstats/internal/util"
)

// Fetcher returns the raw content of url. key is the unit label the page
// belongs to and names its archive entry.
type Fetcher interface {
	Fetch(ctx context.Context, key, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html")
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, key, url string) ([]byte, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		if isTimeout(err) {
			return nil, &internal.RenderTimeoutError{URL: url, Cause: err}
		}
		return nil, &internal.FetchError{URL: url, Cause: err}
	}
	if !res.IsSuccess() {
		return nil, &internal.FetchError{URL: url, Status: res.StatusCode()}
	}
	logging.Default().Debug("fetched page", "unit", key, "url", url, "bytes", len(res.Body()))
	return res.Body(), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ArchiveFetcher serves pages from <dir>/<key>.html.
type ArchiveFetcher struct {
	dir string
}

func NewArchiveFetcher(dir string) *ArchiveFetcher {
	return &ArchiveFetcher{dir: dir}
}

func (f *ArchiveFetcher) Fetch(_ context.Context, key, url string) ([]byte, error) {
	path := ArchivePath(f.dir, key)
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &internal.FetchError{URL: url, Status: 404, Cause: err}
		}
		return nil, &internal.FetchError{URL: url, Cause: err}
	}
	return blob, nil
}

func ArchivePath(dir, key string) string {
	return filepath.Join(dir, util.SanitizeKey(key)+".html")
}

// Recorder stores every successfully fetched page in an archive directory so
// a later run can replay it with ArchiveFetcher.
type Recorder struct {
	next Fetcher
	dir  string
}

func NewRecorder(next Fetcher, dir string) *Recorder {
	return &Recorder{next: next, dir: dir}
}

func (r *Recorder) Fetch(ctx context.Context, key, url string) ([]byte, error) {
	blob, err := r.next.Fetch(ctx, key, url)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create archive dir")
	}
	if err := os.WriteFile(ArchivePath(r.dir, key), blob, 0o644); err != nil {
		return nil, errors.Wrapf(err, "archive %s", key)
	}
	return blob, nil
}

// Throttled serializes fetches through a RateLimiter.
type Throttled struct {
	next    Fetcher
	limiter *RateLimiter
}

func NewThrottled(next Fetcher, interval time.Duration) *Throttled {
	return &Throttled{next: next, limiter: NewRateLimiter(interval)}
}

func (t *Throttled) Fetch(ctx context.Context, key, url string) ([]byte, error) {
	if err := t.limiter.WaitTurn(ctx); err != nil {
		return nil, err
	}
	defer t.limiter.Done()
	return t.next.Fetch(ctx, key, url)
}

// IsLocal reports whether f reads only from disk.
func IsLocal(f Fetcher) bool {
	_, ok := f.(*ArchiveFetcher)
	return ok
}

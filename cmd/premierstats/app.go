package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"premierstats/internal"
	"premierstats/internal/config"
	"premierstats/internal/fetch"
	"premierstats/internal/logging"
	"premierstats/internal/metrics"
	"premierstats/internal/pipeline"
	"premierstats/internal/reconcile"
	"premierstats/internal/schema"
	"premierstats/internal/scrape"
	"premierstats/internal/storage"
)

// app holds everything one command invocation needs.
type app struct {
	cfg     config.Config
	log     *logging.Logger
	runID   string
	offline bool
	fetcher fetch.Fetcher
	metrics *metrics.Metrics
	db      *storage.DB
	opts    pipeline.Options

	metricsSrv *http.Server
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(&cfg)

	log := logging.NewJSON(logging.ParseLevel(cfg.LogLevel))
	logging.SetDefault(log)

	a := &app{
		cfg:     cfg,
		runID:   storage.NewRunID(),
		offline: flagArchives,
		metrics: metrics.New(),
	}
	a.log = log.With("run", a.runID)

	if a.offline {
		a.fetcher = fetch.NewArchiveFetcher(cfg.ArchiveDir)
	} else {
		var f fetch.Fetcher = fetch.NewHTTPFetcher(cfg.UserAgent, cfg.Timeout())
		if flagRecord {
			f = fetch.NewRecorder(f, cfg.ArchiveDir)
		}
		a.fetcher = fetch.NewThrottled(f, cfg.RequestDelay)
	}

	workers := cfg.Workers
	if !fetch.IsLocal(a.fetcher) && workers > 1 {
		a.log.Warn("workers ignored for live fetches", "workers", workers)
		workers = 1
	}
	a.opts = pipeline.Options{Workers: workers, Metrics: a.metrics, Logger: a.log}

	if strings.TrimSpace(cfg.DBPath) != "" {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, errors.Wrap(err, "open run log")
		}
		a.db = db
	}

	if addr := strings.TrimSpace(flagMetricsAddr); addr != "" {
		a.serveMetrics(addr)
	}

	a.log.Info("run started", "offline", a.offline, "record", flagRecord, "workers", workers, "out", cfg.OutputDir)
	return a, nil
}

func applyFlags(cfg *config.Config) {
	if flagArchiveDir != "" {
		cfg.ArchiveDir = flagArchiveDir
	}
	if flagOut != "" {
		cfg.OutputDir = flagOut
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	a.log.Info("serving metrics", "addr", addr)
}

func (a *app) Close() {
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = a.metricsSrv.Shutdown(ctx)
		cancel()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}

func (a *app) players(ctx context.Context) (*pipeline.Dataset, pipeline.Summary, error) {
	s := schema.PremierLeague2024
	if err := s.Validate(); err != nil {
		return nil, pipeline.Summary{}, err
	}
	src := scrape.NewFBref(a.fetcher, s, scrape.FBrefOptions{
		LeagueURL:        a.cfg.LeagueURL,
		SiteBaseURL:      a.cfg.SiteBaseURL,
		TeamTableID:      a.cfg.TeamTableID,
		MinutesThreshold: a.cfg.MinutesThreshold,
	})

	started := time.Now()
	ds, sum, err := pipeline.BuildPlayers(ctx, src, s, a.opts)
	if err != nil {
		return nil, sum, err
	}
	a.storeRun(sum, s.Version, started, func(db *storage.DB, id string) error { return db.SavePlayers(id, ds) })
	return ds, sum, nil
}

func (a *app) transfers(ctx context.Context, players *pipeline.Dataset) ([]internal.TransferValue, pipeline.Summary, error) {
	r, err := a.reconciler()
	if err != nil {
		return nil, pipeline.Summary{}, err
	}
	src := scrape.NewTransfers(a.fetcher, r, scrape.TransferOptions{
		BaseURL: a.cfg.TransferBaseURL,
		Pages:   a.cfg.TransferPages,
		Scale:   a.cfg.TransferValueScale,
	})

	started := time.Now()
	values, sum, err := pipeline.BuildTransferValues(ctx, src, players, a.cfg.TransferMinutesThreshold, a.opts)
	if err != nil {
		return nil, sum, err
	}
	a.storeRun(sum, "", started, func(db *storage.DB, id string) error { return db.SaveTransferValues(id, values) })
	return values, sum, nil
}

func (a *app) reconciler() (*reconcile.Reconciler, error) {
	if strings.TrimSpace(a.cfg.AliasPath) == "" {
		return reconcile.New(nil), nil
	}
	extra, err := reconcile.LoadAliases(a.cfg.AliasPath)
	if err != nil {
		return nil, err
	}
	r := reconcile.New(extra)
	a.log.Info("aliases loaded", "path", a.cfg.AliasPath, "aliases", r.Len())
	return r, nil
}

// storeRun writes the run log entry and the dataset. Failures are logged;
// the exported files remain the primary output.
func (a *app) storeRun(sum pipeline.Summary, version string, started time.Time, save func(*storage.DB, string) error) {
	if a.db == nil {
		return
	}
	err := a.db.InsertRun(storage.Run{
		ID:            a.runID,
		Dataset:       sum.Dataset,
		SchemaVersion: version,
		Offline:       a.offline,
		StartedAt:     started,
		Elapsed:       sum.Elapsed,
		Units:         sum.Units,
		Records:       sum.RecordsCollected,
		Duplicates:    sum.DuplicatesDropped,
		Rows:          sum.Rows,
		Failures:      sum.Failures,
	})
	if err == nil {
		err = save(a.db, a.runID)
	}
	if err != nil {
		a.log.Error("run log write failed", "dataset", sum.Dataset, "err", err)
	}
}

// Package loader acquires the episode data set: it fetches every remote page
// concurrently and merges them, and falls back to a local backup when any
// page fails.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"episodeview/internal/episode"
	"episodeview/internal/feed"
	"episodeview/internal/infra/logx"
)

var (
	// ErrSourceUnavailable means the remote pages could not all be loaded.
	ErrSourceUnavailable = errors.New("remote source unavailable")
	// ErrFallbackUnavailable means the local backup could not be loaded.
	ErrFallbackUnavailable = errors.New("local backup unavailable")
)

// User-visible status lines.
const (
	StatusRemoteFailed = "Remote data load failed. Loading local backup..."
	StatusBackupLoaded = "Successfully loaded from local backup"
	statusLoadFailed   = "Failed to load episodes: "
)

// Source identifies which strategy produced a data set.
type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceFallback:
		return "local backup"
	default:
		return "none"
	}
}

// Fetcher is the network collaborator. feed.Client implements it.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) ([]episode.Episode, error)
	FetchBackup(ctx context.Context, location string) ([]episode.Episode, error)
}

// Reporter receives the loading indicator and transient status lines while a
// load runs.
type Reporter interface {
	SetLoading(loading bool)
	SetStatus(status string)
}

type nopReporter struct{}

func (nopReporter) SetLoading(bool)  {}
func (nopReporter) SetStatus(string) {}

// Options configures a Loader.
type Options struct {
	RemoteURLs    []string
	Fallback      string
	FallbackDelay time.Duration // pause after announcing the fallback
	SuccessHold   time.Duration // how long the backup success line stays up
	Clock         feed.Clock
}

// Loader runs the primary and fallback strategies.
type Loader struct {
	fetch Fetcher
	opts  Options
}

func New(f Fetcher, opts Options) *Loader {
	if opts.Clock == nil {
		opts.Clock = feed.RealClock{}
	}
	return &Loader{fetch: f, opts: opts}
}

// Result is the outcome of a load. On failure Episodes is empty and Status
// carries the message for the user; Err is kept for diagnostics.
type Result struct {
	Episodes []episode.Episode
	Source   Source
	Status   string
	Err      error
}

// Load never fails outright: errors end up in Result.Status. The loading
// indicator is raised for the whole call and always lowered on return.
func (l *Loader) Load(ctx context.Context, rep Reporter) Result {
	if rep == nil {
		rep = nopReporter{}
	}
	rep.SetLoading(true)
	defer rep.SetLoading(false)

	eps, err := l.loadRemote(ctx)
	if err == nil {
		logx.Info().Int("episodes", len(eps)).Int("pages", len(l.opts.RemoteURLs)).Msg("loaded episodes from remote pages")
		return Result{Episodes: eps, Source: SourceRemote}
	}
	logx.Warn().Err(err).Msg("failed to load remote pages, falling back to local backup")

	rep.SetStatus(StatusRemoteFailed)
	l.pause(ctx, l.opts.FallbackDelay)

	eps, ferr := l.loadFallback(ctx)
	if ferr != nil {
		status := statusLoadFailed + ferr.Error()
		logx.Error().Err(ferr).Msg("error loading episodes")
		rep.SetStatus(status)
		return Result{Status: status, Err: errors.Join(err, ferr)}
	}
	logx.Info().Int("episodes", len(eps)).Str("location", l.opts.Fallback).Msg("loaded episodes from local backup")

	rep.SetStatus(StatusBackupLoaded)
	l.pause(ctx, l.opts.SuccessHold)
	rep.SetStatus("")
	return Result{Episodes: eps, Source: SourceFallback}
}

func (l *Loader) loadRemote(ctx context.Context) ([]episode.Episode, error) {
	urls := l.opts.RemoteURLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no remote pages configured", ErrSourceUnavailable)
	}

	// one slot per page; merged only after every fetch succeeded
	pages := make([][]episode.Episode, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			eps, err := l.fetch.FetchPage(gctx, u)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, u, err)
			}
			pages[i] = eps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range pages {
		total += len(p)
	}
	merged := make([]episode.Episode, 0, total)
	for _, p := range pages {
		merged = append(merged, p...)
	}
	episode.SortByRank(merged)
	return merged, nil
}

func (l *Loader) loadFallback(ctx context.Context) ([]episode.Episode, error) {
	if l.opts.Fallback == "" {
		return nil, fmt.Errorf("%w: no backup location configured", ErrFallbackUnavailable)
	}
	eps, err := l.fetch.FetchBackup(ctx, l.opts.Fallback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFallbackUnavailable, err)
	}
	if eps == nil {
		eps = []episode.Episode{}
	}
	episode.SortByRank(eps)
	return eps, nil
}

// pause is purely cosmetic: it keeps a status line visible long enough to
// read, and ends early when ctx is canceled.
func (l *Loader) pause(ctx context.Context, d time.Duration) {
	_ = feed.SleepContext(ctx, l.opts.Clock, d)
}

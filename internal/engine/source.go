package engine

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoadFunc reads a dataset file into a store.
type LoadFunc func(path string) (*ColumnStore, error)

// Source owns the process-wide dataset snapshot. The first Get loads it;
// concurrent first callers share that single load. Once published the
// snapshot is never replaced. A failed load is handed to every waiting
// caller and not remembered, so a later Get reads the file again.
type Source struct {
	path   string
	load   LoadFunc
	logger *zap.Logger
	onLoad func(cs *ColumnStore, elapsed time.Duration)

	group singleflight.Group
	store atomic.Pointer[ColumnStore]
}

type SourceOption func(*Source)

// WithLoader replaces LoadColumnar, mainly for tests.
func WithLoader(fn LoadFunc) SourceOption {
	return func(s *Source) { s.load = fn }
}

func WithLogger(logger *zap.Logger) SourceOption {
	return func(s *Source) { s.logger = logger }
}

// WithLoadHook registers a callback run once after a successful load.
func WithLoadHook(fn func(cs *ColumnStore, elapsed time.Duration)) SourceOption {
	return func(s *Source) { s.onLoad = fn }
}

func NewSource(path string, opts ...SourceOption) *Source {
	s := &Source{
		path:   path,
		load:   LoadColumnar,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the dataset file path.
func (s *Source) Path() string { return s.path }

// Loaded returns the snapshot if it has been loaded, nil otherwise. It never
// triggers a load.
func (s *Source) Loaded() *ColumnStore { return s.store.Load() }

// Get returns the snapshot, loading it on first use.
func (s *Source) Get(ctx context.Context) (*ColumnStore, error) {
	if cs := s.store.Load(); cs != nil {
		return cs, nil
	}

	ch := s.group.DoChan("dataset", func() (interface{}, error) {
		if cs := s.store.Load(); cs != nil {
			return cs, nil
		}
		return s.loadOnce()
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ColumnStore), nil
	}
}

func (s *Source) loadOnce() (*ColumnStore, error) {
	start := time.Now()
	s.logger.Info("loading dataset", zap.String("path", s.path))

	cs, err := s.load(s.path)
	if err != nil {
		s.logger.Error("dataset load failed", zap.String("path", s.path), zap.Error(err))
		return nil, err
	}
	elapsed := time.Since(start)

	if !Validate(cs) {
		s.logger.Warn("dataset is missing required columns",
			zap.Strings("missing", cs.Missing(RequiredColumns...)))
	}
	s.store.Store(cs)
	s.logger.Info("dataset loaded",
		zap.Int("rows", cs.Len()),
		zap.Int("columns", len(cs.Columns)),
		zap.Duration("elapsed", elapsed))

	if s.onLoad != nil {
		s.onLoad(cs, elapsed)
	}
	return cs, nil
}

// Preload loads the snapshot ahead of the first request. A failure is logged
// and swallowed; the next Get retries.
func (s *Source) Preload(ctx context.Context) {
	if _, err := s.Get(ctx); err != nil {
		s.logger.Warn("dataset preload failed, will retry on first request", zap.Error(err))
	}
}

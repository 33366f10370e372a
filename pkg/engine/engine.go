// Package engine keeps named point indexes in memory and makes them safe for
// concurrent use.
//
// Each index is an orthtree over a fixed point set. Queries on an index run in
// parallel; refinement and grading take the index exclusively. Indexes are
// independent of each other.
//
// Basic usage:
//
//	e := engine.New(engine.DefaultOptions())
//	if _, err := e.Create("cloud", points); err != nil {
//	    log.Fatal(err)
//	}
//	nearest, err := e.Nearest("cloud", geom.Point{0, 0, 0}, 5)
package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sanonone/kektortree/pkg/config"
	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/lookup"
	"github.com/sanonone/kektortree/pkg/core/pointset"
	"github.com/sanonone/kektortree/pkg/core/types"
	"github.com/sanonone/kektortree/pkg/metrics"
)

var (
	ErrIndexExists   = errors.New("index already exists")
	ErrIndexNotFound = errors.New("index not found")
)

// Options configures an Engine and the way new indexes are built.
type Options struct {
	// Logger receives one event per mutation. Defaults to a no-op logger.
	Logger zerolog.Logger

	// Metrics enables the prometheus collectors of the metrics package.
	Metrics bool

	// MaxDepth and BucketSize drive the initial refinement: nodes holding
	// more than BucketSize points are split until MaxDepth.
	MaxDepth   int
	BucketSize int
	// Grade balances every new index after refinement.
	Grade bool

	CubicBbox bool
	Padding   float64
}

// DefaultOptions mirrors config.DefaultConfig with logging disabled.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig(), zerolog.Nop())
}

// OptionsFromConfig maps a loaded configuration onto engine options.
func OptionsFromConfig(cfg config.Config, logger zerolog.Logger) Options {
	return Options{
		Logger:     logger,
		Metrics:    cfg.Metrics.Enabled,
		MaxDepth:   cfg.Tree.MaxDepth,
		BucketSize: cfg.Tree.BucketSize,
		Grade:      cfg.Tree.Grade,
		CubicBbox:  cfg.Tree.CubicBbox,
		Padding:    cfg.Tree.Padding,
	}
}

// index is a named point index guarded by its own lock.
type index struct {
	id      uuid.UUID
	name    string
	created time.Time

	mu     sync.RWMutex
	points *pointset.Index
	// rebuilt after every mutation
	cells *lookup.Index
}

// Engine is a registry of named indexes.
type Engine struct {
	opts Options
	log  zerolog.Logger

	mu      sync.RWMutex
	indexes map[string]*index
}

// New creates an empty engine.
func New(opts Options) *Engine {
	return &Engine{
		opts:    opts,
		log:     opts.Logger.With().Str("component", "engine").Logger(),
		indexes: make(map[string]*index),
	}
}

// Create indexes points under name and refines the tree according to the
// engine options. The points slice is retained by the index.
func (e *Engine) Create(name string, points []geom.Point) (types.IndexInfo, error) {
	opts := []pointset.Option{pointset.WithCubicBbox(e.opts.CubicBbox)}
	if e.opts.Padding > 0 {
		opts = append(opts, pointset.WithPadding(e.opts.Padding))
	}
	ps, err := pointset.New(points, opts...)
	if err != nil {
		return types.IndexInfo{}, fmt.Errorf("failed to create index %q: %w", name, err)
	}

	// reserve the name before the potentially long build
	ix := &index{id: uuid.New(), name: name, created: time.Now(), points: ps}
	ix.mu.Lock()
	defer ix.mu.Unlock()

	e.mu.Lock()
	if _, ok := e.indexes[name]; ok {
		e.mu.Unlock()
		return types.IndexInfo{}, fmt.Errorf("%w: %q", ErrIndexExists, name)
	}
	e.indexes[name] = ix
	e.mu.Unlock()

	start := time.Now()
	splits, err := ps.Build(e.opts.MaxDepth, e.opts.BucketSize)
	if err != nil {
		e.remove(name, ix)
		return types.IndexInfo{}, fmt.Errorf("failed to build index %q: %w", name, err)
	}
	e.countSplits(name, "refine", splits)
	if e.opts.Grade {
		e.countSplits(name, "grade", ps.Grade())
	}
	ix.cells = lookup.Build(ps.Tree())
	info := ix.info()
	e.publish(info)

	e.log.Info().
		Str("index", name).
		Str("id", info.ID).
		Int("points", info.Points).
		Int("nodes", info.Nodes).
		Int("depth", info.MaxDepth).
		Dur("elapsed", time.Since(start)).
		Msg("index created")
	return info, nil
}

// Drop removes an index.
func (e *Engine) Drop(name string) error {
	if !e.remove(name, nil) {
		return fmt.Errorf("%w: %q", ErrIndexNotFound, name)
	}
	e.log.Info().Str("index", name).Msg("index dropped")
	return nil
}

// remove deletes name from the registry. When only is set, the entry is
// deleted only if it still holds that index: a Drop followed by a new Create
// may have replaced it meanwhile.
func (e *Engine) remove(name string, only *index) bool {
	e.mu.Lock()
	cur, ok := e.indexes[name]
	if ok && only != nil && cur != only {
		ok = false
	}
	if ok {
		delete(e.indexes, name)
	}
	e.mu.Unlock()
	if ok && e.opts.Metrics {
		metrics.Forget(name)
	}
	return ok
}

func (e *Engine) get(name string) (*index, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ix, ok := e.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIndexNotFound, name)
	}
	return ix, nil
}

// Info describes one index.
func (e *Engine) Info(name string) (types.IndexInfo, error) {
	ix, err := e.get(name)
	if err != nil {
		return types.IndexInfo{}, err
	}
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.info(), nil
}

// List describes every index, sorted by name.
func (e *Engine) List() []types.IndexInfo {
	e.mu.RLock()
	all := make([]*index, 0, len(e.indexes))
	for _, ix := range e.indexes {
		all = append(all, ix)
	}
	e.mu.RUnlock()

	out := make([]types.IndexInfo, 0, len(all))
	for _, ix := range all {
		ix.mu.RLock()
		out = append(out, ix.info())
		ix.mu.RUnlock()
	}
	slices.SortFunc(out, func(a, b types.IndexInfo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// info assumes ix.mu is held.
func (ix *index) info() types.IndexInfo {
	return types.IndexInfo{ID: ix.id.String(), Name: ix.name, Stats: ix.points.Stats()}
}

func (e *Engine) publish(info types.IndexInfo) {
	if !e.opts.Metrics {
		return
	}
	metrics.Nodes.WithLabelValues(info.Name).Set(float64(info.Nodes))
	metrics.Leaves.WithLabelValues(info.Name).Set(float64(info.Leaves))
	metrics.Depth.WithLabelValues(info.Name).Set(float64(info.MaxDepth))
}

func (e *Engine) countSplits(name, phase string, n int) {
	if e.opts.Metrics && n > 0 {
		metrics.Splits.WithLabelValues(name, phase).Add(float64(n))
	}
}

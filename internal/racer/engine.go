// Package racer implements the concurrent expansion that finds a
// hyperlink path from a source article to a destination article:
// frontier admission, destination-bias prioritization, racing
// cancellation, and path reconstruction.
package racer

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultInFlightGate bounds the number of concurrently active
// expansion tasks, independent of the fetcher's own concurrency gate.
const DefaultInFlightGate = 500

// LinkProvider is the single source of "what does this title link
// to", shared by every expansion task in a request.
type LinkProvider interface {
	LinksOf(ctx context.Context, cancel context.CancelFunc, title, destinationHint string) ([]string, error)
}

// Exister validates that a title resolves to a real article before a
// search is started on it.
type Exister interface {
	Exists(ctx context.Context, title string) (bool, error)
}

// Config configures an Engine.
type Config struct {
	InFlightGate int64
	Logger       *zap.Logger
}

// Engine runs path searches. Safe for concurrent use: it holds no
// per-request state itself, only the shared admission gate and its
// collaborators.
type Engine struct {
	provider     LinkProvider
	exister      Exister
	inFlightGate *semaphore.Weighted
	logger       *zap.Logger
}

// New builds an Engine from its collaborators.
func New(provider LinkProvider, exister Exister, cfg Config) *Engine {
	if cfg.InFlightGate == 0 {
		cfg.InFlightGate = DefaultInFlightGate
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Engine{
		provider:     provider,
		exister:      exister,
		inFlightGate: semaphore.NewWeighted(cfg.InFlightGate),
		logger:       cfg.Logger,
	}
}

// request holds the state shared by every expansion task spawned for
// one Race call: the traversed set, the cancellation signal, and the
// lazily-computed destination-hint set.
type request struct {
	engine      *Engine
	ctx         context.Context
	cancel      context.CancelFunc
	destination string
	traversed   *titleSet

	hintOnce  sync.Once
	hintSet   []string
	hintReady atomic.Bool
}

// Race finds a hyperlink path from source to destination, or returns
// nil if no path was found along the greedy expansion this engine
// performed. A source or destination that does not resolve to a real
// article is reported as ErrInvalidSource / ErrInvalidDestination.
func (e *Engine) Race(ctx context.Context, source, destination string) ([]string, error) {
	if source == destination {
		return []string{source}, nil
	}

	sourceOK, err := e.exister.Exists(ctx, source)
	if err != nil {
		return nil, err
	}
	if !sourceOK {
		return nil, ErrInvalidSource
	}

	destOK, err := e.exister.Exists(ctx, destination)
	if err != nil {
		return nil, err
	}
	if !destOK {
		return nil, ErrInvalidDestination
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := &request{
		engine:      e,
		ctx:         raceCtx,
		cancel:      cancel,
		destination: destination,
		traversed:   newTitleSet(),
	}

	rootGate := newLevelGate(1)
	return r.expand(source, rootGate)
}

// expand is the search task for title T, admitted under the global
// in-flight gate and reporting its own link-set completion to
// parentGate.
func (r *request) expand(title string, parentGate *levelGate) ([]string, error) {
	if err := r.engine.inFlightGate.Acquire(r.ctx, 1); err != nil {
		return nil, nil
	}
	released := false
	release := func() {
		if !released {
			r.engine.inFlightGate.Release(1)
			released = true
		}
	}
	defer release()

	if r.ctx.Err() != nil {
		return nil, nil
	}

	childLinks, err := r.sortedLinks(title)
	parentGate.Done()
	if err != nil {
		return nil, err
	}

	if contains(childLinks, r.destination) {
		r.cancel()
		return []string{title, r.destination}, nil
	}

	if len(childLinks) == 0 || r.ctx.Err() != nil {
		<-r.ctx.Done()
		return nil, nil
	}

	// Release before recursing: children do not inherit this task's
	// admission slot.
	release()

	parentGate.Wait(r.ctx)

	filtered := make([]string, 0, len(childLinks))
	for _, c := range childLinks {
		if !r.traversed.Has(c) {
			filtered = append(filtered, c)
		}
	}

	hint := r.computeDestinationHint()
	if len(hint) == 0 {
		r.engine.logger.Debug("destination has no outgoing links, treating as orphan", zap.String("title", r.destination))
		r.cancel()
		return nil, nil
	}

	if len(filtered) == 0 {
		<-r.ctx.Done()
		return nil, nil
	}

	childGate := newLevelGate(len(filtered))
	type outcome struct {
		path []string
		err  error
	}
	results := make(chan outcome, len(filtered))
	for _, child := range filtered {
		child := child
		go func() {
			path, err := r.expand(child, childGate)
			results <- outcome{path, err}
		}()
	}

	select {
	case first := <-results:
		if first.path != nil {
			return append([]string{title}, first.path...), first.err
		}
		<-r.ctx.Done()
		return nil, nil
	case <-r.ctx.Done():
		return nil, nil
	}
}

// sortedLinks returns T's link set, biased toward the destination-hint
// set when it has already been computed, and records T in the
// traversed set. A title already traversed yields an empty sequence so
// it is never re-expanded.
func (r *request) sortedLinks(title string) ([]string, error) {
	if r.traversed.Has(title) {
		return nil, nil
	}

	linkSet, err := r.engine.provider.LinksOf(r.ctx, r.cancel, title, r.destination)
	if err != nil {
		return nil, err
	}

	if len(linkSet) > 0 {
		r.traversed.Add(title)
	}

	if hint := r.hintIfReady(); len(hint) > 0 {
		return biasTowardHint(linkSet, hint), nil
	}
	return linkSet, nil
}

// computeDestinationHint computes the destination's own link set at
// most once per request.
func (r *request) computeDestinationHint() []string {
	r.hintOnce.Do(func() {
		links, err := r.engine.provider.LinksOf(r.ctx, r.cancel, r.destination, "")
		if err != nil {
			r.engine.logger.Debug("failed computing destination hint set", zap.Error(err))
		}
		r.hintSet = links
		r.hintReady.Store(true)
	})
	return r.hintSet
}

// hintIfReady returns the destination-hint set if it has already been
// computed by some task in this request, without triggering or
// blocking on the computation itself.
func (r *request) hintIfReady() []string {
	if r.hintReady.Load() {
		return r.hintSet
	}
	return nil
}

// biasTowardHint partitions linkSet into members of hint, in their
// original order, followed by everything else. Pages linked from the
// destination are disproportionately likely to link back to it, so
// expanding them first accelerates discovery.
func biasTowardHint(linkSet, hint []string) []string {
	inHint := make(map[string]struct{}, len(hint))
	for _, h := range hint {
		inHint[h] = struct{}{}
	}

	biased := make([]string, 0, len(linkSet))
	rest := make([]string, 0, len(linkSet))
	for _, l := range linkSet {
		if _, ok := inHint[l]; ok {
			biased = append(biased, l)
		} else {
			rest = append(rest, l)
		}
	}
	return append(biased, rest...)
}

func contains(set []string, target string) bool {
	for _, s := range set {
		if s == target {
			return true
		}
	}
	return false
}

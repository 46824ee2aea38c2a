// Package links composes the cache, fetcher and extractor into the
// single authoritative source for "what does this title link to".
package links

import (
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"
)

// Cache is the subset of linkcache.Store the provider depends on.
type Cache interface {
	Get(ctx context.Context, title string) ([]string, bool)
	Set(ctx context.Context, title string, links []string)
}

// Fetcher retrieves the raw HTML body for a title, honoring a shared
// concurrency gate and cooperating with the request's cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, cancel context.CancelFunc, title string) ([]byte, bool)
}

// Extractor parses an HTML body into a deduplicated, filtered link
// set. wikiparse.Extract satisfies this directly.
type Extractor func(r io.Reader, selfTitle string) ([]string, error)

// Provider composes a Cache, Fetcher and Extractor into LinksOf, the
// single authoritative way to ask "what does this title link to".
type Provider struct {
	cache     Cache
	fetcher   Fetcher
	extractor Extractor
	logger    *zap.Logger
}

// New builds a Provider from its three collaborators.
func New(cache Cache, fetcher Fetcher, extractor Extractor, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cache: cache, fetcher: fetcher, extractor: extractor, logger: logger}
}

// LinksOf returns the link set of title. destinationHint, when
// non-empty, is the search destination: if it turns up among the
// freshly extracted links, LinksOf sets the cancellation signal via
// cancel and returns the set without writing it to the cache, since
// the caller is about to unwind the whole search on a found path and a
// cache round-trip at that point only adds latency.
func (p *Provider) LinksOf(ctx context.Context, cancel context.CancelFunc, title, destinationHint string) ([]string, error) {
	if cached, ok := p.cache.Get(ctx, title); ok {
		return cached, nil
	}

	if ctx.Err() != nil {
		return nil, nil
	}

	body, ok := p.fetcher.Fetch(ctx, cancel, title)
	if !ok {
		return nil, nil
	}

	if ctx.Err() != nil {
		return nil, nil
	}

	extracted, err := p.extractor(bytes.NewReader(body), title)
	if err != nil {
		return nil, err
	}

	if destinationHint != "" && contains(extracted, destinationHint) {
		cancel()
		return extracted, nil
	}

	p.cache.Set(ctx, title, extracted)
	return extracted, nil
}

func contains(set []string, target string) bool {
	for _, s := range set {
		if s == target {
			return true
		}
	}
	return false
}

// Package linkcache memoizes title -> outgoing-link-set lookups across
// requests. Implementations must degrade to a miss on read failure and
// a silent drop on write failure; a cache outage must never fail a
// search.
package linkcache

import "context"

// Store is a title -> link-set cache shared across concurrent searches.
type Store interface {
	// Get returns the cached link set for title, if any.
	Get(ctx context.Context, title string) ([]string, bool)
	// Set overwrites any existing entry for title.
	Set(ctx context.Context, title string, links []string)
}

// Package storage owns the append-only analytics event collection: inserts on
// the write side, aggregation pipelines on the read side. Events are never
// updated or deleted once written.
package storage

import (
	"context"
	"time"

	"github.com/mvavassori/digital-mall/models"
)

// AnalyticsStore is what the analytics handlers program against. The Mongo
// implementation is the production path; the in-memory one backs tests and
// local development.
//
// The three reads share the same contract: events at or after `since` count
// (inclusive lower bound), older ones don't, and an empty result is a valid
// answer, not an error.
type AnalyticsStore interface {
	// Insert appends one event. Callers on the ingestion path must not block
	// their response on it.
	Insert(ctx context.Context, event models.AnalyticsEvent) error

	// TopStores returns up to `limit` stores by STORE_VIEW count since the
	// given instant, enriched with current store attributes. Stores that no
	// longer exist are dropped from the result.
	TopStores(ctx context.Context, since time.Time, limit int) ([]models.StoreViewStat, error)

	// TopSearches returns up to `limit` lowercased search terms by count.
	TopSearches(ctx context.Context, since time.Time, limit int) ([]models.SearchStat, error)

	// ActivityOverTime returns sparse per-day buckets in chronological order.
	ActivityOverTime(ctx context.Context, since time.Time) ([]models.ActivityBucket, error)
}

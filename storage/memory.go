package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mvavassori/digital-mall/models"
)

// MemoryAnalyticsStore keeps everything in process memory. It mirrors the
// Mongo pipelines' semantics exactly (inclusive window bound, lowercased
// search grouping, deterministic tie-breaks, sparse UTC day buckets,
// inner-join enrichment) and is what the tests and MONGO-less local runs use.
type MemoryAnalyticsStore struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
	stores map[primitive.ObjectID]StoreRecord
}

// StoreRecord is the slice of a store document the enrichment join reads.
type StoreRecord struct {
	Name     string
	Category string
}

func NewMemoryAnalyticsStore() *MemoryAnalyticsStore {
	return &MemoryAnalyticsStore{
		stores: make(map[primitive.ObjectID]StoreRecord),
	}
}

// AddStore registers a store document for the enrichment join.
func (s *MemoryAnalyticsStore) AddStore(id primitive.ObjectID, name, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[id] = StoreRecord{Name: name, Category: category}
}

// RemoveStore deletes a store, leaving any events that reference it dangling.
func (s *MemoryAnalyticsStore) RemoveStore(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stores, id)
}

// Len reports how many events have been written.
func (s *MemoryAnalyticsStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Events returns a snapshot of every event written so far, in write order.
func (s *MemoryAnalyticsStore) Events() []models.AnalyticsEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AnalyticsEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *MemoryAnalyticsStore) Insert(ctx context.Context, event models.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryAnalyticsStore) TopStores(ctx context.Context, since time.Time, limit int) ([]models.StoreViewStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[primitive.ObjectID]int64)
	for _, e := range s.events {
		if e.EventType != models.EventTypeStoreView || e.Timestamp.Before(since) {
			continue
		}
		if e.EntityID == nil {
			continue
		}
		counts[*e.EntityID]++
	}

	ids := make([]primitive.ObjectID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i].Hex() < ids[j].Hex()
	})

	if len(ids) > limit {
		ids = ids[:limit]
	}

	// Inner-join against the store directory: misses are dropped, so the
	// result can be shorter than the truncated top-N.
	stats := []models.StoreViewStat{}
	for _, id := range ids {
		record, ok := s.stores[id]
		if !ok {
			continue
		}
		stats = append(stats, models.StoreViewStat{
			StoreID:  id,
			Name:     record.Name,
			Category: record.Category,
			Views:    counts[id],
		})
	}

	return stats, nil
}

func (s *MemoryAnalyticsStore) TopSearches(ctx context.Context, since time.Time, limit int) ([]models.SearchStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.EventType != models.EventTypeSearchQuery || e.Timestamp.Before(since) {
			continue
		}
		counts[strings.ToLower(e.Metadata.Query)]++
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}

	stats := []models.SearchStat{}
	for _, term := range terms {
		stats = append(stats, models.SearchStat{Query: term, Count: counts[term]})
	}

	return stats, nil
}

func (s *MemoryAnalyticsStore) ActivityOverTime(ctx context.Context, since time.Time) ([]models.ActivityBucket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := make(map[string]*models.ActivityBucket)
	for _, e := range s.events {
		if e.Timestamp.Before(since) {
			continue
		}
		day := e.Timestamp.UTC().Format("2006-01-02")
		bucket, ok := buckets[day]
		if !ok {
			bucket = &models.ActivityBucket{Date: day}
			buckets[day] = bucket
		}
		bucket.TotalEvents++
		switch e.EventType {
		case models.EventTypeStoreView:
			bucket.StoreViews++
		case models.EventTypeSearchQuery:
			bucket.Searches++
		}
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	out := []models.ActivityBucket{}
	for _, day := range days {
		out = append(out, *buckets[day])
	}

	return out, nil
}

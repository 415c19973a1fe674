package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mvavassori/digital-mall/models"
)

const (
	eventsCollection = "analyticsevents"
	storesCollection = "stores"
)

type MongoAnalyticsStore struct {
	coll *mongo.Collection
}

// NewMongoAnalyticsStore wraps the analytics event collection and makes sure
// the indexes behind the three read shapes exist: recency scans, per-type
// window scans, per-entity lookups and per-user history.
func NewMongoAnalyticsStore(db *mongo.Database) *MongoAnalyticsStore {
	store := &MongoAnalyticsStore{
		coll: db.Collection(eventsCollection),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "eventType", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "entityId", Value: 1}, {Key: "eventType", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}

	if _, err := store.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Println("Error creating analytics indexes:", err)
	}

	return store
}

func (s *MongoAnalyticsStore) Insert(ctx context.Context, event models.AnalyticsEvent) error {
	if _, err := s.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return nil
}

// TopStores groups STORE_VIEW events by entity, keeps the ten most viewed and
// joins each against the stores collection for display attributes. The
// $unwind makes the join an inner join: a view whose store has since been
// deleted simply falls out of the result.
func (s *MongoAnalyticsStore) TopStores(ctx context.Context, since time.Time, limit int) ([]models.StoreViewStat, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"eventType": models.EventTypeStoreView,
			"timestamp": bson.M{"$gte": since},
		}},
		{"$group": bson.M{
			"_id":   "$entityId",
			"views": bson.M{"$sum": 1},
		}},
		// Ties resolve on the entity id so repeated reads agree.
		{"$sort": bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": limit},
		{"$lookup": bson.M{
			"from":         storesCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "store",
		}},
		{"$unwind": "$store"},
		{"$project": bson.M{
			"storeId":  "$_id",
			"name":     "$store.name",
			"category": "$store.category",
			"views":    1,
		}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top stores: %w", err)
	}
	defer cursor.Close(ctx)

	stats := []models.StoreViewStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode top stores: %w", err)
	}

	return stats, nil
}

// TopSearches lowercases metadata.query inside the grouping stage so "Nike"
// and "nike" land in the same bucket.
func (s *MongoAnalyticsStore) TopSearches(ctx context.Context, since time.Time, limit int) ([]models.SearchStat, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"eventType": models.EventTypeSearchQuery,
			"timestamp": bson.M{"$gte": since},
		}},
		{"$group": bson.M{
			"_id":   bson.M{"$toLower": "$metadata.query"},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}},
		{"$limit": limit},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top searches: %w", err)
	}
	defer cursor.Close(ctx)

	stats := []models.SearchStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode top searches: %w", err)
	}

	return stats, nil
}

// ActivityOverTime buckets every event type by UTC calendar day. Days with no
// events produce no bucket; the dashboard renders the series as-is.
func (s *MongoAnalyticsStore) ActivityOverTime(ctx context.Context, since time.Time) ([]models.ActivityBucket, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"timestamp": bson.M{"$gte": since},
		}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$timestamp",
			}},
			"totalEvents": bson.M{"$sum": 1},
			"storeViews": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$eventType", models.EventTypeStoreView}}, 1, 0},
			}},
			"searches": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$eventType", models.EventTypeSearchQuery}}, 1, 0},
			}},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity: %w", err)
	}
	defer cursor.Close(ctx)

	buckets := []models.ActivityBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode activity buckets: %w", err)
	}

	return buckets, nil
}

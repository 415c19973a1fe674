package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsEventType is a closed set; adding a kind is a code change, not a migration.
type AnalyticsEventType string

const (
	EventTypeStoreView   AnalyticsEventType = "STORE_VIEW"
	EventTypeEventView   AnalyticsEventType = "EVENT_VIEW"
	EventTypeSearchQuery AnalyticsEventType = "SEARCH_QUERY"
	EventTypeOfferClick  AnalyticsEventType = "OFFER_CLICK"
)

func (t AnalyticsEventType) Valid() bool {
	switch t {
	case EventTypeStoreView, EventTypeEventView, EventTypeSearchQuery, EventTypeOfferClick:
		return true
	}
	return false
}

// EventMetadata carries the per-event extra data the dashboard actually reads.
// Unknown keys sent by clients are dropped at decode time.
type EventMetadata struct {
	Query  string `json:"query,omitempty" bson:"query,omitempty"`
	Page   string `json:"page,omitempty" bson:"page,omitempty"`
	Source string `json:"source,omitempty" bson:"source,omitempty"`
	Device string `json:"device,omitempty" bson:"device,omitempty"`
}

func (m EventMetadata) IsZero() bool {
	return m == EventMetadata{}
}

// AnalyticsEvent is the persisted envelope. Records are append-only and never
// mutated; Timestamp is assigned by the server at write time, never by callers.
type AnalyticsEvent struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	EventType AnalyticsEventType  `json:"eventType" bson:"eventType"`
	EntityID  *primitive.ObjectID `json:"entityId,omitempty" bson:"entityId,omitempty"`
	UserID    *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Metadata  EventMetadata       `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Timestamp time.Time           `json:"timestamp" bson:"timestamp"`
}

// AnalyticsEventReceiver holds what the public ingestion endpoint accepts.
// EntityID stays a string here; dangling or malformed references are the
// store's problem, not the caller's.
type AnalyticsEventReceiver struct {
	EventType string        `json:"eventType"`
	EntityID  string        `json:"entityId,omitempty"`
	Metadata  EventMetadata `json:"metadata,omitempty"`
}

func (r *AnalyticsEventReceiver) Validate() error {
	if r.EventType == "" {
		return errors.New("eventType is required")
	}
	if !AnalyticsEventType(r.EventType).Valid() {
		return errors.New("eventType must be one of STORE_VIEW, EVENT_VIEW, SEARCH_QUERY, OFFER_CLICK")
	}
	return nil
}

// StoreViewStat is one row of the top-stores aggregation, already enriched
// with the store's current display attributes.
type StoreViewStat struct {
	StoreID  primitive.ObjectID `json:"storeId" bson:"storeId"`
	Name     string             `json:"name" bson:"name"`
	Category string             `json:"category" bson:"category"`
	Views    int64              `json:"views" bson:"views"`
}

// SearchStat is one row of the top-searches aggregation. Query is already
// lowercased by the grouping stage.
type SearchStat struct {
	Query string `json:"query" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// ActivityBucket is one calendar day of activity. Date is a UTC "YYYY-MM-DD"
// string and keeps the _id key on the wire so the dashboard can consume the
// aggregation output directly. Days without events produce no bucket.
type ActivityBucket struct {
	Date        string `json:"_id" bson:"_id"`
	TotalEvents int64  `json:"totalEvents" bson:"totalEvents"`
	StoreViews  int64  `json:"storeViews" bson:"storeViews"`
	Searches    int64  `json:"searches" bson:"searches"`
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mvavassori/digital-mall/middleware"
	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/storage"
)

// slowStore delays every insert, standing in for a hung storage layer.
type slowStore struct {
	*storage.MemoryAnalyticsStore
	delay time.Duration
}

func (s *slowStore) Insert(ctx context.Context, event models.AnalyticsEvent) error {
	time.Sleep(s.delay)
	return s.MemoryAnalyticsStore.Insert(ctx, event)
}

// errStore fails every operation.
type errStore struct{}

func (errStore) Insert(context.Context, models.AnalyticsEvent) error { return errors.New("down") }
func (errStore) TopStores(context.Context, time.Time, int) ([]models.StoreViewStat, error) {
	return nil, errors.New("down")
}
func (errStore) TopSearches(context.Context, time.Time, int) ([]models.SearchStat, error) {
	return nil, errors.New("down")
}
func (errStore) ActivityOverTime(context.Context, time.Time) ([]models.ActivityBucket, error) {
	return nil, errors.New("down")
}

func waitForEvents(t *testing.T, store *storage.MemoryAnalyticsStore, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Len() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events, have %d", want, store.Len())
}

func postEvent(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/analytics/event", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRecordEventMissingTypeRejected(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	handler := RecordEvent(store)

	w := postEvent(handler, `{"entityId":"652f1a2b3c4d5e6f78901234"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// Give a buggy async write a chance to land before checking.
	time.Sleep(50 * time.Millisecond)
	if store.Len() != 0 {
		t.Errorf("rejected request still wrote %d events", store.Len())
	}
}

func TestRecordEventUnknownTypeRejected(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	handler := RecordEvent(store)

	w := postEvent(handler, `{"eventType":"PAGE_VIEW"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	time.Sleep(50 * time.Millisecond)
	if store.Len() != 0 {
		t.Errorf("rejected request still wrote %d events", store.Len())
	}
}

func TestRecordEventAccepted(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	handler := RecordEvent(store)

	w := postEvent(handler, `{"eventType":"STORE_VIEW","entityId":"652f1a2b3c4d5e6f78901234","metadata":{"page":"Directory"}}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	var resp struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || resp.Data != nil {
		t.Errorf("expected {success:true, data:null}, got %+v", resp)
	}

	waitForEvents(t, store, 1)
	event := store.Events()[0]
	if event.EventType != models.EventTypeStoreView {
		t.Errorf("stored type %q", event.EventType)
	}
	if event.EntityID == nil || event.EntityID.Hex() != "652f1a2b3c4d5e6f78901234" {
		t.Errorf("entity reference not stored: %+v", event.EntityID)
	}
	if event.Metadata.Page != "Directory" {
		t.Errorf("metadata page %q", event.Metadata.Page)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp not assigned at write time")
	}
}

func TestRecordEventDoesNotWaitForStorage(t *testing.T) {
	slow := &slowStore{MemoryAnalyticsStore: storage.NewMemoryAnalyticsStore(), delay: 300 * time.Millisecond}
	handler := RecordEvent(slow)

	started := time.Now()
	w := postEvent(handler, `{"eventType":"OFFER_CLICK"}`)
	elapsed := time.Since(started)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if elapsed >= slow.delay {
		t.Fatalf("response took %v, waited on the %v storage delay", elapsed, slow.delay)
	}

	waitForEvents(t, slow.MemoryAnalyticsStore, 1)
}

func TestRecordEventSwallowsStorageFailure(t *testing.T) {
	handler := RecordEvent(errStore{})

	w := postEvent(handler, `{"eventType":"EVENT_VIEW"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 despite store outage, got %d", w.Code)
	}
}

func TestRecordEventMalformedEntityIdDropped(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	handler := RecordEvent(store)

	w := postEvent(handler, `{"eventType":"STORE_VIEW","entityId":"not-an-object-id"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	waitForEvents(t, store, 1)
	if store.Events()[0].EntityID != nil {
		t.Error("malformed entityId should not be stored")
	}
}

func TestRecordEventAttributesAuthenticatedCaller(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	handler := RecordEvent(store)

	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/api/v1/analytics/event", strings.NewReader(`{"eventType":"SEARCH_QUERY","metadata":{"query":"Nike"}}`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIdKey, userID.Hex()))
	w := httptest.NewRecorder()
	handler(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	waitForEvents(t, store, 1)
	event := store.Events()[0]
	if event.UserID == nil || *event.UserID != userID {
		t.Errorf("caller identity not attached: %+v", event.UserID)
	}
}

func TestGetTopStoresResponseShape(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	id := primitive.NewObjectID()
	store.AddStore(id, "Nike", "Fashion")
	entity := id
	for i := 0; i < 3; i++ {
		store.Insert(context.Background(), models.AnalyticsEvent{
			EventType: models.EventTypeStoreView,
			EntityID:  &entity,
			Timestamp: time.Now().UTC(),
		})
	}

	req := httptest.NewRequest("GET", "/api/v1/admin/analytics/top-stores", nil)
	w := httptest.NewRecorder()
	GetTopStores(store)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			StoreID  string `json:"storeId"`
			Name     string `json:"name"`
			Category string `json:"category"`
			Views    int64  `json:"views"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	row := resp.Data[0]
	if row.StoreID != id.Hex() || row.Name != "Nike" || row.Category != "Fashion" || row.Views != 3 {
		t.Errorf("unexpected row %+v", row)
	}
}

func TestGetTopSearchesResponseShape(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	for _, q := range []string{"Nike", "nike", "ramen"} {
		store.Insert(context.Background(), models.AnalyticsEvent{
			EventType: models.EventTypeSearchQuery,
			Metadata:  models.EventMetadata{Query: q},
			Timestamp: time.Now().UTC(),
		})
	}

	req := httptest.NewRequest("GET", "/api/v1/admin/analytics/top-searches", nil)
	w := httptest.NewRecorder()
	GetTopSearches(store)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Query string `json:"query"`
			Count int64  `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[0].Query != "nike" || resp.Data[0].Count != 2 {
		t.Errorf("unexpected data %+v", resp.Data)
	}
}

func TestGetActivityResponseShape(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	day := time.Now().UTC().AddDate(0, 0, -2)
	store.Insert(context.Background(), models.AnalyticsEvent{
		EventType: models.EventTypeStoreView,
		Timestamp: day,
	})

	req := httptest.NewRequest("GET", "/api/v1/admin/analytics/activity", nil)
	w := httptest.NewRecorder()
	GetActivityOverTime(store)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			Date        string `json:"_id"`
			TotalEvents int64  `json:"totalEvents"`
			StoreViews  int64  `json:"storeViews"`
			Searches    int64  `json:"searches"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected one bucket, got %+v", resp.Data)
	}
	if resp.Data[0].Date != day.Format("2006-01-02") || resp.Data[0].TotalEvents != 1 || resp.Data[0].StoreViews != 1 {
		t.Errorf("unexpected bucket %+v", resp.Data[0])
	}
}

func TestAggregationWindowParamFallsBack(t *testing.T) {
	store := storage.NewMemoryAnalyticsStore()
	id := primitive.NewObjectID()
	store.AddStore(id, "Zara", "Fashion")
	entity := id

	// 10 days old: inside the default 30 day window.
	store.Insert(context.Background(), models.AnalyticsEvent{
		EventType: models.EventTypeStoreView,
		EntityID:  &entity,
		Timestamp: time.Now().UTC().AddDate(0, 0, -10),
	})

	for _, query := range []string{"", "days=abc", "days=-5", "days=0"} {
		target := "/api/v1/admin/analytics/top-stores"
		if query != "" {
			target += "?" + query
		}
		req := httptest.NewRequest("GET", target, nil)
		w := httptest.NewRecorder()
		GetTopStores(store)(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", query, w.Code)
		}
		var resp struct {
			Data []models.StoreViewStat `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%q: bad body: %v", query, err)
		}
		if len(resp.Data) != 1 {
			t.Errorf("%q: expected default window to include the event, got %+v", query, resp.Data)
		}
	}

	// An explicit narrow window excludes it.
	req := httptest.NewRequest("GET", "/api/v1/admin/analytics/top-stores?days=5", nil)
	w := httptest.NewRecorder()
	GetTopStores(store)(w, req)
	var resp struct {
		Data []models.StoreViewStat `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("days=5 should exclude a 10 day old event, got %+v", resp.Data)
	}
}

func TestAggregationStorageFailureIsServerError(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"top-stores":   GetTopStores(errStore{}),
		"top-searches": GetTopSearches(errStore{}),
		"activity":     GetActivityOverTime(errStore{}),
	}
	for name, handler := range cases {
		req := httptest.NewRequest("GET", "/api/v1/admin/analytics/"+name, nil)
		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", name, w.Code)
		}
	}
}

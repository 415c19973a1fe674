package tracker

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mvavassori/digital-mall/models"
)

func TestTrackDeliversEvent(t *testing.T) {
	var mu sync.Mutex
	var received []payload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		mu.Lock()
		received = append(received, p)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	tr := New(server.URL)
	tr.Track(models.EventTypeSearchQuery, "", models.EventMetadata{Query: "Nike"})
	tr.Track(models.EventTypeStoreView, "652f1a2b3c4d5e6f78901234", models.EventMetadata{Source: "kiosk"})
	tr.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("expected 2 delivered events, got %d", len(received))
	}
	if received[0].EventType != "SEARCH_QUERY" || received[0].Metadata.Query != "Nike" {
		t.Errorf("unexpected first payload: %+v", received[0])
	}
	if received[1].EntityID != "652f1a2b3c4d5e6f78901234" {
		t.Errorf("unexpected second payload: %+v", received[1])
	}
}

func TestTrackNeverBlocksOnSlowEndpoint(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()
	defer close(release)

	tr := New(server.URL)

	start := time.Now()
	for i := 0; i < defaultBufferSize*2; i++ {
		tr.Track(models.EventTypeStoreView, "652f1a2b3c4d5e6f78901234", models.EventMetadata{})
	}
	elapsed := time.Since(start)

	if elapsed > 500*time.Millisecond {
		t.Errorf("Track blocked for %v with a stalled endpoint", elapsed)
	}
}

func TestTrackSwallowsTransportErrors(t *testing.T) {
	// Nothing is listening here; every send fails.
	tr := New("http://127.0.0.1:1/api/v1/analytics/event")
	tr.Track(models.EventTypeOfferClick, "652f1a2b3c4d5e6f78901234", models.EventMetadata{})
	tr.Close() // must return despite the failures
}

func TestConcurrentTrackAndClose(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	// Racing Track against Close must drop events, never panic.
	for i := 0; i < 1000; i++ {
		tr := New(server.URL)

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tr.Track(models.EventTypeStoreView, "652f1a2b3c4d5e6f78901234", models.EventMetadata{})
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Close()
		}()
		wg.Wait()
	}
}

func TestCloseIsIdempotentAndStopsAccepting(t *testing.T) {
	var mu sync.Mutex
	var count int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	tr := New(server.URL)
	tr.Track(models.EventTypeEventView, "652f1a2b3c4d5e6f78901234", models.EventMetadata{})
	tr.Close()
	tr.Close()

	// Events after Close are dropped, not delivered and not a panic.
	tr.Track(models.EventTypeEventView, "652f1a2b3c4d5e6f78901234", models.EventMetadata{})

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected exactly 1 delivery, got %d", count)
	}
}

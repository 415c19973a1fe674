// Package tracker is the producer side of the analytics pipeline: a
// fire-and-forget client for services (kiosks, the map display, internal
// tools) that want to record interaction events without ever letting
// analytics slow down or break what the user is doing.
//
// Delivery is best-effort and at-most-once. Track never blocks: events go
// onto a bounded buffer drained by one background worker, and when the
// buffer is full the event is dropped. Transport failures are logged and
// discarded, never returned.
package tracker

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mvavassori/digital-mall/models"
)

const defaultBufferSize = 256

type payload struct {
	EventType string               `json:"eventType"`
	EntityID  string               `json:"entityId,omitempty"`
	Metadata  models.EventMetadata `json:"metadata,omitempty"`
}

type Tracker struct {
	endpoint string
	client   *http.Client
	queue    chan payload

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// New starts a tracker posting to the given ingestion endpoint URL
// (".../api/v1/analytics/event").
func New(endpoint string) *Tracker {
	t := &Tracker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
		queue:    make(chan payload, defaultBufferSize),
		done:     make(chan struct{}),
	}
	go t.worker()
	return t
}

// Track enqueues one event. It returns immediately; when the buffer is full
// or the tracker is closed the event is silently dropped.
func (t *Tracker) Track(eventType models.AnalyticsEventType, entityID string, metadata models.EventMetadata) {
	// The send happens under the same mutex Close closes the queue under,
	// so it can never hit a closed channel.
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	select {
	case t.queue <- payload{EventType: string(eventType), EntityID: entityID, Metadata: metadata}:
	default:
		// Buffer full: losing the event beats blocking the caller.
	}
}

// Close stops accepting events, flushes what's buffered and waits for the
// worker to finish. Safe to call more than once.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	<-t.done
}

func (t *Tracker) worker() {
	defer close(t.done)
	for p := range t.queue {
		t.send(p)
	}
}

func (t *Tracker) send(p payload) {
	body, err := json.Marshal(p)
	if err != nil {
		log.Println("Analytics tracking failed:", err)
		return
	}

	resp, err := t.client.Post(t.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Println("Analytics tracking failed:", err)
		return
	}
	resp.Body.Close()
}

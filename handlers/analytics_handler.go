package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/mileusna/useragent"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mvavassori/digital-mall/middleware"
	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/storage"
	"github.com/mvavassori/digital-mall/utils"
)

const (
	defaultWindowDays = 30
	topListLimit      = 10
	writeTimeout      = 5 * time.Second
	queryTimeout      = 10 * time.Second
)

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// RecordEvent is the public clickstream ingestion endpoint. It validates the
// envelope, schedules the write and replies 202 before the write happens;
// a slow or down store must never delay or fail the user action that fired
// the event.
func RecordEvent(store storage.AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var receiver models.AnalyticsEventReceiver
		err := json.NewDecoder(r.Body).Decode(&receiver)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		if err := receiver.Validate(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		event := models.AnalyticsEvent{
			EventType: models.AnalyticsEventType(receiver.EventType),
			Metadata:  receiver.Metadata,
			Timestamp: time.Now().UTC(),
		}

		// References are stored as-is, never checked against their
		// collection; a reference that doesn't even parse is dropped.
		if receiver.EntityID != "" {
			entityID, err := primitive.ObjectIDFromHex(receiver.EntityID)
			if err != nil {
				log.Println("Dropping malformed entityId on analytics event:", err)
			} else {
				event.EntityID = &entityID
			}
		}

		// Attribution is best-effort: set only when the optional auth
		// middleware resolved a caller.
		if userId, ok := r.Context().Value(middleware.UserIdKey).(string); ok && userId != "" {
			if id, err := primitive.ObjectIDFromHex(userId); err == nil {
				event.UserID = &id
			}
		}

		if uaHeader := r.Header.Get("User-Agent"); uaHeader != "" && event.Metadata.Device == "" {
			ua := useragent.Parse(uaHeader)
			event.Metadata.Device = utils.GetDeviceType(&ua)
		}

		// Fire-and-forget. The goroutine gets its own context so a client
		// disconnect can't cancel the write, and a persistence failure is
		// logged, never surfaced: the caller already has its 202.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := store.Insert(ctx, event); err != nil {
				log.Println("Analytics write error:", err)
			}
		}()

		utils.WriteJSON(w, http.StatusAccepted, successResponse{Success: true, Data: nil})
	}
}

// GetTopStores returns the ten most viewed stores in the lookback window.
func GetTopStores(store storage.AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := utils.ExtractDaysParam(r, defaultWindowDays)

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		stats, err := store.TopStores(ctx, windowStart(days), topListLimit)
		if err != nil {
			log.Println("Error aggregating top stores:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: stats})
	}
}

// GetTopSearches returns the ten most frequent search terms, lowercased.
func GetTopSearches(store storage.AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := utils.ExtractDaysParam(r, defaultWindowDays)

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		stats, err := store.TopSearches(ctx, windowStart(days), topListLimit)
		if err != nil {
			log.Println("Error aggregating top searches:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: stats})
	}
}

// GetActivityOverTime returns per-day event counts for the dashboard's
// timeline widget, oldest day first.
func GetActivityOverTime(store storage.AnalyticsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := utils.ExtractDaysParam(r, defaultWindowDays)

		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()

		buckets, err := store.ActivityOverTime(ctx, windowStart(days))
		if err != nil {
			log.Println("Error aggregating activity:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: buckets})
	}
}

func windowStart(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -days)
}

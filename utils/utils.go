package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mileusna/useragent"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExtractObjectIDFromURL reads the {id} path variable as a Mongo ObjectID.
func ExtractObjectIDFromURL(r *http.Request) (primitive.ObjectID, error) {
	vars := mux.Vars(r)
	idStr, ok := vars["id"]
	if !ok {
		return primitive.NilObjectID, errors.New("id not provided in the URL")
	}

	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, errors.New("id must be a valid object id")
	}

	return id, nil
}

// ExtractDaysParam reads the optional ?days= lookback window. The aggregation
// endpoints are permissive readers: anything missing or malformed falls back
// to the default rather than failing.
func ExtractDaysParam(r *http.Request, defaultDays int) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return defaultDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return defaultDays
	}
	return days
}

func GetDeviceType(ua *useragent.UserAgent) string {
	if ua.Mobile {
		return "Mobile"
	} else if ua.Tablet {
		return "Tablet"
	} else if ua.Desktop {
		return "Desktop"
	} else if ua.Bot {
		return "Bot"
	} else {
		return "Unknown"
	}
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Success: false, Message: err.Error()})
}

func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	jsonResponse, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(jsonResponse)
}

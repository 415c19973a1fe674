package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/utils"
)

// GetEvents lists mall events that haven't ended yet, soonest first.
func GetEvents(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := bson.M{"endDate": bson.M{"$gte": time.Now().UTC()}}
		opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})

		cursor, err := db.Collection("events").Find(r.Context(), filter, opts)
		if err != nil {
			log.Println("Error querying events:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		events := []models.Event{}
		if err := cursor.All(r.Context(), &events); err != nil {
			log.Println("Error decoding events:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, listResponse{Success: true, Count: len(events), Data: events})
	}
}

func GetEvent(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		var event models.Event
		err = db.Collection("events").FindOne(r.Context(), bson.M{"_id": id}).Decode(&event)
		if err == mongo.ErrNoDocuments {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("event not found with id of %s", id.Hex()))
			return
		} else if err != nil {
			log.Println("Error retrieving event:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: event})
	}
}

func CreateEvent(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var insert models.EventInsert
		err := json.NewDecoder(r.Body).Decode(&insert)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid JSON format"))
			return
		}

		if err := insert.Validate(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		now := time.Now().UTC()
		event := models.Event{
			Title:        insert.Title,
			Description:  insert.Description,
			BannerURL:    insert.BannerURL,
			StartDate:    insert.StartDate,
			EndDate:      insert.EndDate,
			LocationName: insert.LocationName,
			FloorLevel:   insert.FloorLevel,
			Tags:         insert.Tags,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := db.Collection("events").InsertOne(r.Context(), event)
		if err != nil {
			log.Println("Error inserting event:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			event.ID = oid
		}

		utils.WriteJSON(w, http.StatusCreated, successResponse{Success: true, Data: event})
	}
}

func UpdateEvent(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		var insert models.EventInsert
		err = json.NewDecoder(r.Body).Decode(&insert)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid JSON format"))
			return
		}

		if err := insert.Validate(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		update := bson.M{"$set": bson.M{
			"title":        insert.Title,
			"description":  insert.Description,
			"bannerUrl":    insert.BannerURL,
			"startDate":    insert.StartDate,
			"endDate":      insert.EndDate,
			"locationName": insert.LocationName,
			"floorLevel":   insert.FloorLevel,
			"tags":         insert.Tags,
			"updatedAt":    time.Now().UTC(),
		}}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var event models.Event
		err = db.Collection("events").FindOneAndUpdate(r.Context(), bson.M{"_id": id}, update, opts).Decode(&event)
		if err == mongo.ErrNoDocuments {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("event not found with id of %s", id.Hex()))
			return
		} else if err != nil {
			log.Println("Error updating event:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: event})
	}
}

func DeleteEvent(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		result, err := db.Collection("events").DeleteOne(r.Context(), bson.M{"_id": id})
		if err != nil {
			log.Println("Error deleting event:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if result.DeletedCount == 0 {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("event not found with id of %s", id.Hex()))
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: map[string]interface{}{}})
	}
}

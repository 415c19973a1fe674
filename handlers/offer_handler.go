package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/utils"
)

type paginatedResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Pagination pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetActiveOffers lists active, unexpired offers joined with their store's
// display attributes, newest first, paginated with ?page= and ?limit=.
func GetActiveOffers(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit < 1 {
			limit = 10
		}
		skip := (page - 1) * limit

		activeFilter := bson.M{
			"isActive":   true,
			"validUntil": bson.M{"$gt": time.Now().UTC()},
		}

		pipeline := []bson.M{
			{"$match": activeFilter},
			{"$sort": bson.M{"createdAt": -1}},
			{"$skip": skip},
			{"$limit": limit},
			{"$lookup": bson.M{
				"from":         "stores",
				"localField":   "storeId",
				"foreignField": "_id",
				"as":           "store",
			}},
			{"$unwind": "$store"},
			{"$project": bson.M{
				"title":       1,
				"description": 1,
				"code":        1,
				"validUntil":  1,
				"store": bson.M{
					"_id":          "$store._id",
					"name":         "$store.name",
					"category":     "$store.category",
					"heroImageUrl": "$store.heroImageUrl",
				},
			}},
		}

		cursor, err := db.Collection("offers").Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Println("Error querying offers:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		offers := []models.OfferWithStore{}
		if err := cursor.All(r.Context(), &offers); err != nil {
			log.Println("Error decoding offers:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		total, err := db.Collection("offers").CountDocuments(r.Context(), activeFilter)
		if err != nil {
			log.Println("Error counting offers:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, paginatedResponse{
			Success:    true,
			Count:      len(offers),
			Pagination: pagination{Page: page, Limit: limit, Total: total},
			Data:       offers,
		})
	}
}

// CreateOffer lets an admin attach a new offer to a store. The offer starts
// active and valid immediately.
func CreateOffer(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var insert models.OfferInsert
		err := json.NewDecoder(r.Body).Decode(&insert)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid JSON format"))
			return
		}

		if err := insert.Validate(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		storeID, err := primitive.ObjectIDFromHex(insert.StoreID)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("storeId must be a valid object id"))
			return
		}

		// The reference has to resolve; an offer for a missing store would
		// never survive the listing join anyway.
		count, err := db.Collection("stores").CountDocuments(r.Context(), bson.M{"_id": storeID})
		if err != nil {
			log.Println("Error checking store:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if count == 0 {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("store not found"))
			return
		}

		now := time.Now().UTC()
		offer := models.Offer{
			StoreID:     storeID,
			Title:       insert.Title,
			Description: insert.Description,
			Code:        insert.Code,
			ValidFrom:   now,
			ValidUntil:  insert.ValidUntil,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := db.Collection("offers").InsertOne(r.Context(), offer)
		if err != nil {
			log.Println("Error inserting offer:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			offer.ID = oid
		}

		utils.WriteJSON(w, http.StatusCreated, successResponse{Success: true, Data: offer})
	}
}

// DeleteOffer retires an offer. It is a soft delete: the document stays for
// redemption history, it just stops being listed.
func DeleteOffer(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		result, err := db.Collection("offers").UpdateOne(r.Context(),
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}},
		)
		if err != nil {
			log.Println("Error deactivating offer:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if result.MatchedCount == 0 {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("offer not found"))
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: nil})
	}
}

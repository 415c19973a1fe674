package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/utils"
)

type listResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

// GetStores lists the directory, optionally filtered by category and floor.
func GetStores(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := bson.M{}
		if category := r.URL.Query().Get("category"); category != "" {
			filter["category"] = category
		}
		if floor := r.URL.Query().Get("floor"); floor != "" {
			floorLevel, err := strconv.Atoi(floor)
			if err != nil {
				utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("floor must be a number"))
				return
			}
			filter["location.floorLevel"] = floorLevel
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("stores").Find(r.Context(), filter, opts)
		if err != nil {
			log.Println("Error querying stores:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		stores := []models.Store{}
		if err := cursor.All(r.Context(), &stores); err != nil {
			log.Println("Error decoding stores:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, listResponse{Success: true, Count: len(stores), Data: stores})
	}
}

func GetStore(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		var store models.Store
		err = db.Collection("stores").FindOne(r.Context(), bson.M{"_id": id}).Decode(&store)
		if err == mongo.ErrNoDocuments {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("store not found with id of %s", id.Hex()))
			return
		} else if err != nil {
			log.Println("Error retrieving store:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: store})
	}
}

// GetAdminStores is the management listing, newest first.
func GetAdminStores(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("stores").Find(r.Context(), bson.M{}, opts)
		if err != nil {
			log.Println("Error querying stores:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		defer cursor.Close(r.Context())

		stores := []models.Store{}
		if err := cursor.All(r.Context(), &stores); err != nil {
			log.Println("Error decoding stores:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, listResponse{Success: true, Count: len(stores), Data: stores})
	}
}

func CreateStore(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var insert models.StoreInsert
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
		store := models.Store{
			Name:           insert.Name,
			Slug:           insert.Slug,
			Category:       insert.Category,
			Description:    insert.Description,
			LogoURL:        insert.LogoURL,
			HeroImageURL:   insert.HeroImageURL,
			Location:       insert.Location,
			IsOpen:         true,
			OperatingHours: insert.OperatingHours,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if insert.IsOpen != nil {
			store.IsOpen = *insert.IsOpen
		}
		if store.Slug == "" {
			store.Slug = Slugify(store.Name)
		}

		result, err := db.Collection("stores").InsertOne(r.Context(), store)
		if err != nil {
			log.Println("Error inserting store:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			store.ID = oid
		}

		utils.WriteJSON(w, http.StatusCreated, successResponse{Success: true, Data: store})
	}
}

func UpdateStore(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		var insert models.StoreInsert
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
			"name":           insert.Name,
			"category":       insert.Category,
			"description":    insert.Description,
			"logoUrl":        insert.LogoURL,
			"heroImageUrl":   insert.HeroImageURL,
			"location":       insert.Location,
			"operatingHours": insert.OperatingHours,
			"updatedAt":      time.Now().UTC(),
		}}
		if insert.IsOpen != nil {
			update["$set"].(bson.M)["isOpen"] = *insert.IsOpen
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var store models.Store
		err = db.Collection("stores").FindOneAndUpdate(r.Context(), bson.M{"_id": id}, update, opts).Decode(&store)
		if err == mongo.ErrNoDocuments {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("store not found with id of %s", id.Hex()))
			return
		} else if err != nil {
			log.Println("Error updating store:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: store})
	}
}

func DeleteStore(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ExtractObjectIDFromURL(r)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		result, err := db.Collection("stores").DeleteOne(r.Context(), bson.M{"_id": id})
		if err != nil {
			log.Println("Error deleting store:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if result.DeletedCount == 0 {
			utils.WriteErrorResponse(w, http.StatusNotFound, fmt.Errorf("store not found with id of %s", id.Hex()))
			return
		}

		utils.WriteJSON(w, http.StatusOK, successResponse{Success: true, Data: map[string]interface{}{}})
	}
}

// Slugify turns a display name into the URL slug used by the public site.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, "'", "-")
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

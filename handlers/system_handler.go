package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/utils"
)

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

func Health(start time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteJSON(w, http.StatusOK, healthResponse{
			Status:    "success",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Uptime:    time.Since(start).Seconds(),
		})
	}
}

type seedStore struct {
	name       string
	category   string
	floorLevel int
	unitNumber string
	heroImage  string
}

var seedStores = []seedStore{
	{"Nike", "Fashion", 1, "101", "https://images.unsplash.com/photo-1542291026-7eec264c27ff"},
	{"Zara", "Fashion", 1, "102", "https://images.unsplash.com/photo-1441986300917-64674bd600d8"},
	{"Uniqlo", "Fashion", 2, "201", "https://images.unsplash.com/photo-1523381210434-271e8be1f52b"},
	{"Adidas", "Fashion", 2, "202", "https://images.unsplash.com/photo-1518002171953-a080ee322818"},
	{"Gucci", "Fashion", 3, "301", "https://images.unsplash.com/photo-1445205170230-053b83016050"},
	{"Apple Store", "Electronics", 1, "105", "https://images.unsplash.com/photo-1595675024853-0f3ec9098ac7"},
	{"Samsung", "Electronics", 1, "106", "https://images.unsplash.com/photo-1610945265078-385842813359"},
	{"Starbucks Reserve", "Dining", 1, "108", "https://images.unsplash.com/photo-1509042239860-f550ce710b93"},
	{"Chipotle", "Dining", 4, "402", "https://images.unsplash.com/photo-1596564239824-c8c3e6644265"},
	{"Sephora", "Beauty", 2, "210", "https://images.unsplash.com/photo-1522335789203-abd6538d8ad3"},
	{"Barnes & Noble", "Books", 3, "310", "https://images.unsplash.com/photo-1521587760476-6c12a4b040da"},
}

type seedEvent struct {
	title        string
	description  string
	startOffset  int // days from now
	endOffset    int
	locationName string
	bannerURL    string
}

var seedEvents = []seedEvent{
	{"Summer Music Festival", "Live bands playing all weekend.", 2, 5, "Central Atrium", "https://images.unsplash.com/photo-1459749411177-287ce3276916"},
	{"Tech Expo", "Experience the latest gadgets.", 10, 12, "Exhibition Hall", "https://images.unsplash.com/photo-1515187029135-18ee286d815b"},
	{"Midnight Sale", "Up to 70% off on all brands.", -1, 1, "Mall Wide", "https://images.unsplash.com/photo-1483985988355-763728e1935b"},
	{"Food Carnival", "Taste dishes from around the world.", 15, 20, "Food Court", "https://images.unsplash.com/photo-1555939594-58d7cb561ad1"},
}

// SeedDatabase loads demo users, stores, events and offers. Guarded by the
// SEED_KEY env secret and a no-op when any user already exists.
func SeedDatabase(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seedKey := os.Getenv("SEED_KEY")
		if seedKey == "" || r.URL.Query().Get("key") != seedKey {
			utils.WriteErrorResponse(w, http.StatusForbidden, fmt.Errorf("forbidden"))
			return
		}

		userCount, err := db.Collection("users").CountDocuments(r.Context(), bson.M{})
		if err != nil {
			log.Println("Error counting users:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if userCount > 0 {
			utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Database already seeded. Operation skipped.",
			})
			return
		}

		now := time.Now().UTC()

		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Println("Error hashing seed password:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		tenant := models.User{
			ID:        primitive.NewObjectID(),
			Email:     "manager@nike.com",
			Password:  string(hashed),
			Role:      models.RoleTenantManager,
			Profile:   models.UserProfile{FirstName: "Nike", LastName: "Manager"},
			CreatedAt: now,
			UpdatedAt: now,
		}
		admin := models.User{
			ID:        primitive.NewObjectID(),
			Email:     "admin@digitalmall.com",
			Password:  string(hashed),
			Role:      models.RoleAdmin,
			Profile:   models.UserProfile{FirstName: "System", LastName: "Admin"},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := db.Collection("users").InsertMany(r.Context(), []interface{}{admin, tenant}); err != nil {
			log.Println("Error seeding users:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		storeDocs := make([]interface{}, 0, len(seedStores))
		storeIDs := make([]primitive.ObjectID, 0, len(seedStores))
		for _, s := range seedStores {
			id := primitive.NewObjectID()
			storeIDs = append(storeIDs, id)
			storeDocs = append(storeDocs, models.Store{
				ID:           id,
				TenantID:     tenant.ID,
				Name:         s.name,
				Slug:         Slugify(s.name),
				Category:     s.category,
				Description:  fmt.Sprintf("Welcome to %s. We offer the best in %s.", s.name, s.category),
				HeroImageURL: s.heroImage,
				Location: models.StoreLocation{
					FloorLevel: s.floorLevel,
					UnitNumber: s.unitNumber,
				},
				IsOpen:    true,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if _, err := db.Collection("stores").InsertMany(r.Context(), storeDocs); err != nil {
			log.Println("Error seeding stores:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		eventDocs := make([]interface{}, 0, len(seedEvents))
		for _, e := range seedEvents {
			eventDocs = append(eventDocs, models.Event{
				ID:           primitive.NewObjectID(),
				Title:        e.title,
				Description:  e.description,
				BannerURL:    e.bannerURL,
				StartDate:    now.AddDate(0, 0, e.startOffset),
				EndDate:      now.AddDate(0, 0, e.endOffset),
				LocationName: e.locationName,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		if _, err := db.Collection("events").InsertMany(r.Context(), eventDocs); err != nil {
			log.Println("Error seeding events:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		offerDocs := []interface{}{
			models.Offer{
				ID:         primitive.NewObjectID(),
				StoreID:    storeIDs[0],
				Title:      "20% off running shoes",
				Code:       "NIKE20",
				ValidFrom:  now,
				ValidUntil: now.AddDate(0, 0, 14),
				IsActive:   true,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
			models.Offer{
				ID:         primitive.NewObjectID(),
				StoreID:    storeIDs[7],
				Title:      "Buy one get one free on cold brew",
				Code:       "BOGOBREW",
				ValidFrom:  now,
				ValidUntil: now.AddDate(0, 0, 7),
				IsActive:   true,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		}
		if _, err := db.Collection("offers").InsertMany(r.Context(), offerDocs); err != nil {
			log.Println("Error seeding offers:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Database seeded.",
			"counts": map[string]int{
				"users":  2,
				"stores": len(storeDocs),
				"events": len(eventDocs),
				"offers": len(offerDocs),
			},
		})
	}
}

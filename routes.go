package main

import (
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mvavassori/digital-mall/handlers"
	"github.com/mvavassori/digital-mall/middleware"
	"github.com/mvavassori/digital-mall/storage"
)

func SetupRouter(db *mongo.Database, analytics storage.AnalyticsStore, parking *handlers.ParkingSimulator) *mux.Router {

	router := mux.NewRouter()
	start := time.Now()

	api := router.PathPrefix("/api/v1").Subrouter()

	// analytics ingestion (public write; identity attached when present)
	api.Handle("/analytics/event", middleware.OptionalAuthMiddleware(handlers.RecordEvent(analytics))).Methods("POST")

	// admin analytics dashboard
	api.Handle("/admin/analytics/top-stores", middleware.AdminMiddleware(handlers.GetTopStores(analytics))).Methods("GET")
	api.Handle("/admin/analytics/top-searches", middleware.AdminMiddleware(handlers.GetTopSearches(analytics))).Methods("GET")
	api.Handle("/admin/analytics/activity", middleware.AdminMiddleware(handlers.GetActivityOverTime(analytics))).Methods("GET")

	// public directory
	api.HandleFunc("/stores", handlers.GetStores(db)).Methods("GET")
	api.HandleFunc("/stores/{id}", handlers.GetStore(db)).Methods("GET")
	api.HandleFunc("/events", handlers.GetEvents(db)).Methods("GET")
	api.HandleFunc("/events/{id}", handlers.GetEvent(db)).Methods("GET")
	api.HandleFunc("/offers", handlers.GetActiveOffers(db)).Methods("GET")
	api.HandleFunc("/parking", handlers.GetParkingStatus(parking)).Methods("GET")

	// auth
	api.HandleFunc("/auth/login", handlers.Login(db)).Methods("POST")
	api.HandleFunc("/auth/register-secret", handlers.RegisterAdmin(db)).Methods("POST")

	// admin management
	api.Handle("/admin/stores", middleware.AdminMiddleware(handlers.GetAdminStores(db))).Methods("GET")
	api.Handle("/admin/stores", middleware.AdminMiddleware(handlers.CreateStore(db))).Methods("POST")
	api.Handle("/admin/stores/{id}", middleware.AdminMiddleware(handlers.UpdateStore(db))).Methods("PUT")
	api.Handle("/admin/stores/{id}", middleware.AdminMiddleware(handlers.DeleteStore(db))).Methods("DELETE")
	api.Handle("/admin/events", middleware.AdminMiddleware(handlers.CreateEvent(db))).Methods("POST")
	api.Handle("/admin/events/{id}", middleware.AdminMiddleware(handlers.UpdateEvent(db))).Methods("PUT")
	api.Handle("/admin/events/{id}", middleware.AdminMiddleware(handlers.DeleteEvent(db))).Methods("DELETE")
	api.Handle("/admin/offers", middleware.AdminMiddleware(handlers.CreateOffer(db))).Methods("POST")
	api.Handle("/admin/offers/{id}", middleware.AdminMiddleware(handlers.DeleteOffer(db))).Methods("DELETE")

	// system
	api.HandleFunc("/system/seed", handlers.SeedDatabase(db)).Methods("POST")
	router.HandleFunc("/health", handlers.Health(start)).Methods("GET")

	return router
}

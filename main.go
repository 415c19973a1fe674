package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"github.com/mvavassori/digital-mall/db"
	mallhandlers "github.com/mvavassori/digital-mall/handlers"
	"github.com/mvavassori/digital-mall/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	// db initialization
	database, err := db.CreateMongoConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Client().Disconnect(context.Background())

	analytics := storage.NewMongoAnalyticsStore(database)
	parking := mallhandlers.NewParkingSimulator()

	// router
	router := SetupRouter(database, analytics, parking)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	address := fmt.Sprintf(":%s", port)

	log.Printf("Server is listening on port %s...\n", port)

	err = http.ListenAndServe(address, handlers.CORS( // cors config
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(router))
	if err != nil {
		log.Fatalf("Failed to start server: %v\n", err)
	}
}

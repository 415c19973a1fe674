package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvavassori/digital-mall/models"
	"github.com/mvavassori/digital-mall/services"
	"github.com/mvavassori/digital-mall/utils"
)

type tokenResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Data    interface{} `json:"data"`
}

// Login authenticates dashboard users. Shoppers have no dashboard and are
// refused outright.
func Login(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var login models.UserLogin
		err := json.NewDecoder(r.Body).Decode(&login)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid JSON format"))
			return
		}

		if err := login.Validate(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		user, err := services.GetUserByEmail(r.Context(), db, login.Email)
		if err == mongo.ErrNoDocuments {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, fmt.Errorf("incorrect email or password"))
			return
		} else if err != nil {
			log.Println("Error retrieving user:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(login.Password)) != nil {
			utils.WriteErrorResponse(w, http.StatusUnauthorized, fmt.Errorf("incorrect email or password"))
			return
		}

		if user.Role == models.RoleShopper {
			utils.WriteErrorResponse(w, http.StatusForbidden, fmt.Errorf("shoppers must use the mobile app"))
			return
		}

		if err := services.TouchLastActive(r.Context(), db, user.ID); err != nil {
			log.Println("Error updating last active time:", err)
		}

		token, err := utils.CreateAccessToken(user.ID.Hex(), user.Role, user.Email)
		if err != nil {
			log.Println("Error creating access token:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		user.Password = ""

		utils.WriteJSON(w, http.StatusOK, tokenResponse{
			Success: true,
			Token:   token,
			Data:    map[string]interface{}{"user": user},
		})
	}
}

// RegisterAdmin creates the initial admin account. It backs the deploy
// bootstrap and should be disabled or IP-restricted in production.
func RegisterAdmin(db *mongo.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var insert models.UserInsert
		err := json.NewDecoder(r.Body).Decode(&insert)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid JSON format"))
			return
		}

		if err := insert.Validate(); err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(insert.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("Error hashing password:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		now := time.Now().UTC()
		user := models.User{
			Email:    insert.Email,
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
			Profile: models.UserProfile{
				FirstName: insert.FirstName,
				LastName:  insert.LastName,
			},
			LastActiveAt: now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := db.Collection("users").InsertOne(r.Context(), user)
		if err != nil {
			log.Println("Error inserting user:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
			user.ID = oid
		}

		token, err := utils.CreateAccessToken(user.ID.Hex(), user.Role, user.Email)
		if err != nil {
			log.Println("Error creating access token:", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		user.Password = ""

		utils.WriteJSON(w, http.StatusCreated, tokenResponse{
			Success: true,
			Token:   token,
			Data:    map[string]interface{}{"user": user},
		})
	}
}

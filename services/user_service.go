package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mvavassori/digital-mall/models"
)

func GetUserByEmail(ctx context.Context, db *mongo.Database, email string) (models.User, error) {
	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return user, err
	}
	return user, nil
}

func GetUserById(ctx context.Context, db *mongo.Database, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return user, err
	}
	return user, nil
}

// TouchLastActive stamps the user's lastActiveAt. Called on successful login;
// a failure here is not worth failing the login over, so the caller logs it.
func TouchLastActive(ctx context.Context, db *mongo.Database, id primitive.ObjectID) error {
	_, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastActiveAt": time.Now().UTC()}},
	)
	return err
}

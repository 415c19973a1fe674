package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	BannerURL    string             `json:"bannerUrl,omitempty" bson:"bannerUrl,omitempty"`
	StartDate    time.Time          `json:"startDate" bson:"startDate"`
	EndDate      time.Time          `json:"endDate" bson:"endDate"`
	LocationName string             `json:"locationName" bson:"locationName"`
	FloorLevel   int                `json:"floorLevel,omitempty" bson:"floorLevel,omitempty"`
	Tags         []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type EventInsert struct {
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	BannerURL    string    `json:"bannerUrl,omitempty" bson:"bannerUrl,omitempty"`
	StartDate    time.Time `json:"startDate" bson:"startDate"`
	EndDate      time.Time `json:"endDate" bson:"endDate"`
	LocationName string    `json:"locationName" bson:"locationName"`
	FloorLevel   int       `json:"floorLevel,omitempty" bson:"floorLevel,omitempty"`
	Tags         []string  `json:"tags,omitempty" bson:"tags,omitempty"`
}

func (e *EventInsert) Validate() error {
	if e.Title == "" {
		return errors.New("event title is required")
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		return errors.New("startDate and endDate are required")
	}
	if e.EndDate.Before(e.StartDate) {
		return errors.New("endDate must not be before startDate")
	}
	if e.LocationName == "" {
		return errors.New("locationName is required")
	}
	return nil
}

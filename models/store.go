package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StoreLocation struct {
	Coordinates []float64 `json:"coordinates,omitempty" bson:"coordinates,omitempty"` // [lng, lat]
	FloorLevel  int       `json:"floorLevel" bson:"floorLevel"`
	UnitNumber  string    `json:"unitNumber,omitempty" bson:"unitNumber,omitempty"`
}

type OpeningHours struct {
	Open     string `json:"open,omitempty" bson:"open,omitempty"`
	Close    string `json:"close,omitempty" bson:"close,omitempty"`
	IsClosed bool   `json:"isClosed,omitempty" bson:"isClosed,omitempty"`
}

type Store struct {
	ID               primitive.ObjectID      `json:"id" bson:"_id,omitempty"`
	TenantID         primitive.ObjectID      `json:"tenantId,omitempty" bson:"tenantId,omitempty"`
	Name             string                  `json:"name" bson:"name"`
	Slug             string                  `json:"slug" bson:"slug"`
	Category         string                  `json:"category" bson:"category"`
	Description      string                  `json:"description,omitempty" bson:"description,omitempty"`
	LogoURL          string                  `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	HeroImageURL     string                  `json:"heroImageUrl,omitempty" bson:"heroImageUrl,omitempty"`
	Location         StoreLocation           `json:"location" bson:"location"`
	IsOpen           bool                    `json:"isOpen" bson:"isOpen"`
	OperatingHours   map[string]OpeningHours `json:"operatingHours,omitempty" bson:"operatingHours,omitempty"`
	AverageRating    float64                 `json:"averageRating" bson:"averageRating"`
	ActiveOfferCount int                     `json:"activeOfferCount" bson:"activeOfferCount"`
	CreatedAt        time.Time               `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt" bson:"updatedAt"`
}

// StoreInsert is the shape accepted by the admin create/update endpoints.
type StoreInsert struct {
	Name           string                  `json:"name" bson:"name"`
	Slug           string                  `json:"slug,omitempty" bson:"slug,omitempty"`
	Category       string                  `json:"category" bson:"category"`
	Description    string                  `json:"description,omitempty" bson:"description,omitempty"`
	LogoURL        string                  `json:"logoUrl,omitempty" bson:"logoUrl,omitempty"`
	HeroImageURL   string                  `json:"heroImageUrl,omitempty" bson:"heroImageUrl,omitempty"`
	Location       StoreLocation           `json:"location" bson:"location"`
	IsOpen         *bool                   `json:"isOpen,omitempty" bson:"isOpen,omitempty"`
	OperatingHours map[string]OpeningHours `json:"operatingHours,omitempty" bson:"operatingHours,omitempty"`
}

func (s *StoreInsert) Validate() error {
	if s.Name == "" {
		return errors.New("store name is required")
	}
	if len(s.Name) > 100 {
		return errors.New("name cannot be more than 100 characters")
	}
	if s.Category == "" {
		return errors.New("category is required")
	}
	if len(s.Description) > 1000 {
		return errors.New("description cannot be more than 1000 characters")
	}
	return nil
}

package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Offer struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	StoreID         primitive.ObjectID `json:"storeId" bson:"storeId"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	Code            string             `json:"code" bson:"code"`
	QRCodeURL       string             `json:"qrCodeUrl,omitempty" bson:"qrCodeUrl,omitempty"`
	ValidFrom       time.Time          `json:"validFrom" bson:"validFrom"`
	ValidUntil      time.Time          `json:"validUntil" bson:"validUntil"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	RedemptionLimit int                `json:"redemptionLimit,omitempty" bson:"redemptionLimit,omitempty"`
	RedemptionCount int                `json:"redemptionCount" bson:"redemptionCount"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OfferWithStore is the public listing shape: the offer plus the display
// attributes of the store it belongs to.
type OfferWithStore struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Code        string             `json:"code" bson:"code"`
	ValidUntil  time.Time          `json:"validUntil" bson:"validUntil"`
	Store       struct {
		ID           primitive.ObjectID `json:"id" bson:"_id"`
		Name         string             `json:"name" bson:"name"`
		Category     string             `json:"category" bson:"category"`
		HeroImageURL string             `json:"heroImageUrl,omitempty" bson:"heroImageUrl,omitempty"`
	} `json:"store" bson:"store"`
}

type OfferInsert struct {
	StoreID     string    `json:"storeId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Code        string    `json:"code"`
	ValidUntil  time.Time `json:"validUntil"`
}

func (o *OfferInsert) Validate() error {
	if o.StoreID == "" {
		return errors.New("storeId is required")
	}
	if o.Title == "" {
		return errors.New("offer title is required")
	}
	if o.Code == "" {
		return errors.New("code is required")
	}
	if o.ValidUntil.IsZero() {
		return errors.New("validUntil is required")
	}
	// Codes are stored uppercase, the way they are printed in-mall.
	o.Code = strings.ToUpper(o.Code)
	return nil
}

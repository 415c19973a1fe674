package models

import (
	"errors"
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleShopper       = "shopper"
	RoleTenantManager = "tenant_manager"
	RoleAdmin         = "admin"
)

type UserProfile struct {
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	// Tenant managers are tied to the store they run.
	ManagedStoreID *primitive.ObjectID `json:"managedStoreId,omitempty" bson:"managedStoreId,omitempty"`
}

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password,omitempty"`
	Role         string             `json:"role" bson:"role"`
	Profile      UserProfile        `json:"profile,omitempty" bson:"profile,omitempty"`
	LastActiveAt time.Time          `json:"lastActiveAt,omitempty" bson:"lastActiveAt,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (u *UserLogin) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("invalid email format")
	}
	if u.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type UserInsert struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (u *UserInsert) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("invalid email format")
	}
	if u.Password == "" {
		return errors.New("password is required")
	}
	if len(u.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id"`
	Username     string               `json:"username" bson:"username"`
	Name         string               `json:"name" bson:"name"`
	Email        string               `json:"email" bson:"email"`
	Password     string               `json:"password" bson:"password"`
	About        string               `json:"about" bson:"about"`
	Date         time.Time            `json:"date" bson:"date"`
	Following    []primitive.ObjectID `json:"following" bson:"following"`
	ProfileImage string               `json:"profile_image" bson:"profile_image"`
}

// PublicUser is the shape every other user sees: no email, no password.
type PublicUser struct {
	ID           primitive.ObjectID   `json:"_id"`
	Username     string               `json:"username"`
	Name         string               `json:"name"`
	About        string               `json:"about"`
	Date         time.Time            `json:"date"`
	Following    []primitive.ObjectID `json:"following"`
	ProfileImage string               `json:"profile_image"`
}

// OwnUser is what the account owner sees about themself. Email stays,
// the password hash never leaves the database.
type OwnUser struct {
	ID           primitive.ObjectID   `json:"_id"`
	Username     string               `json:"username"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	About        string               `json:"about"`
	Date         time.Time            `json:"date"`
	Following    []primitive.ObjectID `json:"following"`
	ProfileImage string               `json:"profile_image"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		About:        u.About,
		Date:         u.Date,
		Following:    u.Following,
		ProfileImage: u.ProfileImage,
	}
}

func (u User) Own() OwnUser {
	return OwnUser{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		About:        u.About,
		Date:         u.Date,
		Following:    u.Following,
		ProfileImage: u.ProfileImage,
	}
}

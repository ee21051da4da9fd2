package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinUsernameLength is the shortest username createUser accepts.
const MinUsernameLength = 3

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username      string             `bson:"username" json:"username"`
	FavoriteGenre string             `bson:"favoriteGenre" json:"favoriteGenre"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

func (u *User) Validate() error {
	if len(strings.TrimSpace(u.Username)) < MinUsernameLength {
		return &ValidationError{Field: "username", Reason: "must be at least 3 characters"}
	}
	if strings.TrimSpace(u.FavoriteGenre) == "" {
		return &ValidationError{Field: "favoriteGenre", Reason: "is required"}
	}
	return nil
}

package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Author is keyed by name. Book counts are derived from the books collection
// and never stored on the document.
type Author struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Born      *int               `bson:"born,omitempty" json:"born,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func ValidateAuthorName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "author", Reason: "is required"}
	}
	return nil
}

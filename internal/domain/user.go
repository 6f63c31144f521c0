package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the system. Profile fields live on the same
// document and may be absent until the user first saves their profile.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Profile ---
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	DateOfBirth string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"` // Free text, intentionally unvalidated
	Nationality string `bson:"nationality,omitempty" json:"nationality,omitempty"`
	PhotoURL    string `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	// PhotoObjectKey is the storage key behind PhotoURL, kept so the old
	// object can be removed when the photo is replaced.
	PhotoObjectKey string `bson:"photoObjectKey,omitempty" json:"-"`

	// --- Password reset ---
	ResetToken        string    `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpires time.Time `bson:"resetTokenExpires,omitempty" json:"-"`
}

// Identity is the authenticated user's stable reference handed out by the
// session provider.
type Identity struct {
	ID    primitive.ObjectID `json:"id"`
	Email string             `json:"email"`
}

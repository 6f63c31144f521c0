package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListExercise is a snapshot of a catalog exercise embedded in a list.
// The copy is taken by value at add-time; later edits to the catalog entry
// never propagate here. EmbedID is generated when the snapshot is created and
// is the stable key used to remove the entry from the list.
type ListExercise struct {
	EmbedID      string             `bson:"embedId" json:"embedId"`
	CatalogID    primitive.ObjectID `bson:"catalogId" json:"catalogId"`
	Name         string             `bson:"name" json:"name"`
	Difficulty   Difficulty         `bson:"difficulty" json:"difficulty"`
	Muscle       string             `bson:"muscle" json:"muscle"`
	Type         string             `bson:"type" json:"type"`
	Instructions string             `bson:"instructions" json:"instructions"`
	Email        string             `bson:"email" json:"email"`
	Verified     bool               `bson:"verified" json:"verified"`
	AddedAt      time.Time          `bson:"addedAt" json:"addedAt"`
}

// ExerciseList is a user-owned named grouping of exercise snapshots,
// distinct from the shared catalog.
type ExerciseList struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	OwnerEmail string             `bson:"ownerEmail" json:"ownerEmail"`
	Exercises  []ListExercise     `bson:"exercises" json:"exercises"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Snapshot copies a catalog exercise into an embedded list entry, assigning
// the embed identifier.
func Snapshot(e *Exercise, embedID string, now time.Time) ListExercise {
	return ListExercise{
		EmbedID:      embedID,
		CatalogID:    e.ID,
		Name:         e.Name,
		Difficulty:   e.Difficulty,
		Muscle:       e.Muscle,
		Type:         e.Type,
		Instructions: e.Instructions,
		Email:        e.Email,
		Verified:     e.Verified,
		AddedAt:      now,
	}
}

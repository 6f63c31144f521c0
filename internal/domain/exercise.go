package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty level of a catalog exercise.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyDifficult    Difficulty = "difficult"
)

// ValidDifficulty reports whether d is one of the recognized levels.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyDifficult:
		return true
	}
	return false
}

// Exercise is a single entry in the shared catalog. Exercises are immutable
// once created: there is no update or delete flow for the catalog.
type Exercise struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"` // Unique at creation time (pre-insert check)
	Difficulty   Difficulty         `bson:"difficulty" json:"difficulty"`
	Muscle       string             `bson:"muscle" json:"muscle"`
	Type         string             `bson:"type" json:"type"`
	Instructions string             `bson:"instructions" json:"instructions"`
	Email        string             `bson:"email" json:"email"` // Submitter
	Verified     bool               `bson:"verified" json:"verified"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

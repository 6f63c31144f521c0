package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoProfileRepository implements repository.ProfileRepository. Profile
// fields live on the users collection, keyed by the user's ObjectID.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a profile repository over the users collection.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Fetch reads the profile fields from the user document. Fields the user has
// never saved decode to their zero values; a missing user is ErrNotFound.
func (r *mongoProfileRepository) Fetch(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	var profile domain.Profile
	filter := bson.M{"_id": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save writes only the provided fields onto the user document, preserving
// everything else (merge-semantics upsert).
func (r *mongoProfileRepository) Save(ctx context.Context, userID primitive.ObjectID, update repository.ProfileUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.DateOfBirth != nil {
		set["dateOfBirth"] = *update.DateOfBirth
	}
	if update.Nationality != nil {
		set["nationality"] = *update.Nationality
	}
	if update.PhotoURL != nil {
		set["photoUrl"] = *update.PhotoURL
	}
	if update.PhotoObjectKey != nil {
		set["photoObjectKey"] = *update.PhotoObjectKey
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

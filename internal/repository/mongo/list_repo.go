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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCollectionName = "exerciseLists"

// mongoListRepository implements repository.ListRepository
type mongoListRepository struct {
	collection *mongo.Collection
}

// NewMongoListRepository creates a new exercise list repository backed by MongoDB.
func NewMongoListRepository(db *mongo.Database) repository.ListRepository {
	return &mongoListRepository{
		collection: db.Collection(listCollectionName),
	}
}

// Create inserts a new list with an empty embedded collection.
func (r *mongoListRepository) Create(ctx context.Context, list *domain.ExerciseList) (primitive.ObjectID, error) {
	if list.Name == "" || list.OwnerEmail == "" {
		return primitive.NilObjectID, errors.New("list name and owner email are required")
	}

	list.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	list.CreatedAt = now
	list.UpdatedAt = now
	if list.Exercises == nil {
		list.Exercises = []domain.ListExercise{}
	}

	result, err := r.collection.InsertOne(ctx, list)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a list by its ID, embedded exercises included.
func (r *mongoListRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseList, error) {
	var list domain.ExerciseList
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&list)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// ListForOwner retrieves all lists owned by the given email.
func (r *mongoListRepository) ListForOwner(ctx context.Context, ownerEmail string) ([]domain.ExerciseList, error) {
	filter := bson.M{"ownerEmail": ownerEmail}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lists []domain.ExerciseList
	if err = cursor.All(ctx, &lists); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return lists, nil
}

// Rename updates the list name only; embedded exercises are untouched.
func (r *mongoListRepository) Rename(ctx context.Context, id primitive.ObjectID, newName string) error {
	if newName == "" {
		return errors.New("list name cannot be empty")
	}

	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"name":      newName,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a list document entirely.
func (r *mongoListRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AppendExercise pushes a snapshot onto the embedded collection. Membership
// checks happen in the service layer before this call; the two steps are not
// atomic.
func (r *mongoListRepository) AppendExercise(ctx context.Context, id primitive.ObjectID, snapshot domain.ListExercise) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$push": bson.M{"exercises": snapshot},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PullExercise removes the embedded entry with the given embed ID.
func (r *mongoListRepository) PullExercise(ctx context.Context, id primitive.ObjectID, embedID string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$pull": bson.M{"exercises": bson.M{"embedId": embedID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount stays 0 when no embedded entry carried the embed ID.
	// The $set bumps updatedAt regardless, so check the pull via the
	// service-level fetch when the distinction matters.
	return nil
}

// DeleteAllForOwner removes every list owned by the email and reports how
// many were deleted. Used by the account deletion cascade.
func (r *mongoListRepository) DeleteAllForOwner(ctx context.Context, ownerEmail string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"ownerEmail": ownerEmail})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureListIndexes creates necessary indexes for the exerciseLists collection.
func EnsureListIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerEmail", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for %s: %v", collection.Name(), err)
	}
}

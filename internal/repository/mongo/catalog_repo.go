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

const exerciseCollectionName = "exercises"

// prefixRangeHigh closes a prefix range the way the range query over ordered
// string keys does: everything from term up to term plus the highest assigned
// code point sorts inside the prefix.
const prefixRangeHigh = "\uf8ff"

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoCatalogRepository creates a new catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the catalog.
func (r *mongoCatalogRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an exercise by its ID.
func (r *mongoCatalogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Search retrieves all catalog exercises matching the filter. An empty filter
// returns the whole catalog. No pagination; the result order is the backend
// default and callers must treat it as unordered.
func (r *mongoCatalogRepository) Search(ctx context.Context, filter repository.SearchFilter) ([]domain.Exercise, error) {
	cursor, err := r.collection.Find(ctx, BuildSearchQuery(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// CountByName counts entries whose name matches exactly. This backs the
// pre-insert existence check; it is a separate read and not atomic with
// Create.
func (r *mongoCatalogRepository) CountByName(ctx context.Context, name string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"name": name})
}

// BuildSearchQuery translates a SearchFilter into a BSON filter document.
// Unset options contribute nothing; set options combine with logical AND.
// The term matches as a prefix via a closed range on the selected field.
func BuildSearchQuery(filter repository.SearchFilter) bson.M {
	query := bson.M{}

	if filter.Term != "" && repository.ValidSearchField(filter.Field) {
		query[string(filter.Field)] = bson.M{
			"$gte": filter.Term,
			"$lte": filter.Term + prefixRangeHigh,
		}
	}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}
	if filter.OwnerEmail != "" {
		query["email"] = filter.OwnerEmail
	}
	if filter.Verified != nil {
		query["verified"] = *filter.Verified
	}

	return query
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Backs the name prefix range and the pre-insert existence check.
			// Deliberately not unique: duplicate prevention is the documented
			// read-then-write check, not a transactional constraint.
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "muscle", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for %s: %v", collection.Name(), err)
	}
}

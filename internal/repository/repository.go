package repository

import (
	"context"
	"time"

	"github.com/fcjdm/gymfy/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// SearchField selects which exercise attribute a search term matches against.
type SearchField string

const (
	SearchFieldName   SearchField = "name"
	SearchFieldMuscle SearchField = "muscle"
	SearchFieldType   SearchField = "type"
)

// ValidSearchField reports whether f is a recognized search field.
func ValidSearchField(f SearchField) bool {
	switch f {
	case SearchFieldName, SearchFieldMuscle, SearchFieldType:
		return true
	}
	return false
}

// SearchFilter is the catalog query configuration. Unset options impose no
// constraint; set options combine with logical AND. Term is a prefix match on
// Field. Result order is the backend default and must be treated as unordered.
type SearchFilter struct {
	Field      SearchField
	Term       string
	Difficulty domain.Difficulty
	OwnerEmail string
	Verified   *bool
}

// ProfileUpdate carries profile fields for a merge-semantics save: only
// non-nil fields are written, all others are preserved.
type ProfileUpdate struct {
	Name           *string
	DateOfBirth    *string
	Nationality    *string
	PhotoURL       *string
	PhotoObjectKey *string
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetPasswordReset(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CatalogRepository defines the interface for the shared exercise catalog.
type CatalogRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Exercise, error)
	// CountByName counts catalog entries with exactly this name. Used for the
	// pre-insert existence check; not atomic with Create.
	CountByName(ctx context.Context, name string) (int64, error)
}

// ListRepository defines the interface for user-owned exercise lists.
type ListRepository interface {
	Create(ctx context.Context, list *domain.ExerciseList) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseList, error)
	ListForOwner(ctx context.Context, ownerEmail string) ([]domain.ExerciseList, error)
	Rename(ctx context.Context, id primitive.ObjectID, newName string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AppendExercise(ctx context.Context, id primitive.ObjectID, snapshot domain.ListExercise) error
	PullExercise(ctx context.Context, id primitive.ObjectID, embedID string) error
	DeleteAllForOwner(ctx context.Context, ownerEmail string) (int64, error)
}

// ProfileRepository defines the interface for per-user profile fields.
type ProfileRepository interface {
	Fetch(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	Save(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) error
}

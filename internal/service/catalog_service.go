package service

import (
	"context"
	"errors"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrDuplicateExercise = errors.New("an exercise with this name already exists")
	ErrValidationFailed  = errors.New("exercise validation failed")
)

// CatalogService exposes the shared exercise catalog: search/filter and
// submission of new exercises.
type CatalogService interface {
	Search(ctx context.Context, filter repository.SearchFilter) ([]domain.Exercise, error)
	CreateExercise(ctx context.Context, submitterEmail, name string, difficulty domain.Difficulty, muscle, exerciseType, instructions string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
	}
}

// Search runs a filtered catalog query. An invalid search field or difficulty
// is rejected rather than silently ignored.
func (s *catalogService) Search(ctx context.Context, filter repository.SearchFilter) ([]domain.Exercise, error) {
	if filter.Term != "" && !repository.ValidSearchField(filter.Field) {
		return nil, ErrValidationFailed
	}
	if filter.Difficulty != "" && !domain.ValidDifficulty(filter.Difficulty) {
		return nil, ErrValidationFailed
	}

	return s.catalogRepo.Search(ctx, filter)
}

// CreateExercise submits a new catalog entry. The duplicate-name guard is a
// pre-insert existence query; two concurrent submitters can both pass it.
// That window is a documented limitation, matching the backend contract.
func (s *catalogService) CreateExercise(ctx context.Context, submitterEmail, name string, difficulty domain.Difficulty, muscle, exerciseType, instructions string) (*domain.Exercise, error) {
	if name == "" || submitterEmail == "" {
		return nil, ErrValidationFailed
	}
	if !domain.ValidDifficulty(difficulty) {
		return nil, ErrValidationFailed
	}

	count, err := s.catalogRepo.CountByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateExercise
	}

	exercise := &domain.Exercise{
		Name:         name,
		Difficulty:   difficulty,
		Muscle:       muscle,
		Type:         exerciseType,
		Instructions: instructions,
		Email:        submitterEmail,
		Verified:     false, // New submissions start unverified
	}

	exerciseID, err := s.catalogRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExerciseByID retrieves a single catalog exercise.
func (s *catalogService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.catalogRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

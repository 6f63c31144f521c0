package service

import (
	"context"
	"errors"
	"time"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrListNotFound     = errors.New("exercise list not found")
	ErrListAccessDenied = errors.New("access denied to this exercise list")
	ErrAlreadyInList    = errors.New("an exercise with this name is already in the list")
	ErrNotInList        = errors.New("exercise not found in the list")
)

// ListService manages user-owned exercise lists. Every mutation checks that
// the caller owns the target list.
type ListService interface {
	ListsForOwner(ctx context.Context, ownerEmail string) ([]domain.ExerciseList, error)
	GetList(ctx context.Context, ownerEmail string, listID primitive.ObjectID) (*domain.ExerciseList, error)
	CreateList(ctx context.Context, ownerEmail, name string) (*domain.ExerciseList, error)
	RenameList(ctx context.Context, ownerEmail string, listID primitive.ObjectID, newName string) error
	DeleteList(ctx context.Context, ownerEmail string, listID primitive.ObjectID) error
	AddExercise(ctx context.Context, ownerEmail string, listID, exerciseID primitive.ObjectID) (*domain.ListExercise, error)
	RemoveExercise(ctx context.Context, ownerEmail string, listID primitive.ObjectID, embedID string) error
}

// listService implements the ListService interface.
type listService struct {
	listRepo    repository.ListRepository
	catalogRepo repository.CatalogRepository
}

// NewListService creates a new instance of listService.
func NewListService(listRepo repository.ListRepository, catalogRepo repository.CatalogRepository) ListService {
	return &listService{
		listRepo:    listRepo,
		catalogRepo: catalogRepo,
	}
}

// ListsForOwner retrieves all lists owned by the email.
func (s *listService) ListsForOwner(ctx context.Context, ownerEmail string) ([]domain.ExerciseList, error) {
	if ownerEmail == "" {
		return nil, errors.New("owner email cannot be empty")
	}
	return s.listRepo.ListForOwner(ctx, ownerEmail)
}

// GetList retrieves one list, enforcing ownership.
func (s *listService) GetList(ctx context.Context, ownerEmail string, listID primitive.ObjectID) (*domain.ExerciseList, error) {
	return s.ownedList(ctx, ownerEmail, listID)
}

// CreateList creates a list with an empty embedded collection.
func (s *listService) CreateList(ctx context.Context, ownerEmail, name string) (*domain.ExerciseList, error) {
	if name == "" || ownerEmail == "" {
		return nil, errors.New("list name and owner email are required")
	}

	list := &domain.ExerciseList{
		Name:       name,
		OwnerEmail: ownerEmail,
		Exercises:  []domain.ListExercise{},
	}

	listID, err := s.listRepo.Create(ctx, list)
	if err != nil {
		return nil, err
	}
	list.ID = listID
	return list, nil
}

// RenameList changes the list name; embedded exercises are untouched.
func (s *listService) RenameList(ctx context.Context, ownerEmail string, listID primitive.ObjectID, newName string) error {
	if newName == "" {
		return errors.New("list name cannot be empty")
	}
	if _, err := s.ownedList(ctx, ownerEmail, listID); err != nil {
		return err
	}
	if err := s.listRepo.Rename(ctx, listID, newName); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	return nil
}

// DeleteList removes a list entirely.
func (s *listService) DeleteList(ctx context.Context, ownerEmail string, listID primitive.ObjectID) error {
	if _, err := s.ownedList(ctx, ownerEmail, listID); err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, listID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	return nil
}

// AddExercise copies a catalog exercise into the list by value, assigning an
// embed identifier at snapshot time. Membership is a fetch-then-compare on
// embedded names; the check and the append are not atomic, so two concurrent
// adds of the same name can both land. Documented limitation.
func (s *listService) AddExercise(ctx context.Context, ownerEmail string, listID, exerciseID primitive.ObjectID) (*domain.ListExercise, error) {
	list, err := s.ownedList(ctx, ownerEmail, listID)
	if err != nil {
		return nil, err
	}

	exercise, err := s.catalogRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	for _, embedded := range list.Exercises {
		if embedded.Name == exercise.Name {
			return nil, ErrAlreadyInList
		}
	}

	snapshot := domain.Snapshot(exercise, uuid.NewString(), time.Now().UTC())
	if err := s.listRepo.AppendExercise(ctx, listID, snapshot); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// RemoveExercise drops the embedded entry with the given embed ID and
// persists the reduced collection.
func (s *listService) RemoveExercise(ctx context.Context, ownerEmail string, listID primitive.ObjectID, embedID string) error {
	list, err := s.ownedList(ctx, ownerEmail, listID)
	if err != nil {
		return err
	}

	found := false
	for _, embedded := range list.Exercises {
		if embedded.EmbedID == embedID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotInList
	}

	if err := s.listRepo.PullExercise(ctx, listID, embedID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListNotFound
		}
		return err
	}
	return nil
}

// ownedList fetches a list and checks the caller owns it. A list owned by
// someone else reads as access denied, not as absent.
func (s *listService) ownedList(ctx context.Context, ownerEmail string, listID primitive.ObjectID) (*domain.ExerciseList, error) {
	list, err := s.listRepo.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if list.OwnerEmail != ownerEmail {
		return nil, ErrListAccessDenied
	}
	return list, nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They reproduce the backend contracts the mongo
// implementations provide, including the non-atomic read-then-write shape the
// services rely on.

// --- user repo ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, fmt.Errorf("user with this email already exists")
		}
	}
	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetPasswordReset(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetToken = token
	u.ResetTokenExpires = expires
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// --- catalog repo ---

type fakeCatalogRepo struct {
	exercises []domain.Exercise
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{}
}

func (r *fakeCatalogRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()
	r.exercises = append(r.exercises, *exercise)
	return exercise.ID, nil
}

func (r *fakeCatalogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for i := range r.exercises {
		if r.exercises[i].ID == id {
			cp := r.exercises[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		if filter.Term != "" && repository.ValidSearchField(filter.Field) {
			var value string
			switch filter.Field {
			case repository.SearchFieldName:
				value = e.Name
			case repository.SearchFieldMuscle:
				value = e.Muscle
			case repository.SearchFieldType:
				value = e.Type
			}
			if !strings.HasPrefix(value, filter.Term) {
				continue
			}
		}
		if filter.Difficulty != "" && e.Difficulty != filter.Difficulty {
			continue
		}
		if filter.OwnerEmail != "" && e.Email != filter.OwnerEmail {
			continue
		}
		if filter.Verified != nil && e.Verified != *filter.Verified {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeCatalogRepo) CountByName(ctx context.Context, name string) (int64, error) {
	var count int64
	for _, e := range r.exercises {
		if e.Name == name {
			count++
		}
	}
	return count, nil
}

// --- list repo ---

type fakeListRepo struct {
	lists map[primitive.ObjectID]*domain.ExerciseList
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{lists: make(map[primitive.ObjectID]*domain.ExerciseList)}
}

func (r *fakeListRepo) Create(ctx context.Context, list *domain.ExerciseList) (primitive.ObjectID, error) {
	list.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	list.CreatedAt = now
	list.UpdatedAt = now
	if list.Exercises == nil {
		list.Exercises = []domain.ListExercise{}
	}
	cp := *list
	cp.Exercises = append([]domain.ListExercise(nil), list.Exercises...)
	r.lists[list.ID] = &cp
	return list.ID, nil
}

func (r *fakeListRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseList, error) {
	l, ok := r.lists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	cp.Exercises = append([]domain.ListExercise(nil), l.Exercises...)
	return &cp, nil
}

func (r *fakeListRepo) ListForOwner(ctx context.Context, ownerEmail string) ([]domain.ExerciseList, error) {
	var out []domain.ExerciseList
	for _, l := range r.lists {
		if l.OwnerEmail == ownerEmail {
			cp := *l
			cp.Exercises = append([]domain.ListExercise(nil), l.Exercises...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeListRepo) Rename(ctx context.Context, id primitive.ObjectID, newName string) error {
	l, ok := r.lists[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Name = newName
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeListRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.lists[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.lists, id)
	return nil
}

func (r *fakeListRepo) AppendExercise(ctx context.Context, id primitive.ObjectID, snapshot domain.ListExercise) error {
	l, ok := r.lists[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Exercises = append(l.Exercises, snapshot)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeListRepo) PullExercise(ctx context.Context, id primitive.ObjectID, embedID string) error {
	l, ok := r.lists[id]
	if !ok {
		return repository.ErrNotFound
	}
	kept := l.Exercises[:0]
	for _, e := range l.Exercises {
		if e.EmbedID != embedID {
			kept = append(kept, e)
		}
	}
	l.Exercises = kept
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeListRepo) DeleteAllForOwner(ctx context.Context, ownerEmail string) (int64, error) {
	var deleted int64
	for id, l := range r.lists {
		if l.OwnerEmail == ownerEmail {
			delete(r.lists, id)
			deleted++
		}
	}
	return deleted, nil
}

// --- profile repo (over the user store) ---

type fakeProfileRepo struct {
	users *fakeUserRepo
}

func newFakeProfileRepo(users *fakeUserRepo) *fakeProfileRepo {
	return &fakeProfileRepo{users: users}
}

func (r *fakeProfileRepo) Fetch(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	u, ok := r.users.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &domain.Profile{
		Name:           u.Name,
		DateOfBirth:    u.DateOfBirth,
		Nationality:    u.Nationality,
		PhotoURL:       u.PhotoURL,
		PhotoObjectKey: u.PhotoObjectKey,
	}, nil
}

func (r *fakeProfileRepo) Save(ctx context.Context, userID primitive.ObjectID, update repository.ProfileUpdate) error {
	u, ok := r.users.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.DateOfBirth != nil {
		u.DateOfBirth = *update.DateOfBirth
	}
	if update.Nationality != nil {
		u.Nationality = *update.Nationality
	}
	if update.PhotoURL != nil {
		u.PhotoURL = *update.PhotoURL
	}
	if update.PhotoObjectKey != nil {
		u.PhotoObjectKey = *update.PhotoObjectKey
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// --- file storage ---

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, objectKey string, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[objectKey] = data
	return "https://storage.test/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if _, ok := s.objects[objectKey]; !ok {
		return "", fmt.Errorf("object %s not found", objectKey)
	}
	return "https://storage.test/" + objectKey + "?signed=1", nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

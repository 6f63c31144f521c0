package service

import (
	"context"
	"testing"

	"github.com/fcjdm/gymfy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const owner = "a@example.com"

func newTestListService(t *testing.T) (ListService, CatalogService) {
	t.Helper()
	catalogRepo := newFakeCatalogRepo()
	return NewListService(newFakeListRepo(), catalogRepo), NewCatalogService(catalogRepo)
}

func seedExercise(t *testing.T, catalog CatalogService, name string, difficulty domain.Difficulty) *domain.Exercise {
	t.Helper()
	exercise, err := catalog.CreateExercise(context.Background(), "submitter@example.com", name, difficulty, "legs", "strength", "...")
	require.NoError(t, err)
	return exercise
}

func TestCreateListStartsEmpty(t *testing.T) {
	ctx := context.Background()
	lists, _ := newTestListService(t)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)
	assert.Equal(t, "Leg Day", list.Name)
	assert.Equal(t, owner, list.OwnerEmail)
	assert.Empty(t, list.Exercises)
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	exercise := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	before, err := lists.GetList(ctx, owner, list.ID)
	require.NoError(t, err)

	snapshot, err := lists.AddExercise(ctx, owner, list.ID, exercise.ID)
	require.NoError(t, err)
	require.NotEmpty(t, snapshot.EmbedID)

	err = lists.RemoveExercise(ctx, owner, list.ID, snapshot.EmbedID)
	require.NoError(t, err)

	after, err := lists.GetList(ctx, owner, list.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Exercises, after.Exercises, "add then remove must restore the embedded collection")
}

func TestAddExerciseSnapshotsByValue(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	exercise := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	snapshot, err := lists.AddExercise(ctx, owner, list.ID, exercise.ID)
	require.NoError(t, err)

	assert.Equal(t, exercise.Name, snapshot.Name)
	assert.Equal(t, exercise.Difficulty, snapshot.Difficulty)
	assert.Equal(t, exercise.ID, snapshot.CatalogID)
	assert.NotEmpty(t, snapshot.EmbedID)
	assert.False(t, snapshot.AddedAt.IsZero())
}

func TestAddExerciseAlreadyInList(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	exercise := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	_, err = lists.AddExercise(ctx, owner, list.ID, exercise.ID)
	require.NoError(t, err)

	// Membership is compared by exercise name.
	_, err = lists.AddExercise(ctx, owner, list.ID, exercise.ID)
	assert.ErrorIs(t, err, ErrAlreadyInList)
}

func TestRemoveExerciseNotInList(t *testing.T) {
	ctx := context.Background()
	lists, _ := newTestListService(t)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	err = lists.RemoveExercise(ctx, owner, list.ID, "no-such-embed-id")
	assert.ErrorIs(t, err, ErrNotInList)
}

func TestRenamePreservesExercises(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	exercise := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)
	_, err = lists.AddExercise(ctx, owner, list.ID, exercise.ID)
	require.NoError(t, err)

	require.NoError(t, lists.RenameList(ctx, owner, list.ID, "X"))

	all, err := lists.ListsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "X", all[0].Name)
	require.Len(t, all[0].Exercises, 1)
	assert.Equal(t, "Squat", all[0].Exercises[0].Name)
}

func TestDeleteListDisappearsFromListings(t *testing.T) {
	ctx := context.Background()
	lists, _ := newTestListService(t)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)
	keep, err := lists.CreateList(ctx, owner, "Push Day")
	require.NoError(t, err)

	require.NoError(t, lists.DeleteList(ctx, owner, list.ID))

	all, err := lists.ListsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)
}

func TestOwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	exercise := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	_, err = lists.GetList(ctx, "b@example.com", list.ID)
	assert.ErrorIs(t, err, ErrListAccessDenied)

	err = lists.RenameList(ctx, "b@example.com", list.ID, "Stolen")
	assert.ErrorIs(t, err, ErrListAccessDenied)

	err = lists.DeleteList(ctx, "b@example.com", list.ID)
	assert.ErrorIs(t, err, ErrListAccessDenied)

	_, err = lists.AddExercise(ctx, "b@example.com", list.ID, exercise.ID)
	assert.ErrorIs(t, err, ErrListAccessDenied)
}

func TestUnknownListAndExercise(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	exercise := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	_, err := lists.GetList(ctx, owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrListNotFound)

	_, err = lists.AddExercise(ctx, owner, primitive.NewObjectID(), exercise.ID)
	assert.ErrorIs(t, err, ErrListNotFound)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	_, err = lists.AddExercise(ctx, owner, list.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestLegDayScenario(t *testing.T) {
	ctx := context.Background()
	lists, catalog := newTestListService(t)
	squat := seedExercise(t, catalog, "Squat", domain.DifficultyBeginner)

	list, err := lists.CreateList(ctx, owner, "Leg Day")
	require.NoError(t, err)

	_, err = lists.AddExercise(ctx, owner, list.ID, squat.ID)
	require.NoError(t, err)

	all, err := lists.ListsForOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Leg Day", all[0].Name)
	require.Len(t, all[0].Exercises, 1)
	assert.Equal(t, "Squat", all[0].Exercises[0].Name)
}

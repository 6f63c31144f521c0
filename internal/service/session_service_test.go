package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newTestSessionService(users *fakeUserRepo) SessionService {
	return NewSessionService(users, testJWTSecret, time.Hour)
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeUserRepo())

	identity, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "a@example.com", identity.Email)
	assert.False(t, identity.ID.IsZero())

	token, signedIn, err := svc.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, identity.ID, signedIn.ID)
	assert.Equal(t, identity.Email, signedIn.Email)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeUserRepo())

	_, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "a@example.com", "otherpassword")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeUserRepo())

	_, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestCurrentUserTracksSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeUserRepo())

	identity, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	assert.Nil(t, svc.CurrentUser(identity.ID))

	_, _, err = svc.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	current := svc.CurrentUser(identity.ID)
	require.NotNil(t, current)
	assert.Equal(t, "a@example.com", current.Email)

	require.NoError(t, svc.SignOut(ctx, identity.ID))
	assert.Nil(t, svc.CurrentUser(identity.ID))
}

func TestAuthStateNotifiedOncePerTransition(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeUserRepo())

	identity, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	var events []AuthState
	unsubscribe := svc.OnAuthStateChanged(func(state AuthState) {
		events = append(events, state)
	})
	defer unsubscribe()

	_, _, err = svc.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	// A repeat sign-in is not a transition.
	_, _, err = svc.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, identity.ID))
	// Signing out again is a no-op.
	require.NoError(t, svc.SignOut(ctx, identity.ID))

	require.Len(t, events, 2)
	assert.True(t, events[0].SignedIn)
	assert.Equal(t, "a@example.com", events[0].Identity.Email)
	assert.False(t, events[1].SignedIn)
	assert.Equal(t, "a@example.com", events[1].Identity.Email)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	svc := newTestSessionService(newFakeUserRepo())

	_, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	calls := 0
	unsubscribe := svc.OnAuthStateChanged(func(AuthState) { calls++ })
	unsubscribe()
	unsubscribe() // must be safe to call twice

	_, _, err = svc.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	assert.Zero(t, calls)
}

func TestSendPasswordResetPersistsToken(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newTestSessionService(users)

	identity, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.SendPasswordReset(ctx, "a@example.com"))

	stored := users.users[identity.ID]
	assert.NotEmpty(t, stored.ResetToken)
	assert.True(t, stored.ResetTokenExpires.After(time.Now()))

	err = svc.SendPasswordReset(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteCurrentUserEndsSession(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	svc := newTestSessionService(users)

	identity, err := svc.SignUp(ctx, "a@example.com", "password123")
	require.NoError(t, err)
	_, _, err = svc.SignIn(ctx, "a@example.com", "password123")
	require.NoError(t, err)

	var events []AuthState
	unsubscribe := svc.OnAuthStateChanged(func(state AuthState) {
		events = append(events, state)
	})
	defer unsubscribe()

	require.NoError(t, svc.DeleteCurrentUser(ctx, identity.ID))

	assert.Nil(t, svc.CurrentUser(identity.ID))
	assert.Empty(t, users.users)
	require.Len(t, events, 1)
	assert.False(t, events[0].SignedIn)

	err = svc.DeleteCurrentUser(ctx, identity.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

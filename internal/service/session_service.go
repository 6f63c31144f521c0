package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// How long a password-reset token stays valid.
const resetTokenTTL = 1 * time.Hour

// AuthState is delivered to auth-state subscribers on every sign-in/out
// transition. Identity is always set; SignedIn tells which direction the
// transition went.
type AuthState struct {
	Identity domain.Identity
	SignedIn bool
}

// SessionService is the session provider: it wraps account storage and token
// issuing, tracks which identities currently hold a session, and notifies
// subscribers of auth-state transitions.
type SessionService interface {
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (token string, identity *domain.Identity, err error)
	SignOut(ctx context.Context, userID primitive.ObjectID) error
	SendPasswordReset(ctx context.Context, email string) error
	DeleteCurrentUser(ctx context.Context, userID primitive.ObjectID) error
	CurrentUser(userID primitive.ObjectID) *domain.Identity
	OnAuthStateChanged(fn func(AuthState)) (unsubscribe func())
	GetJWTSecret() string
}

// sessionService implements the SessionService interface.
type sessionService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration

	mu          sync.Mutex
	active      map[primitive.ObjectID]domain.Identity
	subscribers map[int]func(AuthState)
	nextSubID   int
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) SessionService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &sessionService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		active:        make(map[primitive.ObjectID]domain.Identity),
		subscribers:   make(map[int]func(AuthState)),
	}
}

// SignUp handles new account registration.
func (s *sessionService) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password cannot be empty")
	}

	// Check if the email is already taken.
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// The unique email index closes the window between the check above
		// and the insert.
		if err.Error() == ErrUserAlreadyExists.Error() {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return &domain.Identity{ID: userID, Email: email}, nil
}

// SignIn authenticates a user, issues a JWT, and notifies subscribers of the
// signed-in transition.
func (s *sessionService) SignIn(ctx context.Context, email, password string) (token string, identity *domain.Identity, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		return
	}

	id := domain.Identity{ID: user.ID, Email: user.Email}

	token, err = s.generateJWT(&id)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	s.beginSession(id)
	return token, &id, nil
}

// SignOut ends the user's session, notifying subscribers exactly once.
// Signing out an identity with no session is a no-op.
func (s *sessionService) SignOut(ctx context.Context, userID primitive.ObjectID) error {
	s.endSession(userID)
	return nil
}

// SendPasswordReset issues a single-use reset token for the account and
// persists it for the mail collaborator to deliver.
func (s *sessionService) SendPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token := uuid.NewString()
	expires := time.Now().UTC().Add(resetTokenTTL)
	if err := s.userRepo.SetPasswordReset(ctx, user.ID, token, expires); err != nil {
		return err
	}

	log.Printf("INFO: Password reset token issued for %s (expires %s)", email, expires.Format(time.RFC3339))
	return nil
}

// DeleteCurrentUser removes the account and ends any session it holds.
func (s *sessionService) DeleteCurrentUser(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.endSession(userID)
	return nil
}

// CurrentUser returns the identity for a signed-in user, or nil when no
// session is active for that ID.
func (s *sessionService) CurrentUser(userID primitive.ObjectID) *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.active[userID]; ok {
		return &id
	}
	return nil
}

// OnAuthStateChanged registers a subscriber for sign-in/out transitions and
// returns its unsubscribe handle. Unsubscribing more than once is safe.
func (s *sessionService) OnAuthStateChanged(fn func(AuthState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subID := s.nextSubID
	s.nextSubID++
	s.subscribers[subID] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, subID)
	}
}

// beginSession records the identity as signed in. Subscribers are notified
// only when this is an actual transition, not on a repeat sign-in.
func (s *sessionService) beginSession(id domain.Identity) {
	s.mu.Lock()
	_, already := s.active[id.ID]
	s.active[id.ID] = id
	fns := s.snapshotSubscribers()
	s.mu.Unlock()

	if !already {
		notify(fns, AuthState{Identity: id, SignedIn: true})
	}
}

// endSession removes the identity's session, notifying on the transition.
func (s *sessionService) endSession(userID primitive.ObjectID) {
	s.mu.Lock()
	id, ok := s.active[userID]
	if ok {
		delete(s.active, userID)
	}
	fns := s.snapshotSubscribers()
	s.mu.Unlock()

	if ok {
		notify(fns, AuthState{Identity: id, SignedIn: false})
	}
}

// snapshotSubscribers copies the callback set so notification runs outside
// the lock; a callback may itself subscribe or unsubscribe.
func (s *sessionService) snapshotSubscribers() []func(AuthState) {
	fns := make([]func(AuthState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(AuthState), state AuthState) {
	for _, fn := range fns {
		fn(state)
	}
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given identity.
func (s *sessionService) generateJWT(id *domain.Identity) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		UserID: id.ID.Hex(),
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gymfy",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *sessionService) GetJWTSecret() string {
	return s.jwtSecret
}

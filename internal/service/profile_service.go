package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"
	"github.com/fcjdm/gymfy/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidNationality = errors.New("nationality is not in the supported set")
	ErrInvalidImageType   = errors.New("invalid or missing image content type")
	ErrNoProfilePhoto     = errors.New("no profile photo has been uploaded")
)

// Storage prefix for profile images; objects land under
// profileImages/{uid}/{filename}.
const profileImagePrefix = "profileImages"

// ProfileService manages per-user profile fields, the profile photo, and
// account deletion.
type ProfileService interface {
	Fetch(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error)
	Save(ctx context.Context, userID primitive.ObjectID, update repository.ProfileUpdate) error
	UploadPhoto(ctx context.Context, userID primitive.ObjectID, filename, contentType string, body io.Reader) (string, error)
	PhotoDownloadURL(ctx context.Context, userID primitive.ObjectID) (string, error)
	DeleteAccountCascade(ctx context.Context, userID primitive.ObjectID, email string) error
}

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	listRepo    repository.ListRepository
	session     SessionService
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(
	profileRepo repository.ProfileRepository,
	listRepo repository.ListRepository,
	session SessionService,
	fileStorage storage.FileStorage,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		listRepo:    listRepo,
		session:     session,
		fileStorage: fileStorage,
	}
}

// Fetch returns the user's profile. A profile the user never saved comes back
// with empty fields; absence is valid, never an error.
func (s *profileService) Fetch(ctx context.Context, userID primitive.ObjectID) (*domain.Profile, error) {
	profile, err := s.profileRepo.Fetch(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.Profile{}, nil
		}
		return nil, err
	}
	return profile, nil
}

// Save writes only the provided fields, preserving the rest. Nationality is
// validated against the fixed set; date of birth is free text by contract.
func (s *profileService) Save(ctx context.Context, userID primitive.ObjectID, update repository.ProfileUpdate) error {
	if update.Nationality != nil && !domain.ValidNationality(*update.Nationality) {
		return ErrInvalidNationality
	}

	if err := s.profileRepo.Save(ctx, userID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UploadPhoto streams the image to object storage under the per-user path,
// persists the resulting URL on the profile, and returns it. A previously
// uploaded photo object is removed after the replacement is in place.
func (s *profileService) UploadPhoto(ctx context.Context, userID primitive.ObjectID, filename, contentType string, body io.Reader) (string, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", ErrInvalidImageType
	}

	previous, err := s.profileRepo.Fetch(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	objectKey := path.Join(profileImagePrefix, userID.Hex(), uniqueFilename(filename, contentType))

	url, err := s.fileStorage.Upload(ctx, objectKey, contentType, body)
	if err != nil {
		return "", err
	}

	update := repository.ProfileUpdate{
		PhotoURL:       &url,
		PhotoObjectKey: &objectKey,
	}
	if err := s.profileRepo.Save(ctx, userID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	// Best-effort cleanup of the replaced object; the new photo is already
	// persisted, so a failure here only leaks storage.
	if previous != nil && previous.PhotoObjectKey != "" && previous.PhotoObjectKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, previous.PhotoObjectKey); err != nil {
			log.Printf("WARN: Failed to delete replaced profile photo '%s': %v", previous.PhotoObjectKey, err)
		}
	}

	return url, nil
}

// PhotoDownloadURL returns a short-lived presigned URL for the stored photo.
func (s *profileService) PhotoDownloadURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	profile, err := s.Fetch(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.PhotoObjectKey == "" {
		return "", ErrNoProfilePhoto
	}
	return s.fileStorage.GeneratePresignedDownloadURL(ctx, profile.PhotoObjectKey, storage.DefaultPresignedURLExpiry)
}

// DeleteAccountCascade deletes all lists owned by the email, then deletes the
// user via the session provider. If the user deletion fails after the lists
// are gone, the orphaned state stands; there is no compensating transaction.
func (s *profileService) DeleteAccountCascade(ctx context.Context, userID primitive.ObjectID, email string) error {
	deleted, err := s.listRepo.DeleteAllForOwner(ctx, email)
	if err != nil {
		return err
	}
	log.Printf("INFO: Deleted %d exercise list(s) for %s", deleted, email)

	if err := s.session.DeleteCurrentUser(ctx, userID); err != nil {
		log.Printf("ERROR: Lists for %s deleted but user deletion failed: %v", email, err)
		return err
	}
	return nil
}

// uniqueFilename keeps the extension of the uploaded file but replaces the
// base name with a generated identifier.
func uniqueFilename(filename, contentType string) string {
	ext := path.Ext(filename)
	if ext == "" {
		if parts := strings.Split(contentType, "/"); len(parts) == 2 {
			ext = "." + parts[1]
		}
	}
	return fmt.Sprintf("%s%s", uuid.NewString(), ext)
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fcjdm/gymfy/internal/repository"
	"github.com/fcjdm/gymfy/internal/service"

	"github.com/gin-gonic/gin"
)

// Cap profile photo uploads at 10 MiB.
const maxPhotoSize = 10 << 20

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profiles service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// --- Request Structs ---

// UpdateProfileRequest carries only the fields the caller wants to change;
// omitted fields are preserved.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"dateOfBirth"`
	Nationality *string `json:"nationality"`
}

// --- Handler Methods ---

// GetProfile returns the caller's profile. Never-saved profiles come back
// with empty fields.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	profile, err := h.profiles.Fetch(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile merge-saves the provided profile fields.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	update := repository.ProfileUpdate{
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Nationality: req.Nationality,
	}

	if err := h.profiles.Save(c.Request.Context(), userID, update); err != nil {
		if errors.Is(err, service.ErrInvalidNationality) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save profile")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
}

// UploadPhoto accepts a multipart image, stores it, and returns the URL.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "photo file is required")
		return
	}
	if fileHeader.Size > maxPhotoSize {
		abortWithError(c, http.StatusBadRequest, "photo exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to read uploaded photo")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.profiles.UploadPhoto(c.Request.Context(), userID, fileHeader.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidImageType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to upload photo")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"photoUrl": url})
}

// GetPhotoURL returns a short-lived download URL for the stored photo.
func (h *ProfileHandler) GetPhotoURL(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	url, err := h.profiles.PhotoDownloadURL(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoProfilePhoto) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate photo URL")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"photoUrl": url})
}

// DeleteAccount cascades: removes the caller's lists, then the account.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	email, err := getUserEmailFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user email from token")
		return
	}

	if err := h.profiles.DeleteAccountCascade(c.Request.Context(), userID, email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete account")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

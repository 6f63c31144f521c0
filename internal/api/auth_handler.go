package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the session service dependency.
type AuthHandler struct {
	session service.SessionService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(session service.SessionService) *AuthHandler {
	return &AuthHandler{session: session}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IdentityResponse is the wire form of an authenticated identity.
type IdentityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  IdentityResponse `json:"user"`
}

// --- Handler Methods ---

// Register creates a new account from an email/password pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	identity, err := h.session.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, mapIdentityToResponse(identity))
}

// Login authenticates the user and returns a JWT token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, identity, err := h.session.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  mapIdentityToResponse(identity),
	})
}

// Logout ends the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.session.SignOut(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// ResetPassword issues a password-reset token for the given email.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.session.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not process password reset")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset email sent"})
}

// Me returns the caller's identity as seen by the session provider.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	email, _ := getUserEmailFromContext(c)

	c.JSON(http.StatusOK, IdentityResponse{ID: userID.Hex(), Email: email})
}

func mapIdentityToResponse(id *domain.Identity) IdentityResponse {
	if id == nil {
		return IdentityResponse{}
	}
	return IdentityResponse{ID: id.ID.Hex(), Email: id.Email}
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/repository"
	"github.com/fcjdm/gymfy/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogHandler holds the catalog service dependency.
type CatalogHandler struct {
	catalog service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// --- Request/Response Structs ---

type CreateExerciseRequest struct {
	Name         string `json:"name" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"required,oneof=beginner intermediate difficult"`
	Muscle       string `json:"muscle" binding:"required"`
	Type         string `json:"type" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
}

// --- Handler Methods ---

// SearchExercises runs a filtered catalog query from query parameters:
// field (name|muscle|type), term, difficulty, verified, mine.
func (h *CatalogHandler) SearchExercises(c *gin.Context) {
	filter := repository.SearchFilter{
		Field:      repository.SearchField(c.Query("field")),
		Term:       c.Query("term"),
		Difficulty: domain.Difficulty(c.Query("difficulty")),
	}

	if v := c.Query("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "verified must be a boolean")
			return
		}
		filter.Verified = &verified
	}

	// mine=true restricts the results to the caller's own submissions.
	if mine, _ := strconv.ParseBool(c.Query("mine")); mine {
		email, err := getUserEmailFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to get user email from token")
			return
		}
		filter.OwnerEmail = email
	}

	exercises, err := h.catalog.Search(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to search exercises")
		}
		return
	}

	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// CreateExercise submits a new exercise to the shared catalog.
func (h *CatalogHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	email, err := getUserEmailFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user email from token")
		return
	}

	exercise, err := h.catalog.CreateExercise(
		c.Request.Context(),
		email,
		req.Name,
		domain.Difficulty(req.Difficulty),
		req.Muscle,
		req.Type,
		req.Instructions,
	)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateExercise) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// GetExercise retrieves a single catalog exercise by ID.
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.catalog.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch exercise")
		}
		return
	}

	c.JSON(http.StatusOK, exercise)
}

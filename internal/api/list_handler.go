package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fcjdm/gymfy/internal/domain"
	"github.com/fcjdm/gymfy/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListHandler holds the list service dependency.
type ListHandler struct {
	lists service.ListService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

// --- Request Structs ---

type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

type RenameListRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
}

// --- Handler Methods ---

// GetLists returns all lists owned by the caller.
func (h *ListHandler) GetLists(c *gin.Context) {
	email, err := getUserEmailFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user email from token")
		return
	}

	lists, err := h.lists.ListsForOwner(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch exercise lists")
		return
	}

	if lists == nil {
		lists = []domain.ExerciseList{}
	}
	c.JSON(http.StatusOK, lists)
}

// GetList returns one of the caller's lists with its embedded exercises.
func (h *ListHandler) GetList(c *gin.Context) {
	email, listID, ok := h.callerAndListID(c)
	if !ok {
		return
	}

	list, err := h.lists.GetList(c.Request.Context(), email, listID)
	if err != nil {
		h.mapListError(c, err, "Failed to fetch exercise list")
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateList creates a new empty list owned by the caller.
func (h *ListHandler) CreateList(c *gin.Context) {
	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	email, err := getUserEmailFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user email from token")
		return
	}

	list, err := h.lists.CreateList(c.Request.Context(), email, req.Name)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create exercise list")
		return
	}

	c.JSON(http.StatusCreated, list)
}

// RenameList updates the list's name.
func (h *ListHandler) RenameList(c *gin.Context) {
	var req RenameListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	email, listID, ok := h.callerAndListID(c)
	if !ok {
		return
	}

	if err := h.lists.RenameList(c.Request.Context(), email, listID, req.Name); err != nil {
		h.mapListError(c, err, "Failed to rename exercise list")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "list renamed"})
}

// DeleteList removes one of the caller's lists.
func (h *ListHandler) DeleteList(c *gin.Context) {
	email, listID, ok := h.callerAndListID(c)
	if !ok {
		return
	}

	if err := h.lists.DeleteList(c.Request.Context(), email, listID); err != nil {
		h.mapListError(c, err, "Failed to delete exercise list")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "list deleted"})
}

// AddExercise snapshots a catalog exercise into the list.
func (h *ListHandler) AddExercise(c *gin.Context) {
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	email, listID, ok := h.callerAndListID(c)
	if !ok {
		return
	}

	snapshot, err := h.lists.AddExercise(c.Request.Context(), email, listID, exerciseID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyInList) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			h.mapListError(c, err, "Failed to add exercise to list")
		}
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// RemoveExercise drops an embedded exercise from the list by its embed ID.
func (h *ListHandler) RemoveExercise(c *gin.Context) {
	email, listID, ok := h.callerAndListID(c)
	if !ok {
		return
	}

	embedID := c.Param("exerciseId")
	if embedID == "" {
		abortWithError(c, http.StatusBadRequest, "Embedded exercise ID is required")
		return
	}

	if err := h.lists.RemoveExercise(c.Request.Context(), email, listID, embedID); err != nil {
		if errors.Is(err, service.ErrNotInList) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			h.mapListError(c, err, "Failed to remove exercise from list")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "exercise removed"})
}

// callerAndListID extracts the caller's email and the :id path parameter.
func (h *ListHandler) callerAndListID(c *gin.Context) (string, primitive.ObjectID, bool) {
	email, err := getUserEmailFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user email from token")
		return "", primitive.NilObjectID, false
	}

	listID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid list ID format")
		return "", primitive.NilObjectID, false
	}

	return email, listID, true
}

// mapListError translates the shared list service errors to HTTP statuses.
func (h *ListHandler) mapListError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrListNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrListAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realty-backend/internal/domains/savedsearch/model"
	"realty-backend/internal/domains/savedsearch/service"
	"realty-backend/internal/shared/response"
	"realty-backend/pkg/logger"
)

type SavedSearchHandler struct {
	service service.SavedSearchService
}

func NewSavedSearchHandler(s service.SavedSearchService) *SavedSearchHandler {
	return &SavedSearchHandler{service: s}
}

// Save handles POST /saved-searches.
func (h *SavedSearchHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req model.SaveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	search, err := h.service.Save(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Search saved successfully", search)
}

// List handles GET /saved-searches.
func (h *SavedSearchHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	searches, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Saved searches retrieved successfully", searches)
}

// Update handles PUT /saved-searches/:id.
func (h *SavedSearchHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid saved search id")
		return
	}

	var req model.SaveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	search, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Saved search updated successfully", search)
}

// Delete handles DELETE /saved-searches/:id.
func (h *SavedSearchHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid saved search id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Saved search deleted successfully", nil)
}

func (h *SavedSearchHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrSearchNotFound):
		response.NotFound(c, "saved search not found")
	case errors.Is(err, model.ErrNotOwner):
		response.Forbidden(c, "saved search belongs to another user")
	default:
		logger.Error("saved search operation failed", err)
		response.InternalServerError(c, "operation failed")
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		response.Unauthorized(c, "authentication required")
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realty-backend/internal/domains/listing/model"
	"realty-backend/internal/domains/listing/service"
	"realty-backend/internal/shared/response"
	"realty-backend/pkg/logger"
)

type ListingHandler struct {
	service service.ListingService
}

func NewListingHandler(s service.ListingService) *ListingHandler {
	return &ListingHandler{service: s}
}

// Create handles POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req model.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	l, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Listing created successfully", l)
}

// Get handles GET /listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing retrieved successfully", l)
}

// GetBySlug handles GET /listings/slug/:slug.
func (h *ListingHandler) GetBySlug(c *gin.Context) {
	l, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Listing retrieved successfully", l)
}

// Update handles PUT /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return
	}

	var req model.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	l, err := h.service.Update(c.Request.Context(), id, userID, isAdmin(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing updated successfully", l)
}

// Delete handles DELETE /listings/:id.
func (h *ListingHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID, isAdmin(c)); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Listing deleted successfully", nil)
}

// List handles GET /listings with filters and pagination.
func (h *ListingHandler) List(c *gin.Context) {
	f := model.Filter{
		Status:     c.Query("status"),
		LocationID: c.Query("location_id"),
		PriceType:  c.Query("price_type_id"),
		PriceMin:   c.Query("price_min"),
		PriceMax:   c.Query("price_max"),
		Bedrooms:   c.Query("bedrooms"),
		Featured:   c.Query("featured"),
		Search:     c.Query("q"),
		Sort:       c.Query("sort"),
		Page:       intQuery(c, "page", 1),
		Limit:      intQuery(c, "limit", 20),
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Listings retrieved successfully",
		result.Listings, &response.Meta{
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
		})
}

// Search handles GET /listings/search?q=...
func (h *ListingHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "query parameter q is required")
		return
	}

	listings, err := h.service.Search(c.Request.Context(), query, intQuery(c, "limit", 20))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Search results retrieved successfully", listings)
}

// View handles POST /listings/:id/view: an explicit analytics ping
// from clients that render cached pages and never hit GET /:id.
func (h *ListingHandler) View(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.service.RecordView(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "View recorded", nil)
}

// Favorite handles POST /listings/:id/favorite and DELETE of the same.
func (h *ListingHandler) Favorite(c *gin.Context) {
	h.toggleFavorite(c, true)
}

func (h *ListingHandler) Unfavorite(c *gin.Context) {
	h.toggleFavorite(c, false)
}

func (h *ListingHandler) toggleFavorite(c *gin.Context, favorited bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.service.ToggleFavorite(c.Request.Context(), id, favorited); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Favorite updated successfully", nil)
}

func (h *ListingHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrListingNotFound):
		response.NotFound(c, "listing not found")
	case errors.Is(err, model.ErrDuplicateSlug):
		response.Error(c, http.StatusConflict, "a listing with this title already exists")
	case errors.Is(err, model.ErrNotOwner):
		response.Forbidden(c, "you do not own this listing")
	default:
		logger.Error("listing operation failed", err)
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

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	r, _ := role.(string)
	return r == "admin"
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"realty-backend/internal/domains/taxonomy/model"
	"realty-backend/internal/domains/taxonomy/service"
	"realty-backend/internal/shared/response"
	"realty-backend/pkg/logger"
)

type TaxonomyHandler struct {
	service service.TaxonomyService
}

func NewTaxonomyHandler(s service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: s}
}

// kindParam resolves the vocabulary from the route segment.
func kindParam(c *gin.Context) (model.Kind, bool) {
	switch c.Param("kind") {
	case "features":
		return model.KindFeature, true
	case "utilities":
		return model.KindUtility, true
	case "price-types":
		return model.KindPriceType, true
	default:
		response.NotFound(c, "unknown taxonomy")
		return "", false
	}
}

// ListTerms handles GET /taxonomy/:kind.
func (h *TaxonomyHandler) ListTerms(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	terms, err := h.service.ListTerms(c.Request.Context(), kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Terms retrieved successfully", terms)
}

// CreateTerm handles POST /taxonomy/:kind.
func (h *TaxonomyHandler) CreateTerm(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}

	var req model.TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	t, err := h.service.CreateTerm(c.Request.Context(), kind, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Term created successfully", t)
}

// UpdateTerm handles PUT /taxonomy/:kind/:id.
func (h *TaxonomyHandler) UpdateTerm(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid term id")
		return
	}

	var req model.TermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	t, err := h.service.UpdateTerm(c.Request.Context(), kind, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Term updated successfully", t)
}

// DeleteTerm handles DELETE /taxonomy/:kind/:id.
func (h *TaxonomyHandler) DeleteTerm(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid term id")
		return
	}

	if err := h.service.DeleteTerm(c.Request.Context(), kind, id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Term deleted successfully", nil)
}

// ListLocations handles GET /taxonomy/locations.
func (h *TaxonomyHandler) ListLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Locations retrieved successfully", locations)
}

// CreateLocation handles POST /taxonomy/locations.
func (h *TaxonomyHandler) CreateLocation(c *gin.Context) {
	var req model.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	l, err := h.service.CreateLocation(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Location created successfully", l)
}

// UpdateLocation handles PUT /taxonomy/locations/:id.
func (h *TaxonomyHandler) UpdateLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid location id")
		return
	}

	var req model.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.UnprocessableEntity(c, "validation failed", err)
		return
	}

	l, err := h.service.UpdateLocation(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Location updated successfully", l)
}

// DeleteLocation handles DELETE /taxonomy/locations/:id.
func (h *TaxonomyHandler) DeleteLocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid location id")
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Location deleted successfully", nil)
}

// MatchLocations handles GET /taxonomy/locations/match?q=...
func (h *TaxonomyHandler) MatchLocations(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "query parameter q is required")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	matches, err := h.service.MatchLocations(c.Request.Context(), query, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Matches retrieved successfully", matches)
}

func (h *TaxonomyHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrTermNotFound), errors.Is(err, model.ErrLocationNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, model.ErrDuplicateTerm):
		response.Error(c, http.StatusConflict, "a term with this name already exists")
	case errors.Is(err, model.ErrUnknownKind):
		response.NotFound(c, "unknown taxonomy")
	default:
		logger.Error("taxonomy operation failed", err)
		response.InternalServerError(c, "operation failed")
	}
}

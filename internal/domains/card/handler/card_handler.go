package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	card "bizcard-backend/internal/domains/card"
	"bizcard-backend/internal/shared/middleware"
	"bizcard-backend/internal/shared/response"
	"bizcard-backend/internal/shared/utils"
	"bizcard-backend/pkg/occ"
)

// CardHandler handles HTTP requests for the card domain.
// Stateless; only carries dependencies.
type CardHandler struct {
	service card.Service
}

func NewCardHandler(service card.Service) *CardHandler {
	return &CardHandler{service: service}
}

// Create handles POST /cards
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req card.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/cards/"+created.ID.String())
	response.Success(c, http.StatusCreated, created)
}

// List handles GET /cards
func (h *CardHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	cards, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, cards)
}

// Get handles GET /cards/:id
func (h *CardHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid card id")
		return
	}

	got, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, got)
}

// Update handles PUT /cards/:id
func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid card id")
		return
	}

	var req card.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// SetActive handles PATCH /cards/:id/active
func (h *CardHandler) SetActive(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid card id")
		return
	}

	var req card.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	updated, err := h.service.SetActive(c.Request.Context(), id, userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /cards/:id
func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid card id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// View handles GET /c/:slug, the anonymous public card page.
func (h *CardHandler) View(c *gin.Context) {
	slug := c.Param("slug")
	if !utils.IsValidSlug(slug) {
		response.NotFound(c, "card not found")
		return
	}

	view := card.ViewContext{
		IPAddress: middleware.GetClientIPFromContext(c.Request.Context()),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}

	public, err := h.service.ViewBySlug(c.Request.Context(), slug, view)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, public)
}

// handleError maps domain errors to HTTP status codes
func (h *CardHandler) handleError(c *gin.Context, err error) {
	if ce, ok := occ.AsConflict(err); ok {
		response.VersionConflict(c, ce.CurrentVersion, ce.Error())
		return
	}

	switch {
	case errors.Is(err, card.ErrCardNotFound), errors.Is(err, occ.ErrNotFound):
		response.NotFound(c, "card not found")
	case errors.Is(err, card.ErrSlugTaken):
		response.Conflict(c, "could not reserve a unique link for this card name")
	case errors.Is(err, card.ErrInvalidName):
		response.BadRequest(c, "card name must contain letters or digits")
	default:
		response.InternalServerError(c, "something went wrong, please try again")
	}
}

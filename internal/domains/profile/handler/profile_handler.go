package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profile "bizcard-backend/internal/domains/profile"
	"bizcard-backend/internal/shared/middleware"
	"bizcard-backend/internal/shared/response"
	"bizcard-backend/pkg/occ"
)

// ProfileHandler handles HTTP requests for profile sections.
// Stateless; only carries dependencies.
type ProfileHandler struct {
	service profile.Service
}

func NewProfileHandler(service profile.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, p)
}

// SavePersonalInfo handles PUT /profile/personal
func (h *ProfileHandler) SavePersonalInfo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req profile.SavePersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	info, err := h.service.SavePersonalInfo(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, info)
}

// SaveProfessionalInfo handles PUT /profile/professional
func (h *ProfileHandler) SaveProfessionalInfo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req profile.SaveProfessionalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	entry, err := h.service.SaveProfessionalInfo(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if req.ID == nil {
		status = http.StatusCreated
	}
	response.Success(c, status, entry)
}

// DeleteProfessionalInfo handles DELETE /profile/professional/:id
func (h *ProfileHandler) DeleteProfessionalInfo(c *gin.Context) {
	h.deleteEntry(c, h.service.DeleteProfessionalInfo)
}

// SaveEducation handles PUT /profile/education
func (h *ProfileHandler) SaveEducation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req profile.SaveEducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	entry, err := h.service.SaveEducation(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if req.ID == nil {
		status = http.StatusCreated
	}
	response.Success(c, status, entry)
}

// DeleteEducation handles DELETE /profile/education/:id
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	h.deleteEntry(c, h.service.DeleteEducation)
}

// SaveAward handles PUT /profile/awards
func (h *ProfileHandler) SaveAward(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req profile.SaveAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	entry, err := h.service.SaveAward(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if req.ID == nil {
		status = http.StatusCreated
	}
	response.Success(c, status, entry)
}

// DeleteAward handles DELETE /profile/awards/:id
func (h *ProfileHandler) DeleteAward(c *gin.Context) {
	h.deleteEntry(c, h.service.DeleteAward)
}

// SaveProductService handles PUT /profile/products
func (h *ProfileHandler) SaveProductService(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req profile.SaveProductServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "validation failed", err)
		return
	}

	entry, err := h.service.SaveProductService(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if req.ID == nil {
		status = http.StatusCreated
	}
	response.Success(c, status, entry)
}

// DeleteProductService handles DELETE /profile/products/:id
func (h *ProfileHandler) DeleteProductService(c *gin.Context) {
	h.deleteEntry(c, h.service.DeleteProductService)
}

func (h *ProfileHandler) deleteEntry(c *gin.Context, del func(ctx context.Context, id, userID uuid.UUID) error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid entry id")
		return
	}

	if err := del(c.Request.Context(), id, userID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// handleError maps domain errors to HTTP status codes
func (h *ProfileHandler) handleError(c *gin.Context, err error) {
	if ce, ok := occ.AsConflict(err); ok {
		response.VersionConflict(c, ce.CurrentVersion, ce.Error())
		return
	}

	switch {
	case errors.Is(err, profile.ErrSectionNotFound), errors.Is(err, occ.ErrNotFound):
		response.NotFound(c, "profile section not found")
	case errors.Is(err, profile.ErrInvalidYear):
		response.BadRequest(c, "end year cannot precede start year")
	default:
		response.InternalServerError(c, "something went wrong, please try again")
	}
}

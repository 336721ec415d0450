package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizcard-backend/internal/domains/analytics"
	"bizcard-backend/internal/shared/middleware"
	"bizcard-backend/internal/shared/response"
)

// AnalyticsHandler handles HTTP requests for the analytics domain.
// Stateless; only carries dependencies.
type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary handles GET /analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		response.InternalServerError(c, "something went wrong, please try again")
		return
	}

	response.Success(c, http.StatusOK, summary)
}

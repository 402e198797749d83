package handler

import (
	"net/http"

	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/usecase/connection"
	"github.com/campuslink24/campuslink-backend/internal/usecase/nearby"
	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	connectionManager *connection.Manager
}

func NewLocationHandler(connectionManager *connection.Manager) *LocationHandler {
	return &LocationHandler{
		connectionManager: connectionManager,
	}
}

// ReportLocationRequest is a location ping from the client
type ReportLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	IsActive  *bool    `json:"is_active"`
}

// ReportLocationResponse returns the stored ping and discovered neighbors
type ReportLocationResponse struct {
	Ping   *domain.LocationPing `json:"ping"`
	Nearby []nearby.NearbyUser  `json:"nearby"`
}

// Report stores a location ping and creates pending connections to nearby users
// @Summary Report location
// @Description Store a location ping; nearby active users get pending connections
// @Tags location
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ReportLocationRequest true "Coordinates"
// @Success 200 {object} ReportLocationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /location [post]
func (h *LocationHandler) Report(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ReportLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	ping, neighbors, err := h.connectionManager.ReportLocation(
		c.Request.Context(), userID, *req.Latitude, *req.Longitude, isActive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to report location",
		})
		return
	}

	if neighbors == nil {
		neighbors = []nearby.NearbyUser{}
	}
	c.JSON(http.StatusOK, ReportLocationResponse{
		Ping:   ping,
		Nearby: neighbors,
	})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/usecase/connection"
	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connectionManager *connection.Manager
}

func NewConnectionHandler(connectionManager *connection.Manager) *ConnectionHandler {
	return &ConnectionHandler{
		connectionManager: connectionManager,
	}
}

// CreateConnectionRequest asks for a pending connection to another user
type CreateConnectionRequest struct {
	UserID int `json:"user_id" binding:"required"`
}

// Create opens a pending connection between the caller and another user
// @Summary Create connection
// @Description Create a pending connection; an existing active one is returned instead
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateConnectionRequest true "Target user"
// @Success 201 {object} domain.Connection
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /connections [post]
func (h *ConnectionHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	conn, err := h.connectionManager.Create(c.Request.Context(), userID, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPair) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "cannot connect a user with themselves",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to create connection",
		})
		return
	}

	c.JSON(http.StatusCreated, conn)
}

// StatusRequest carries the caller's answer to a pending connection
type StatusRequest struct {
	Status domain.ConnectionStatus `json:"status" binding:"required,oneof=ACCEPTED DECLINED"`
}

// SetStatus accepts or declines a pending connection
// @Summary Answer connection
// @Description Set the caller's side of a pending connection to ACCEPTED or DECLINED
// @Tags connections
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Connection ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} domain.Connection
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /connections/{id}/status [put]
func (h *ConnectionHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	connectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid connection id",
		})
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "status must be ACCEPTED or DECLINED",
		})
		return
	}

	conn, err := h.connectionManager.SetStatus(c.Request.Context(), connectionID, userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "connection not found",
			})
		case errors.Is(err, domain.ErrNotAParty):
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error: "not a party to this connection",
			})
		case errors.Is(err, domain.ErrInvalidStatusTransition):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: "connection already answered",
			})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "status must be ACCEPTED or DECLINED",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to update connection",
			})
		}
		return
	}

	c.JSON(http.StatusOK, conn)
}

// ListPending returns connections awaiting the caller's answer
// @Summary List pending connections
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Connection
// @Failure 401 {object} ErrorResponse
// @Router /connections/pending [get]
func (h *ConnectionHandler) ListPending(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	conns, err := h.connectionManager.ListPending(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list connections",
		})
		return
	}
	if conns == nil {
		conns = []*domain.Connection{}
	}

	c.JSON(http.StatusOK, conns)
}

// ListMutual returns the caller's mutually accepted connections
// @Summary List mutual connections
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Connection
// @Failure 401 {object} ErrorResponse
// @Router /connections/mutual [get]
func (h *ConnectionHandler) ListMutual(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	conns, err := h.connectionManager.ListMutual(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list connections",
		})
		return
	}
	if conns == nil {
		conns = []*domain.Connection{}
	}

	c.JSON(http.StatusOK, conns)
}

// SweepResponse reports how many connections a sweep expired
type SweepResponse struct {
	Expired int64 `json:"expired"`
}

// Sweep marks all overdue pending connections as expired
// @Summary Sweep expired connections
// @Description Bulk-expire connections whose TTL passed without mutual acceptance
// @Tags connections
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SweepResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /connections/sweep [post]
func (h *ConnectionHandler) Sweep(c *gin.Context) {
	count, err := h.connectionManager.SweepExpired(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "sweep failed",
		})
		return
	}

	c.JSON(http.StatusOK, SweepResponse{Expired: count})
}

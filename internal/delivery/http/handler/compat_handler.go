package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/usecase/compat"
	"github.com/gin-gonic/gin"
)

type CompatHandler struct {
	scorer *compat.Scorer
}

func NewCompatHandler(scorer *compat.Scorer) *CompatHandler {
	return &CompatHandler{
		scorer: scorer,
	}
}

// Score computes the compatibility breakdown against another user
// @Summary Compatibility score
// @Description Compute the friendship score breakdown between the caller and another user
// @Tags compatibility
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "Other user ID"
// @Success 200 {object} compat.ScoreBreakdown
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /compatibility/{user_id} [get]
func (h *CompatHandler) Score(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user id",
		})
		return
	}
	if otherID == userID {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "cannot score against yourself",
		})
		return
	}

	breakdown, err := h.scorer.FriendshipScore(c.Request.Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: "no common answered questions",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to compute score",
		})
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/usecase/auth"
	"github.com/campuslink24/campuslink-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
	authUseCase    *auth.AuthUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase, authUseCase *auth.AuthUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
		authUseCase:    authUseCase,
	}
}

// OnboardResponse bundles the created user, profile and initial tokens
type OnboardResponse struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile"`
	Tokens  TokenResponse   `json:"tokens"`
}

// Onboard registers a new user with profile and questionnaire answers
// @Summary Onboard
// @Description Create user, profile, relations and personality answers in one call
// @Tags profile
// @Accept json
// @Produce json
// @Param request body profile.OnboardRequest true "Onboarding payload"
// @Success 201 {object} OnboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /onboarding [post]
func (h *ProfileHandler) Onboard(c *gin.Context) {
	var req profile.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	user, prof, err := h.profileUseCase.Onboard(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: "email already registered",
			})
		case errors.Is(err, domain.ErrFavoriteNotTaken):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "favorite courses must be among courses taking",
			})
		case errors.Is(err, domain.ErrQuestionNotFound):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "unknown question id",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "onboarding failed",
			})
		}
		return
	}

	tokens, err := h.authUseCase.IssueTokens(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to issue tokens",
		})
		return
	}

	c.JSON(http.StatusCreated, OnboardResponse{
		User:    user,
		Profile: prof,
		Tokens: TokenResponse{
			AccessToken:  tokens.AccessToken,
			RefreshToken: tokens.RefreshToken,
			ExpiresAt:    tokens.ExpiresAt.Unix(),
		},
	})
}

// GetMyProfile returns the caller's profile
// @Summary Get my profile
// @Description Get the authenticated user's profile, provisioning one if absent
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	prof, err := h.profileUseCase.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load profile",
		})
		return
	}

	c.JSON(http.StatusOK, prof)
}

// UpdateMyProfile updates the caller's profile
// @Summary Update my profile
// @Description Update profile fields; provided relation lists replace the whole set
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req profile.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	prof, err := h.profileUseCase.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrFavoriteNotTaken) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "favorite courses must be among courses taking",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to update profile",
		})
		return
	}

	c.JSON(http.StatusOK, prof)
}

// GetProfileByUserID returns another user's profile
// @Summary Get profile by user ID
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profile/{user_id} [get]
func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user id",
		})
		return
	}

	prof, err := h.profileUseCase.GetProfileByUserID(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "profile not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load profile",
		})
		return
	}

	c.JSON(http.StatusOK, prof)
}

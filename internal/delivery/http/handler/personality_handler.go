package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campuslink24/campuslink-backend/internal/delivery/http/middleware"
	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/usecase/personality"
	"github.com/gin-gonic/gin"
)

type PersonalityHandler struct {
	personalityUseCase *personality.PersonalityUseCase
}

func NewPersonalityHandler(personalityUseCase *personality.PersonalityUseCase) *PersonalityHandler {
	return &PersonalityHandler{
		personalityUseCase: personalityUseCase,
	}
}

// GetQuestions returns the questionnaire
// @Summary List questions
// @Description Get all personality questions in display order
// @Tags personality
// @Produce json
// @Success 200 {array} domain.PersonalityQuestion
// @Failure 500 {object} ErrorResponse
// @Router /personality/questions [get]
func (h *PersonalityHandler) GetQuestions(c *gin.Context) {
	questions, err := h.personalityUseCase.GetQuestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to load questions",
		})
		return
	}

	c.JSON(http.StatusOK, questions)
}

// SubmitAnswersRequest carries questionnaire answers
type SubmitAnswersRequest struct {
	Answers []personality.AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// SubmitAnswers stores the caller's questionnaire answers
// @Summary Submit answers
// @Description Upsert questionnaire answers; resubmitting a question overwrites it
// @Tags personality
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body SubmitAnswersRequest true "Answers"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /personality/submit [post]
func (h *PersonalityHandler) SubmitAnswers(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	if err := h.personalityUseCase.SubmitAnswers(c.Request.Context(), userID, req.Answers); err != nil {
		switch {
		case errors.Is(err, domain.ErrQuestionNotFound):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "unknown question id",
			})
		case errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "profile not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "failed to save answers",
			})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "answers saved",
	})
}

// GetMyResults returns the caller's described results
// @Summary Get my results
// @Description Compute the caller's domain/facet results with descriptions
// @Tags personality
// @Security BearerAuth
// @Produce json
// @Success 200 {object} personality.TextResults
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /personality/my-results [get]
func (h *PersonalityHandler) GetMyResults(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	results, err := h.personalityUseCase.GetTextResults(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to compute results",
		})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetUserResults returns another user's raw aggregated results
// @Summary Get user results
// @Tags personality
// @Security BearerAuth
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} personality.Results
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /personality/user/{user_id} [get]
func (h *PersonalityHandler) GetUserResults(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid user id",
		})
		return
	}

	results, err := h.personalityUseCase.GetResults(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to compute results",
		})
		return
	}

	c.JSON(http.StatusOK, results)
}

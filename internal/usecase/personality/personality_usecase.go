package personality

import (
	"context"
	"errors"
	"fmt"

	core "github.com/campuslink24/campuslink-backend/internal/personality"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
)

// PersonalityUseCase serves the questionnaire: listing questions, accepting
// answers and computing described results on demand.
type PersonalityUseCase struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	profileRepo  repository.ProfileRepository
	definitions  []core.DomainDefinition
}

func NewPersonalityUseCase(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	profileRepo repository.ProfileRepository,
	definitions []core.DomainDefinition,
) *PersonalityUseCase {
	return &PersonalityUseCase{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		profileRepo:  profileRepo,
		definitions:  definitions,
	}
}

func (uc *PersonalityUseCase) GetQuestions(ctx context.Context) ([]*domain.PersonalityQuestion, error) {
	return uc.questionRepo.List(ctx)
}

// AnswerInput is one submitted questionnaire answer.
type AnswerInput struct {
	QuestionID int `json:"question_id" binding:"required"`
	Score      int `json:"answer_score" binding:"required,min=1,max=5"`
}

// SubmitAnswers upserts the caller's answers. Resubmitting a question
// overwrites the previous answer.
func (uc *PersonalityUseCase) SubmitAnswers(ctx context.Context, userID int, inputs []AnswerInput) error {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	questions, err := uc.questionRepo.MapByID(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}

	answers := make([]domain.PersonalityAnswer, 0, len(inputs))
	for _, in := range inputs {
		if _, ok := questions[in.QuestionID]; !ok {
			return fmt.Errorf("%w: id %d", domain.ErrQuestionNotFound, in.QuestionID)
		}
		answers = append(answers, domain.PersonalityAnswer{
			ProfileID:  profile.ID,
			QuestionID: in.QuestionID,
			Score:      in.Score,
		})
	}
	return uc.answerRepo.BulkUpsert(ctx, profile.ID, answers)
}

// GetResults computes the caller's aggregated domain/facet results from
// their stored answers. Results are recomputed per request, never persisted.
func (uc *PersonalityUseCase) GetResults(ctx context.Context, userID int) (core.Results, error) {
	scored, err := uc.scoredAnswers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.Aggregate(scored), nil
}

// GetTextResults computes results and joins them with the questionnaire
// definition into human-readable descriptions.
func (uc *PersonalityUseCase) GetTextResults(ctx context.Context, userID int) (core.TextResults, error) {
	results, err := uc.GetResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.Describe(results, uc.definitions), nil
}

func (uc *PersonalityUseCase) scoredAnswers(ctx context.Context, userID int) ([]core.Answer, error) {
	answers, err := uc.answerRepo.ListByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	questions, err := uc.questionRepo.MapByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return core.ScoreAnswers(answers, questions), nil
}

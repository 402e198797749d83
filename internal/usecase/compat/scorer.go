// Package compat computes the pairwise friendship score from personality
// distance, shared-interest overlap and trait-flag heuristics.
package compat

import (
	"context"
	"fmt"
	"math"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/personality"
	"github.com/campuslink24/campuslink-backend/internal/repository"
)

// Weights of the combined formula. These are a contract: distance dominates
// by design.
const (
	distanceWeight   = 1.5
	overlapCap       = 5
	overlapDampening = 2.0
)

type Scorer struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	profileRepo  repository.ProfileRepository
	threshold    float64
}

func NewScorer(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
	profileRepo repository.ProfileRepository,
	recommendThreshold float64,
) *Scorer {
	return &Scorer{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		profileRepo:  profileRepo,
		threshold:    recommendThreshold,
	}
}

// ScoreBreakdown is the result of a pairwise compatibility computation.
type ScoreBreakdown struct {
	DistanceScore   float64 `json:"distance_score"`
	OverlapScore    float64 `json:"overlap_score"`
	FlagScore       float64 `json:"flag_score"`
	FriendshipScore float64 `json:"friendship_score"`
	Recommended     bool    `json:"recommended"`
}

// FriendshipScore computes the combined score for two users. Returns
// domain.ErrInsufficientData when the users share no answered questions.
func (s *Scorer) FriendshipScore(ctx context.Context, userA, userB int) (*ScoreBreakdown, error) {
	answersA, err := s.answerRepo.ListByUser(ctx, userA)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for user %d: %w", userA, err)
	}
	answersB, err := s.answerRepo.ListByUser(ctx, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for user %d: %w", userB, err)
	}

	distScore, err := distanceScore(answersA, answersB)
	if err != nil {
		return nil, err
	}

	overlap, err := s.overlapScore(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.MapByID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	resultsA := personality.Aggregate(personality.ScoreAnswers(answersA, questions))
	resultsB := personality.Aggregate(personality.ScoreAnswers(answersB, questions))
	flag := FlagScore(resultsA, resultsB)

	friendship := Combine(distScore, flag, overlap)

	return &ScoreBreakdown{
		DistanceScore:   distScore,
		OverlapScore:    overlap,
		FlagScore:       flag,
		FriendshipScore: friendship,
		Recommended:     friendship > s.threshold,
	}, nil
}

// Combine applies the weighted combination formula.
func Combine(distScore, flagScore, overlapScore float64) float64 {
	return (distScore*distanceWeight + flagScore) * (1 + overlapScore/overlapDampening)
}

// distanceScore maps the per-question RMSE over commonly answered questions
// to a bounded similarity in (0, 1]. Identical answers score 1.0.
func distanceScore(answersA, answersB []domain.PersonalityAnswer) (float64, error) {
	byQuestionA := make(map[int]int, len(answersA))
	for _, a := range answersA {
		byQuestionA[a.QuestionID] = a.Score
	}

	var sumSquares float64
	var common int
	for _, b := range answersB {
		scoreA, ok := byQuestionA[b.QuestionID]
		if !ok {
			continue
		}
		diff := float64(scoreA - b.Score)
		sumSquares += diff * diff
		common++
	}

	if common == 0 {
		return 0, domain.ErrInsufficientData
	}

	rmse := math.Sqrt(sumSquares) / float64(common)
	// 1/(1+rmse) is bounded and monotonic; the 1/(1-rmse) variant diverges
	// as rmse approaches 1.
	return 1 / (1 + rmse), nil
}

// overlapScore counts shared interests and clubs, capped at 5, normalized
// to [0,1].
func (s *Scorer) overlapScore(ctx context.Context, userA, userB int) (float64, error) {
	interestsA, err := s.profileRepo.InterestIDs(ctx, userA)
	if err != nil {
		return 0, err
	}
	interestsB, err := s.profileRepo.InterestIDs(ctx, userB)
	if err != nil {
		return 0, err
	}
	clubsA, err := s.profileRepo.ClubIDs(ctx, userA)
	if err != nil {
		return 0, err
	}
	clubsB, err := s.profileRepo.ClubIDs(ctx, userB)
	if err != nil {
		return 0, err
	}

	return OverlapScore(interestsA, interestsB, clubsA, clubsB), nil
}

// OverlapScore is the pure overlap computation, exposed for callers that
// already hold the ID sets.
func OverlapScore(interestsA, interestsB, clubsA, clubsB []int) float64 {
	shared := intersectCount(interestsA, interestsB) + intersectCount(clubsA, clubsB)
	if shared > overlapCap {
		shared = overlapCap
	}
	return float64(shared) / overlapCap
}

func intersectCount(a, b []int) int {
	set := make(map[int]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	count := 0
	for _, id := range b {
		if _, ok := set[id]; ok {
			count++
			delete(set, id)
		}
	}
	return count
}

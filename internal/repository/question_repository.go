package repository

import (
	"context"

	"github.com/campuslink24/campuslink-backend/internal/domain"
)

type QuestionRepository interface {
	List(ctx context.Context) ([]*domain.PersonalityQuestion, error)
	GetByID(ctx context.Context, id int) (*domain.PersonalityQuestion, error)
	MapByID(ctx context.Context) (map[int]domain.PersonalityQuestion, error)
}

type AnswerRepository interface {
	// BulkUpsert inserts answers, overwriting any existing answer for the
	// same (profile, question) pair.
	BulkUpsert(ctx context.Context, profileID int, answers []domain.PersonalityAnswer) error
	ListByProfile(ctx context.Context, profileID int) ([]domain.PersonalityAnswer, error)
	ListByUser(ctx context.Context, userID int) ([]domain.PersonalityAnswer, error)
}

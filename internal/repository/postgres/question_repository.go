package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type questionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) repository.QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context) ([]*domain.PersonalityQuestion, error) {
	var questions []*domain.PersonalityQuestion
	query := `SELECT * FROM personality_questions ORDER BY display_order`
	err := r.db.SelectContext(ctx, &questions, query)
	return questions, err
}

func (r *questionRepository) GetByID(ctx context.Context, id int) (*domain.PersonalityQuestion, error) {
	var question domain.PersonalityQuestion
	query := `SELECT * FROM personality_questions WHERE id = $1`
	err := r.db.GetContext(ctx, &question, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) MapByID(ctx context.Context) (map[int]domain.PersonalityQuestion, error) {
	questions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]domain.PersonalityQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = *q
	}
	return byID, nil
}

type answerRepository struct {
	db *sqlx.DB
}

func NewAnswerRepository(db *sqlx.DB) repository.AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) BulkUpsert(ctx context.Context, profileID int, answers []domain.PersonalityAnswer) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO personality_answers (profile_id, question_id, answer_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id, question_id)
		DO UPDATE SET answer_score = EXCLUDED.answer_score
	`
	for _, a := range answers {
		if _, err := tx.ExecContext(ctx, query, profileID, a.QuestionID, a.Score); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *answerRepository) ListByProfile(ctx context.Context, profileID int) ([]domain.PersonalityAnswer, error) {
	var answers []domain.PersonalityAnswer
	query := `SELECT * FROM personality_answers WHERE profile_id = $1`
	err := r.db.SelectContext(ctx, &answers, query, profileID)
	return answers, err
}

func (r *answerRepository) ListByUser(ctx context.Context, userID int) ([]domain.PersonalityAnswer, error) {
	var answers []domain.PersonalityAnswer
	query := `
		SELECT a.* FROM personality_answers a
		JOIN profiles p ON p.id = a.profile_id
		WHERE p.user_id = $1
	`
	err := r.db.SelectContext(ctx, &answers, query, userID)
	return answers, err
}

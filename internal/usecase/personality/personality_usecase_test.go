package personality

import (
	"context"
	"testing"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	core "github.com/campuslink24/campuslink-backend/internal/personality"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuestionRepo struct {
	questions map[int]domain.PersonalityQuestion
}

func (f *fakeQuestionRepo) List(ctx context.Context) ([]*domain.PersonalityQuestion, error) {
	out := make([]*domain.PersonalityQuestion, 0, len(f.questions))
	for id := 1; id <= len(f.questions); id++ {
		q := f.questions[id]
		out = append(out, &q)
	}
	return out, nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id int) (*domain.PersonalityQuestion, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (f *fakeQuestionRepo) MapByID(ctx context.Context) (map[int]domain.PersonalityQuestion, error) {
	return f.questions, nil
}

type fakeAnswerRepo struct {
	byProfile map[int][]domain.PersonalityAnswer
	userOf    map[int]int // profileID -> userID
}

func (f *fakeAnswerRepo) BulkUpsert(ctx context.Context, profileID int, answers []domain.PersonalityAnswer) error {
	existing := f.byProfile[profileID]
	for _, in := range answers {
		replaced := false
		for i, prev := range existing {
			if prev.QuestionID == in.QuestionID {
				existing[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, in)
		}
	}
	f.byProfile[profileID] = existing
	return nil
}

func (f *fakeAnswerRepo) ListByProfile(ctx context.Context, profileID int) ([]domain.PersonalityAnswer, error) {
	return f.byProfile[profileID], nil
}

func (f *fakeAnswerRepo) ListByUser(ctx context.Context, userID int) ([]domain.PersonalityAnswer, error) {
	for profileID, owner := range f.userOf {
		if owner == userID {
			return f.byProfile[profileID], nil
		}
	}
	return nil, nil
}

type fakeProfileRepo struct {
	byUser map[int]*domain.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfileRepo) GetByID(ctx context.Context, id int) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}
func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID int) (*domain.Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}
func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error        { return nil }
func (f *fakeProfileRepo) Delete(ctx context.Context, id int) error                   { return nil }
func (f *fakeProfileRepo) LoadRelations(ctx context.Context, p *domain.Profile) error { return nil }
func (f *fakeProfileRepo) ReplaceRelations(ctx context.Context, profileID int, rels *repository.ProfileRelations) error {
	return nil
}
func (f *fakeProfileRepo) InterestIDs(ctx context.Context, userID int) ([]int, error) {
	return nil, nil
}
func (f *fakeProfileRepo) ClubIDs(ctx context.Context, userID int) ([]int, error) { return nil, nil }

func newTestUseCase() (*PersonalityUseCase, *fakeAnswerRepo) {
	questions := map[int]domain.PersonalityQuestion{
		1: {ID: 1, Domain: "E", Facet: "1"},
		2: {ID: 2, Domain: "E", Facet: "1"},
		3: {ID: 3, Domain: "N", Facet: "2", ReverseScale: true},
	}
	answers := &fakeAnswerRepo{
		byProfile: make(map[int][]domain.PersonalityAnswer),
		userOf:    map[int]int{10: 1},
	}
	profiles := &fakeProfileRepo{byUser: map[int]*domain.Profile{
		1: {ID: 10, UserID: 1},
	}}
	defs := []core.DomainDefinition{
		{
			Domain:           "E",
			Title:            "Extraversion",
			ShortDescription: "d",
			Facets:           []core.FacetDefinition{{Title: "Friendliness", Text: "t"}},
			Results: []core.ResultText{
				{Score: core.CategoryHigh, Text: "high text"},
				{Score: core.CategoryNeutral, Text: "neutral text"},
				{Score: core.CategoryLow, Text: "low text"},
			},
		},
	}
	uc := NewPersonalityUseCase(&fakeQuestionRepo{questions: questions}, answers, profiles, defs)
	return uc, answers
}

func TestSubmitAnswersUpserts(t *testing.T) {
	uc, answers := newTestUseCase()
	ctx := context.Background()

	err := uc.SubmitAnswers(ctx, 1, []AnswerInput{
		{QuestionID: 1, Score: 2},
		{QuestionID: 2, Score: 4},
	})
	require.NoError(t, err)
	require.Len(t, answers.byProfile[10], 2)

	// Resubmitting question 1 overwrites, not duplicates.
	err = uc.SubmitAnswers(ctx, 1, []AnswerInput{{QuestionID: 1, Score: 5}})
	require.NoError(t, err)
	require.Len(t, answers.byProfile[10], 2)
	assert.Equal(t, 5, answers.byProfile[10][0].Score)
}

func TestSubmitAnswersUnknownQuestion(t *testing.T) {
	uc, _ := newTestUseCase()
	err := uc.SubmitAnswers(context.Background(), 1, []AnswerInput{{QuestionID: 44, Score: 3}})
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
}

func TestSubmitAnswersNoProfile(t *testing.T) {
	uc, _ := newTestUseCase()
	err := uc.SubmitAnswers(context.Background(), 99, []AnswerInput{{QuestionID: 1, Score: 3}})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestGetResultsAppliesReverseScaling(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	require.NoError(t, uc.SubmitAnswers(ctx, 1, []AnswerInput{
		{QuestionID: 1, Score: 4},
		{QuestionID: 2, Score: 5},
		{QuestionID: 3, Score: 1}, // reverse-keyed, counts as 5
	}))

	results, err := uc.GetResults(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, core.CategoryHigh, results["E"].Result)
	assert.Equal(t, 5.0, results["N"].Score)
	assert.Equal(t, core.CategoryHigh, results["N"].Result)
}

func TestGetTextResultsSkipsUndefinedDomains(t *testing.T) {
	uc, _ := newTestUseCase()
	ctx := context.Background()

	require.NoError(t, uc.SubmitAnswers(ctx, 1, []AnswerInput{
		{QuestionID: 1, Score: 5},
		{QuestionID: 3, Score: 3},
	}))

	text, err := uc.GetTextResults(ctx, 1)
	require.NoError(t, err)

	// Only "E" has a definition; "N" is silently dropped.
	require.Contains(t, text, "E")
	assert.NotContains(t, text, "N")
	assert.Equal(t, "high text", text["E"].ResultText)
	assert.Equal(t, "Friendliness", text["E"].Facets[1].Title)
}

func TestGetQuestions(t *testing.T) {
	uc, _ := newTestUseCase()
	questions, err := uc.GetQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

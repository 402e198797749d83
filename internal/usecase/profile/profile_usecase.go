package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type ProfileUseCase struct {
	userRepo     repository.UserRepository
	profileRepo  repository.ProfileRepository
	refRepo      repository.ReferenceRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
}

func NewProfileUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	refRepo repository.ReferenceRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		refRepo:      refRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

// AnswerInput is one questionnaire answer submitted at onboarding.
type AnswerInput struct {
	QuestionID int `json:"question_id" binding:"required"`
	Score      int `json:"answer_score" binding:"required,min=1,max=5"`
}

// OnboardRequest creates a user, their profile, resolved relations and
// personality answers in one call.
type OnboardRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	FirstName     string  `json:"first_name" binding:"omitempty,max=150"`
	LastName      string  `json:"last_name" binding:"omitempty,max=150"`
	PreferredName *string `json:"preferred_name" binding:"omitempty,max=150"`

	YearInSchool *domain.AcademicYear `json:"year_in_school" binding:"omitempty,academicyear"`
	Department   string               `json:"department" binding:"omitempty,max=100"`
	Socials      domain.Socials       `json:"socials"`

	Majors          []string `json:"majors"`
	Minors          []string `json:"minors"`
	Interests       []string `json:"interests"`
	CoursesTaking   []string `json:"courses_taking"`
	FavoriteCourses []string `json:"favorite_courses"`
	Clubs           []string `json:"clubs"`

	PersonalityAnswers []AnswerInput `json:"personality_answers" binding:"required,min=1,dive"`
}

// Onboard registers a new user with profile, relations and answers.
func (uc *ProfileUseCase) Onboard(ctx context.Context, req *OnboardRequest) (*domain.User, *domain.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:         req.Email,
		PasswordHash:  string(hash),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PreferredName: req.PreferredName,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	profile := &domain.Profile{
		UserID:       user.ID,
		YearInSchool: req.YearInSchool,
		Department:   req.Department,
		Socials:      req.Socials,
	}
	if profile.Socials == nil {
		profile.Socials = domain.Socials{}
	}
	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create profile: %w", err)
	}

	rels, err := uc.resolveRelations(ctx, req.Majors, req.Minors, req.Interests,
		req.CoursesTaking, req.FavoriteCourses, req.Clubs)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.profileRepo.ReplaceRelations(ctx, profile.ID, rels); err != nil {
		return nil, nil, fmt.Errorf("failed to set profile relations: %w", err)
	}

	if err := uc.submitAnswers(ctx, profile.ID, req.PersonalityAnswers); err != nil {
		return nil, nil, err
	}

	if err := uc.profileRepo.LoadRelations(ctx, profile); err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// GetMyProfile fetches the caller's profile, provisioning an empty one if
// the user exists without a profile yet.
func (uc *ProfileUseCase) GetMyProfile(ctx context.Context, userID int) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = &domain.Profile{UserID: userID, Socials: domain.Socials{}}
		if err := uc.profileRepo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to provision profile: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	if err := uc.profileRepo.LoadRelations(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfileRequest updates the caller's profile. Relation lists use
// replace semantics: a provided list replaces the whole set, an absent one
// is kept as is.
type UpdateProfileRequest struct {
	YearInSchool *domain.AcademicYear `json:"year_in_school" binding:"omitempty,academicyear"`
	Department   *string              `json:"department" binding:"omitempty,max=100"`
	Socials      *domain.Socials      `json:"socials"`

	Majors          *[]string `json:"majors"`
	Minors          *[]string `json:"minors"`
	Interests       *[]string `json:"interests"`
	CoursesTaking   *[]string `json:"courses_taking"`
	FavoriteCourses *[]string `json:"favorite_courses"`
	Clubs           *[]string `json:"clubs"`
}

func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, userID int, req *UpdateProfileRequest) (*domain.Profile, error) {
	profile, err := uc.GetMyProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.YearInSchool != nil {
		profile.YearInSchool = req.YearInSchool
	}
	if req.Department != nil {
		profile.Department = *req.Department
	}
	if req.Socials != nil {
		profile.Socials = *req.Socials
	}
	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	// Merge provided lists over the current sets before replacing.
	pick := func(override *[]string, current []domain.ReferenceEntity) []string {
		if override != nil {
			return *override
		}
		names := make([]string, 0, len(current))
		for _, e := range current {
			names = append(names, e.Name)
		}
		return names
	}
	pickCourses := func(override *[]string, current []domain.Course) []string {
		if override != nil {
			return *override
		}
		names := make([]string, 0, len(current))
		for _, c := range current {
			names = append(names, c.Name)
		}
		return names
	}

	rels, err := uc.resolveRelations(ctx,
		pick(req.Majors, profile.Majors),
		pick(req.Minors, profile.Minors),
		pick(req.Interests, profile.Interests),
		pickCourses(req.CoursesTaking, profile.CoursesTaking),
		pickCourses(req.FavoriteCourses, profile.FavoriteCourses),
		pick(req.Clubs, profile.Clubs),
	)
	if err != nil {
		return nil, err
	}
	if err := uc.profileRepo.ReplaceRelations(ctx, profile.ID, rels); err != nil {
		return nil, fmt.Errorf("failed to update profile relations: %w", err)
	}

	if err := uc.profileRepo.LoadRelations(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProfileByUserID returns another user's profile with relations loaded.
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, userID int) (*domain.Profile, error) {
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.profileRepo.LoadRelations(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// resolveRelations upserts every display name through the reference service
// and enforces that favorite courses are a subset of courses taking.
func (uc *ProfileUseCase) resolveRelations(
	ctx context.Context,
	majors, minors, interests, coursesTaking, favoriteCourses, clubs []string,
) (*repository.ProfileRelations, error) {
	resolveRefs := func(kind domain.ReferenceKind, names []string) ([]int, error) {
		ids := make([]int, 0, len(names))
		for _, name := range names {
			entity, err := uc.refRepo.UpsertByName(ctx, kind, name)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve %s %q: %w", kind, name, err)
			}
			ids = append(ids, entity.ID)
		}
		return ids, nil
	}
	resolveCourses := func(names []string) ([]int, error) {
		ids := make([]int, 0, len(names))
		for _, name := range names {
			course, err := uc.refRepo.UpsertCourse(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve course %q: %w", name, err)
			}
			ids = append(ids, course.ID)
		}
		return ids, nil
	}

	rels := &repository.ProfileRelations{}
	var err error
	if rels.MajorIDs, err = resolveRefs(domain.KindMajor, majors); err != nil {
		return nil, err
	}
	if rels.MinorIDs, err = resolveRefs(domain.KindMinor, minors); err != nil {
		return nil, err
	}
	if rels.InterestIDs, err = resolveRefs(domain.KindInterest, interests); err != nil {
		return nil, err
	}
	if rels.ClubIDs, err = resolveRefs(domain.KindClub, clubs); err != nil {
		return nil, err
	}
	if rels.CourseIDs, err = resolveCourses(coursesTaking); err != nil {
		return nil, err
	}
	if rels.FavoriteCourseIDs, err = resolveCourses(favoriteCourses); err != nil {
		return nil, err
	}

	taking := make(map[int]struct{}, len(rels.CourseIDs))
	for _, id := range rels.CourseIDs {
		taking[id] = struct{}{}
	}
	for _, id := range rels.FavoriteCourseIDs {
		if _, ok := taking[id]; !ok {
			return nil, domain.ErrFavoriteNotTaken
		}
	}

	return rels, nil
}

func (uc *ProfileUseCase) submitAnswers(ctx context.Context, profileID int, inputs []AnswerInput) error {
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
			ProfileID:  profileID,
			QuestionID: in.QuestionID,
			Score:      in.Score,
		})
	}
	return uc.answerRepo.BulkUpsert(ctx, profileID, answers)
}

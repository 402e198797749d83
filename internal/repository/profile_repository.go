package repository

import (
	"context"

	"github.com/campuslink24/campuslink-backend/internal/domain"
)

// ProfileRelations carries the resolved IDs of a profile's set-valued
// relations. Replace semantics: setting a relation replaces the whole set.
type ProfileRelations struct {
	MajorIDs          []int
	MinorIDs          []int
	InterestIDs       []int
	CourseIDs         []int
	FavoriteCourseIDs []int
	ClubIDs           []int
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id int) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID int) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id int) error

	LoadRelations(ctx context.Context, profile *domain.Profile) error
	ReplaceRelations(ctx context.Context, profileID int, rels *ProfileRelations) error

	// InterestIDs and ClubIDs are keyed by user, for pairwise overlap scoring.
	InterestIDs(ctx context.Context, userID int) ([]int, error)
	ClubIDs(ctx context.Context, userID int) ([]int, error)
}

package repository

import (
	"context"

	"github.com/campuslink24/campuslink-backend/internal/domain"
)

// ReferenceRepository manages the shared name-keyed reference tables
// (majors, minors, interests, clubs) and courses. Upserts are idempotent:
// an existing name returns the existing row.
type ReferenceRepository interface {
	UpsertByName(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.ReferenceEntity, error)
	UpsertCourse(ctx context.Context, name string) (*domain.Course, error)
}

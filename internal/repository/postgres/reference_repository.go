package postgres

import (
	"context"
	"fmt"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type referenceRepository struct {
	db *sqlx.DB
}

func NewReferenceRepository(db *sqlx.DB) repository.ReferenceRepository {
	return &referenceRepository{db: db}
}

var refTables = map[domain.ReferenceKind]string{
	domain.KindMajor:    "majors",
	domain.KindMinor:    "minors",
	domain.KindInterest: "interests",
	domain.KindClub:     "clubs",
}

func (r *referenceRepository) UpsertByName(ctx context.Context, kind domain.ReferenceKind, name string) (*domain.ReferenceEntity, error) {
	table, ok := refTables[kind]
	if !ok {
		return nil, domain.ErrReferenceKindUnknown
	}

	// ON CONFLICT ... DO UPDATE is a no-op write that makes RETURNING work
	// for both the insert and the existing-row case.
	query := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, table)

	var entity domain.ReferenceEntity
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&entity.ID, &entity.Name); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *referenceRepository) UpsertCourse(ctx context.Context, name string) (*domain.Course, error) {
	query := `
		INSERT INTO courses (name, department, course_number) VALUES ($1, '', '')
		ON CONFLICT (department, course_number, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, department, course_number
	`
	var course domain.Course
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&course.ID, &course.Name, &course.Department, &course.CourseNumber)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campuslink24/campuslink-backend/internal/domain"
	"github.com/campuslink24/campuslink-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, year_in_school, department, socials)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		profile.UserID, profile.YearInSchool, profile.Department, profile.Socials,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id int) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT * FROM profiles WHERE id = $1`
	err := r.db.GetContext(ctx, &profile, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*domain.Profile, error) {
	var profile domain.Profile
	query := `SELECT * FROM profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET year_in_school = $1, department = $2, socials = $3,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		profile.YearInSchool, profile.Department, profile.Socials, profile.ID,
	).Scan(&profile.UpdatedAt)
}

func (r *profileRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM profiles WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// refLinks maps a reference kind to its link table and value table.
var refLinks = map[domain.ReferenceKind]struct {
	linkTable string
	refTable  string
	refColumn string
}{
	domain.KindMajor:    {"profile_majors", "majors", "major_id"},
	domain.KindMinor:    {"profile_minors", "minors", "minor_id"},
	domain.KindInterest: {"profile_interests", "interests", "interest_id"},
	domain.KindClub:     {"profile_clubs", "clubs", "club_id"},
}

func (r *profileRepository) LoadRelations(ctx context.Context, profile *domain.Profile) error {
	load := func(kind domain.ReferenceKind) ([]domain.ReferenceEntity, error) {
		link := refLinks[kind]
		var entities []domain.ReferenceEntity
		query := fmt.Sprintf(`
			SELECT t.id, t.name FROM %s t
			JOIN %s l ON l.%s = t.id
			WHERE l.profile_id = $1
			ORDER BY t.name
		`, link.refTable, link.linkTable, link.refColumn)
		err := r.db.SelectContext(ctx, &entities, query, profile.ID)
		return entities, err
	}

	var err error
	if profile.Majors, err = load(domain.KindMajor); err != nil {
		return err
	}
	if profile.Minors, err = load(domain.KindMinor); err != nil {
		return err
	}
	if profile.Interests, err = load(domain.KindInterest); err != nil {
		return err
	}
	if profile.Clubs, err = load(domain.KindClub); err != nil {
		return err
	}

	coursesQuery := `
		SELECT c.id, c.name, c.department, c.course_number FROM courses c
		JOIN %s l ON l.course_id = c.id
		WHERE l.profile_id = $1
		ORDER BY c.department, c.course_number
	`
	if err = r.db.SelectContext(ctx, &profile.CoursesTaking,
		fmt.Sprintf(coursesQuery, "profile_courses"), profile.ID); err != nil {
		return err
	}
	if err = r.db.SelectContext(ctx, &profile.FavoriteCourses,
		fmt.Sprintf(coursesQuery, "profile_favorite_courses"), profile.ID); err != nil {
		return err
	}
	return nil
}

func (r *profileRepository) ReplaceRelations(ctx context.Context, profileID int, rels *repository.ProfileRelations) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	replace := func(linkTable, column string, ids []int) error {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE profile_id = $1`, linkTable), profileID); err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %s (profile_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, linkTable, column),
				profileID, id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := replace("profile_majors", "major_id", rels.MajorIDs); err != nil {
		return err
	}
	if err := replace("profile_minors", "minor_id", rels.MinorIDs); err != nil {
		return err
	}
	if err := replace("profile_interests", "interest_id", rels.InterestIDs); err != nil {
		return err
	}
	if err := replace("profile_clubs", "club_id", rels.ClubIDs); err != nil {
		return err
	}
	if err := replace("profile_courses", "course_id", rels.CourseIDs); err != nil {
		return err
	}
	if err := replace("profile_favorite_courses", "course_id", rels.FavoriteCourseIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *profileRepository) InterestIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	query := `
		SELECT l.interest_id FROM profile_interests l
		JOIN profiles p ON p.id = l.profile_id
		WHERE p.user_id = $1
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

func (r *profileRepository) ClubIDs(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	query := `
		SELECT l.club_id FROM profile_clubs l
		JOIN profiles p ON p.id = l.profile_id
		WHERE p.user_id = $1
	`
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}

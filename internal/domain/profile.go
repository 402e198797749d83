package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type AcademicYear string

const (
	YearFreshman  AcademicYear = "FR"
	YearSophomore AcademicYear = "SO"
	YearJunior    AcademicYear = "JR"
	YearSenior    AcademicYear = "SR"
	YearGraduate  AcademicYear = "GR"
	YearOther     AcademicYear = "OT"
)

func (y AcademicYear) Valid() bool {
	switch y {
	case YearFreshman, YearSophomore, YearJunior, YearSenior, YearGraduate, YearOther:
		return true
	}
	return false
}

// Socials is a free-form handle map, e.g. {"instagram": "username"}.
// Stored as JSONB.
type Socials map[string]string

func (s Socials) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *Socials) Scan(src interface{}) error {
	if src == nil {
		*s = Socials{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("socials: unsupported scan type %T", src)
	}
	return json.Unmarshal(b, s)
}

type Profile struct {
	ID           int           `json:"id" db:"id"`
	UserID       int           `json:"user_id" db:"user_id"`
	YearInSchool *AcademicYear `json:"year_in_school" db:"year_in_school"`
	Department   string        `json:"department" db:"department"`
	Socials      Socials       `json:"socials" db:"socials"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`

	// Set-valued relations, resolved by the reference service. Not direct
	// table columns.
	Majors          []ReferenceEntity `json:"majors" db:"-"`
	Minors          []ReferenceEntity `json:"minors" db:"-"`
	Interests       []ReferenceEntity `json:"interests" db:"-"`
	CoursesTaking   []Course          `json:"courses_taking" db:"-"`
	FavoriteCourses []Course          `json:"favorite_courses" db:"-"`
	Clubs           []ReferenceEntity `json:"clubs" db:"-"`
}

package domain

// ReferenceKind identifies a reference-data table managed with
// idempotent upsert-by-name.
type ReferenceKind string

const (
	KindMajor    ReferenceKind = "major"
	KindMinor    ReferenceKind = "minor"
	KindInterest ReferenceKind = "interest"
	KindClub     ReferenceKind = "club"
)

type ReferenceEntity struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Course is keyed by (department, course_number, name) rather than name alone.
type Course struct {
	ID           int    `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Department   string `json:"department" db:"department"`
	CourseNumber string `json:"course_number" db:"course_number"`
}

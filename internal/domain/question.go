package domain

// PersonalityQuestion is immutable reference data loaded once at seed time.
type PersonalityQuestion struct {
	ID           int    `json:"id" db:"id"`
	Text         string `json:"text" db:"text"`
	Order        int    `json:"order" db:"display_order"`
	Domain       string `json:"domain" db:"domain"`
	Facet        string `json:"facet" db:"facet"`
	ReverseScale bool   `json:"reverse_scale" db:"reverse_scale"`
}

// PersonalityAnswer holds one user's 1-5 score for one question.
// (profile_id, question_id) is unique; re-answering overwrites.
type PersonalityAnswer struct {
	ID         int `json:"id" db:"id"`
	ProfileID  int `json:"profile_id" db:"profile_id"`
	QuestionID int `json:"question_id" db:"question_id"`
	Score      int `json:"score" db:"answer_score"`
}

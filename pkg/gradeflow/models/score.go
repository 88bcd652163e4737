package models

// TotalKey is the key reserved for the total in flattened score maps.
const TotalKey = "total"

// ComponentScore is the outcome of one graded cell.
type ComponentScore struct {
	// ID is the cell's grade id (e.g. "1a").
	ID string `json:"id"`
	// Points is the listed point value.
	Points float64 `json:"points"`
	// Earned is Points when the cell passed, otherwise 0.
	Earned float64 `json:"earned"`
}

// Scores holds per-component and total points for one graded notebook.
type Scores struct {
	// Username owning the notebook (empty when scored standalone).
	Username string `json:"username,omitempty"`
	// Components in notebook order.
	Components []ComponentScore `json:"components"`
	// Total is the sum of earned points.
	Total float64 `json:"total"`
	// Possible is the sum of listed points.
	Possible float64 `json:"possible"`
}

// Map flattens the scores into component id -> earned, plus TotalKey.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, len(s.Components)+1)
	for _, c := range s.Components {
		m[c.ID] = c.Earned
	}
	m[TotalKey] = s.Total
	return m
}

// ExportedScore is one row of the grading tool's CSV export.
type ExportedScore struct {
	// Assignment is the assignment name.
	Assignment string `csv:"assignment" json:"assignment"`
	// StudentID is the student's username.
	StudentID string `csv:"student_id" json:"student_id"`
	// Score is the points earned.
	Score float64 `csv:"score" json:"score"`
	// MaxScore is the points available.
	MaxScore float64 `csv:"max_score" json:"max_score"`
}

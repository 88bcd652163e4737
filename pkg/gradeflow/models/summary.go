package models

// GradeRow is a reporting view of one gradebook row.
type GradeRow struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	Grade     float64 `json:"grade"`
}

// Summary is the read-only statistics pass over a merged gradebook.
type Summary struct {
	// Assignment is the assignment name.
	Assignment string `json:"assignment"`
	// MaxScore is the assignment's maximum score.
	MaxScore float64 `json:"max_score"`
	// Count is the number of gradebook rows.
	Count int `json:"count"`
	// Zero lists rows scoring exactly 0.
	Zero []GradeRow `json:"zero"`
	// BelowHalf lists rows with 0 < score < MaxScore/2.
	BelowHalf []GradeRow `json:"below_half"`
	// Mean is the average score.
	Mean float64 `json:"mean"`
	// StdDev is the sample standard deviation.
	StdDev float64 `json:"std_dev"`
}

// Bin is one histogram bucket covering [Lower, Upper).
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ComponentStat aggregates one component across students.
type ComponentStat struct {
	ID     string  `json:"id"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

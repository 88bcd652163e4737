package gradebook

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/parser"
)

// Summarize reports zero scores, scores below half of maxScore, mean and
// sample standard deviation. It does not modify the gradebook.
func (g *Gradebook) Summarize(assignment string, maxScore float64) models.Summary {
	scores := g.Scores()
	s := models.Summary{
		Assignment: assignment,
		MaxScore:   maxScore,
		Count:      len(scores),
		Zero:       []models.GradeRow{},
		BelowHalf:  []models.GradeRow{},
	}
	for i, v := range scores {
		switch {
		case v == 0:
			s.Zero = append(s.Zero, g.gradeRow(i, v))
		case v > 0 && v < maxScore/2:
			s.BelowHalf = append(s.BelowHalf, g.gradeRow(i, v))
		}
	}
	if len(scores) > 0 {
		s.Mean = stat.Mean(scores, nil)
	}
	// a single score has no sample deviation
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	return s
}

func (g *Gradebook) gradeRow(i int, v float64) models.GradeRow {
	get := func(col string) string {
		if c := g.column(col); c >= 0 {
			return g.Rows[i][c]
		}
		return ""
	}
	return models.GradeRow{
		FirstName: get(parser.ColFirstName),
		LastName:  get(parser.ColLastName),
		Username:  get(parser.ColUsername),
		Grade:     v,
	}
}

// Histogram splits [0, maxScore] into int(maxScore) equal bins and counts scores.
// The last bin is closed so a perfect score is counted.
func Histogram(scores []float64, maxScore float64) []models.Bin {
	n := int(maxScore)
	if n < 1 {
		n = 1
	}
	width := maxScore / float64(n)
	if width <= 0 {
		width = 1
	}

	dividers := make([]float64, n+1)
	for i := range dividers {
		dividers[i] = float64(i) * width
	}
	// gonum requires every value inside [first, last) and sorted input
	var inRange []float64
	for _, v := range scores {
		if v >= 0 && v <= maxScore {
			inRange = append(inRange, v)
		}
	}
	sort.Float64s(inRange)
	top := dividers[n]
	dividers[n] = math.Nextafter(top, math.Inf(1))
	counts := stat.Histogram(nil, dividers, inRange, nil)
	dividers[n] = top

	bins := make([]models.Bin, n)
	for i := range bins {
		bins[i] = models.Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	return bins
}

// ComponentStats returns per-component mean and population standard deviation.
// Components are ordered as first seen; a student missing a component counts as 0.
func ComponentStats(all []models.Scores) []models.ComponentStat {
	var ids []string
	seen := map[string]bool{}
	for _, s := range all {
		for _, c := range s.Components {
			if !seen[c.ID] {
				seen[c.ID] = true
				ids = append(ids, c.ID)
			}
		}
	}

	out := make([]models.ComponentStat, 0, len(ids))
	for _, id := range ids {
		values := make([]float64, len(all))
		for i, s := range all {
			values[i] = s.Map()[id]
		}
		mean, std := stat.PopMeanStdDev(values, nil)
		out = append(out, models.ComponentStat{ID: id, Mean: mean, StdDev: std})
	}
	return out
}

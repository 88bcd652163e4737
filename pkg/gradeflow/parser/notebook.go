package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ukaji3/gradeflow-go/pkg/gradeflow/models"
)

// notebook is the subset of the notebook document needed for scoring.
type notebook struct {
	Cells []cell `json:"cells"`
}

type cell struct {
	Metadata struct {
		Grading *gradingMeta `json:"nbgrader"`
	} `json:"metadata"`
	Outputs []struct {
		OutputType string `json:"output_type"`
	} `json:"outputs"`
}

type gradingMeta struct {
	Grade   bool     `json:"grade"`
	GradeID *string  `json:"grade_id"`
	Points  *float64 `json:"points"`
}

// ExtractScores computes per-component and total points from graded notebook content.
// A graded cell earns its full points when it has no outputs or no error output, otherwise 0.
func ExtractScores(content []byte) (models.Scores, error) {
	var nb notebook
	if err := json.Unmarshal(content, &nb); err != nil {
		return models.Scores{}, fmt.Errorf("decode notebook: %w", err)
	}

	scores := models.Scores{Components: []models.ComponentScore{}}
	for _, c := range nb.Cells {
		meta := c.Metadata.Grading
		if meta == nil || !meta.Grade || meta.GradeID == nil {
			continue
		}
		var points float64
		if meta.Points != nil {
			points = *meta.Points
		}

		earned := points
		for _, out := range c.Outputs {
			if out.OutputType == "error" {
				earned = 0
				break
			}
		}

		scores.Components = append(scores.Components, models.ComponentScore{
			ID:     *meta.GradeID,
			Points: points,
			Earned: earned,
		})
		scores.Total += earned
		scores.Possible += points
	}
	return scores, nil
}

// ReadScores extracts scores from the notebook file at path.
func ReadScores(path string) (models.Scores, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.Scores{}, err
	}
	scores, err := ExtractScores(b)
	if err != nil {
		return models.Scores{}, fmt.Errorf("%s: %w", path, err)
	}
	return scores, nil
}

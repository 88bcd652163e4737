package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const gradedNotebook = `{
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["# HW1"]},
    {"cell_type": "code", "metadata": {"nbgrader": {"grade": true, "grade_id": "1a", "points": 2}}, "outputs": []},
    {"cell_type": "code", "metadata": {"nbgrader": {"grade": true, "grade_id": "1b", "points": 3}},
     "outputs": [{"output_type": "stream", "name": "stdout", "text": ["ok"]}]},
    {"cell_type": "code", "metadata": {"nbgrader": {"grade": true, "grade_id": "2", "points": 5}},
     "outputs": [{"output_type": "stream", "text": ["x"]}, {"output_type": "error", "ename": "AssertionError"}]},
    {"cell_type": "code", "metadata": {"nbgrader": {"grade": false, "grade_id": "answer", "solution": true}}, "outputs": []},
    {"cell_type": "code", "metadata": {"nbgrader": {"grade": true, "grade_id": null, "points": 4}}, "outputs": []},
    {"cell_type": "code", "metadata": {"nbgrader": {"grade": true, "grade_id": "3", "points": 1.5}}}
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func TestExtractScores(t *testing.T) {
	scores, err := ExtractScores([]byte(gradedNotebook))
	if err != nil {
		t.Fatalf("ExtractScores failed: %v", err)
	}

	expected := map[string]float64{
		"1a":    2, // no outputs
		"1b":    3, // non-error outputs
		"2":     0, // error output
		"3":     1.5,
		"total": 6.5,
	}
	if got := scores.Map(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Map() = %v, expected %v", got, expected)
	}
	if scores.Possible != 11.5 {
		t.Errorf("Possible = %v, expected 11.5", scores.Possible)
	}

	var ids []string
	for _, c := range scores.Components {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []string{"1a", "1b", "2", "3"}) {
		t.Errorf("component order = %v", ids)
	}
}

func TestExtractScoresIdempotent(t *testing.T) {
	first, err := ExtractScores([]byte(gradedNotebook))
	if err != nil {
		t.Fatal(err)
	}
	second, err := ExtractScores([]byte(gradedNotebook))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

func TestExtractScoresEmptyAndInvalid(t *testing.T) {
	scores, err := ExtractScores([]byte(`{"cells": []}`))
	if err != nil {
		t.Fatalf("ExtractScores failed: %v", err)
	}
	if scores.Total != 0 || len(scores.Components) != 0 {
		t.Errorf("expected empty scores, got %+v", scores)
	}

	if _, err := ExtractScores([]byte("not json")); err == nil {
		t.Error("expected error for invalid notebook")
	}
}

func TestReadScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hw1.ipynb")
	if err := os.WriteFile(path, []byte(gradedNotebook), 0644); err != nil {
		t.Fatal(err)
	}
	scores, err := ReadScores(path)
	if err != nil {
		t.Fatalf("ReadScores failed: %v", err)
	}
	if scores.Total != 6.5 {
		t.Errorf("Total = %v, expected 6.5", scores.Total)
	}
}

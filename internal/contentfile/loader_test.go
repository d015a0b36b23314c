package contentfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadChallenge(t *testing.T) {
	path := writeFile(t, "challenge.yaml", `
title: Two Sum
short_description: Find two numbers that add up to a target
problem_statement: Given an array of integers...
difficulty_level: easy
reward_points: 100
estimated_time: 20
tags:
  - arrays
  - hashing
test_cases:
  - input: '["[2,7,11,15]", "9"]'
    expected_output: "[0,1]"
    is_example: true
  - input: "1,2,3"
    expected_output: "6"
    is_hidden: true
    points_weight: 25
`)

	form, err := LoadChallenge(path)
	if err != nil {
		t.Fatalf("LoadChallenge failed: %v", err)
	}

	if form.Title != "Two Sum" || form.DifficultyLevel != "easy" {
		t.Errorf("form = %+v", form)
	}
	if len(form.Tags) != 2 {
		t.Errorf("tags = %v", form.Tags)
	}
	if len(form.TestCases) != 2 {
		t.Fatalf("test cases = %d, want 2", len(form.TestCases))
	}
	if form.TestCases[0].TempID == "" || form.TestCases[1].TempID == "" {
		t.Error("test cases must get temp ids")
	}
	if form.TestCases[0].TempID == form.TestCases[1].TempID {
		t.Error("temp ids must be unique")
	}
	if form.TestCases[0].PointsWeight != 10 {
		t.Errorf("default points weight = %d, want 10", form.TestCases[0].PointsWeight)
	}
	if form.TestCases[1].PointsWeight != 25 {
		t.Errorf("explicit points weight = %d, want 25", form.TestCases[1].PointsWeight)
	}
}

func TestLoadChallengeRejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not yaml", `{{{`},
		{"missing title", "short_description: x\ntest_cases:\n  - input: a\n    expected_output: b\n"},
		{"no test cases", "title: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.yaml", tt.content)
			if _, err := LoadChallenge(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := LoadChallenge(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadQuiz(t *testing.T) {
	path := writeFile(t, "quiz.yaml", `
title: Midterm
description: Covers weeks 1-6
instructions:
  - Read each question carefully
time_limit: 30
passing_score: 70
due_date: "2026-06-01"
notify_students: true
questions:
  - text: What is 2+2?
    options: ["3", "4", "5", "6"]
    correct_option: 1
    points: 5
  - text: Pick the even number
    options: ["1", "2", "3", "5"]
    correct_option: 1
`)

	form, err := LoadQuiz(path)
	if err != nil {
		t.Fatalf("LoadQuiz failed: %v", err)
	}

	if form.Title != "Midterm" || form.DueDate != "2026-06-01" || !form.NotifyStudents {
		t.Errorf("form = %+v", form)
	}
	if len(form.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(form.Questions))
	}
	if form.Questions[0].Points != 5 {
		t.Errorf("explicit points = %d", form.Questions[0].Points)
	}
	if form.Questions[1].Points != 1 {
		t.Errorf("default points = %d, want 1", form.Questions[1].Points)
	}
	if form.Questions[0].TempID == form.Questions[1].TempID {
		t.Error("temp ids must be unique")
	}
}

func TestLoadQuizRequiresQuestions(t *testing.T) {
	path := writeFile(t, "quiz.yaml", "title: Empty Quiz\n")
	if _, err := LoadQuiz(path); err == nil {
		t.Error("expected an error")
	}
}

package models

import (
	"time"
)

// Status represents the publication state of a content record
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid returns true if the status is a known value
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// TestCase is a single test case belonging to a coding challenge.
// Test cases carry no ids of their own; they are addressed by position
// (OrderIdx is 1-based) within their parent challenge.
type TestCase struct {
	InputData      []string `json:"input_data"`
	ExpectedOutput string   `json:"expected_output"`
	Explanation    string   `json:"explanation,omitempty"`
	IsHidden       bool     `json:"is_hidden"`
	IsExample      bool     `json:"is_example"`
	PointsWeight   int      `json:"points_weight"`
	OrderIdx       int      `json:"order_idx"`
}

// Challenge represents a coding challenge in the admin catalog
type Challenge struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	ProblemStatement string     `json:"problem_statement"`
	DifficultyLevel  string     `json:"difficulty_level"`
	RewardPoints     int        `json:"reward_points"`
	EstimatedTime    int        `json:"estimated_time"`
	Tags             []string   `json:"tags"`
	Status           Status     `json:"status"`
	TestCases        []TestCase `json:"test_cases"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Question is a single multiple-choice question belonging to a quiz.
// Like test cases, questions are addressed by 1-based position.
type Question struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Points        int      `json:"points"`
	OrderIdx      int      `json:"question_order_idx"`
}

// Quiz represents a multiple-choice quiz in the admin catalog
type Quiz struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Instructions   []string   `json:"instructions"`
	TimeLimit      int        `json:"time_limit"`
	PassingScore   int        `json:"passing_score"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	NotifyStudents bool       `json:"notify_students"`
	Status         Status     `json:"status"`
	Questions      []Question `json:"questions"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsPastDue checks if the quiz due date has passed
func (q *Quiz) IsPastDue(now time.Time) bool {
	return q.DueDate != nil && now.After(*q.DueDate)
}

// ListFilters holds filtering and ordering options for list queries
type ListFilters struct {
	Status         Status
	OrderBy        string
	OrderDirection string
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/edustack/content-studio/internal/models"
)

// ErrNotFound is returned by the details fetchers for a missing record
var ErrNotFound = errors.New("record not found")

// TestCaseForm is a test case as authored in the dashboard. TempID is a
// client-generated identifier used only for local list operations; it is
// never sent to the server.
type TestCaseForm struct {
	TempID         string
	Input          string
	ExpectedOutput string
	Explanation    string
	IsHidden       bool
	IsExample      bool
	PointsWeight   int
}

// ChallengeForm is the in-memory state of the challenge editor
type ChallengeForm struct {
	Title            string
	ShortDescription string
	ProblemStatement string
	DifficultyLevel  string
	RewardPoints     int
	EstimatedTime    int
	Tags             []string
	TestCases        []TestCaseForm
}

type testCasePayload struct {
	InputData      []string `json:"input_data"`
	ExpectedOutput string   `json:"expected_output"`
	Explanation    string   `json:"explanation,omitempty"`
	IsHidden       bool     `json:"is_hidden"`
	IsExample      bool     `json:"is_example"`
	PointsWeight   int      `json:"points_weight"`
	OrderIdx       int      `json:"order_idx"`
}

type challengePayload struct {
	ID               string            `json:"id,omitempty"`
	Title            string            `json:"title"`
	ShortDescription string            `json:"short_description"`
	ProblemStatement string            `json:"problem_statement"`
	DifficultyLevel  string            `json:"difficulty_level"`
	RewardPoints     int               `json:"reward_points"`
	EstimatedTime    int               `json:"estimated_time"`
	Tags             []string          `json:"tags"`
	TestCases        []testCasePayload `json:"test_cases"`
	Action           string            `json:"action"`
}

// SaveDraftChallenge validates the form and saves it as a draft. When the
// session already tracks a draft, the same remote record is updated; when
// the response carries an id, the session starts tracking it.
func (c *Client) SaveDraftChallenge(ctx context.Context, sess *DraftSession, form ChallengeForm) SubmitResult {
	if msg := validateChallengeForm(form); msg != "" {
		return SubmitResult{Message: msg}
	}

	payload := buildChallengePayload(form, actionSaveDraft, sess.ID())
	result := c.submit(ctx, challengesPath, payload, "Failed to save draft challenge")
	if result.Success {
		if id := result.RecordID(); id != "" {
			sess.track(id)
		}
	}
	return result
}

// PublishChallenge validates the form and publishes it. A tracked draft id
// is included so the server publishes that record in place; on success the
// session is cleared and the next save starts a fresh record.
func (c *Client) PublishChallenge(ctx context.Context, sess *DraftSession, form ChallengeForm) SubmitResult {
	if msg := validateChallengeForm(form); msg != "" {
		return SubmitResult{Message: msg}
	}

	payload := buildChallengePayload(form, actionPublish, sess.ID())
	result := c.submit(ctx, challengesPath, payload, "Failed to publish challenge")
	if result.Success {
		sess.Reset()
	}
	return result
}

// GetChallenge fetches a single challenge for the edit and view screens
func (c *Client) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	status, body, err := c.do(ctx, http.MethodGet, challengesPath+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status < 200 || status >= 300 {
		return nil, classifyErrorBody(status, body)
	}

	var result struct {
		Success bool              `json:"success"`
		Data    *models.Challenge `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result.Data == nil {
		return nil, ErrNotFound
	}

	return result.Data, nil
}

// ListChallenges fetches the whole challenge collection, newest first
func (c *Client) ListChallenges(ctx context.Context) ([]models.Challenge, error) {
	path := challengesPath + "?order_by=created_at&order_direction=desc"

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, classifyErrorBody(status, body)
	}

	var result struct {
		Data       []models.Challenge `json:"data"`
		TotalCount int                `json:"total_count"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result.Data, nil
}

// DeleteChallenge removes a challenge record
func (c *Client) DeleteChallenge(ctx context.Context, id string) error {
	status, body, err := c.do(ctx, http.MethodDelete, challengesPath+"/"+id, nil)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		return ErrNotFound
	}
	if status < 200 || status >= 300 {
		return classifyErrorBody(status, body)
	}
	return nil
}

const (
	actionSaveDraft = "save_draft"
	actionPublish   = "publish"
)

func buildChallengePayload(form ChallengeForm, action, draftID string) challengePayload {
	payload := challengePayload{
		ID:               draftID,
		Title:            strings.TrimSpace(form.Title),
		ShortDescription: strings.TrimSpace(form.ShortDescription),
		ProblemStatement: form.ProblemStatement,
		DifficultyLevel:  form.DifficultyLevel,
		RewardPoints:     form.RewardPoints,
		EstimatedTime:    form.EstimatedTime,
		Tags:             form.Tags,
		Action:           action,
	}
	if payload.Tags == nil {
		payload.Tags = []string{}
	}

	for i, tc := range form.TestCases {
		payload.TestCases = append(payload.TestCases, testCasePayload{
			InputData:      ParseInputData(tc.Input),
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
			IsHidden:       tc.IsHidden,
			IsExample:      tc.IsExample,
			PointsWeight:   tc.PointsWeight,
			OrderIdx:       i + 1,
		})
	}

	return payload
}

// ParseInputData turns the free-text input field into the wire format:
// a JSON array is taken as the argument list directly, anything else is
// split on commas
func ParseInputData(raw string) []string {
	trimmed := strings.TrimSpace(raw)

	var arr []interface{}
	if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			if s, ok := v.(string); ok {
				out = append(out, s)
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			out = append(out, string(b))
		}
		return out
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateChallengeForm applies the pre-flight rules in declaration order
// and returns the first violation, or "" when the form is valid
func validateChallengeForm(form ChallengeForm) string {
	if strings.TrimSpace(form.Title) == "" {
		return "Title is required"
	}
	if strings.TrimSpace(form.ShortDescription) == "" {
		return "Short description is required"
	}
	if strings.TrimSpace(form.ProblemStatement) == "" {
		return "Problem statement is required"
	}
	if strings.TrimSpace(form.DifficultyLevel) == "" {
		return "Difficulty level is required"
	}
	if form.RewardPoints < 1 {
		return "Reward points must be at least 1"
	}
	if form.EstimatedTime < 1 {
		return "Estimated time must be at least 1 minute"
	}

	for i, tc := range form.TestCases {
		if strings.TrimSpace(tc.Input) == "" {
			return fmt.Sprintf("Test case %d: input is required", i+1)
		}
		if strings.TrimSpace(tc.ExpectedOutput) == "" {
			return fmt.Sprintf("Test case %d: expected output is required", i+1)
		}
	}

	return ""
}

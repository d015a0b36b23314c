package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/edustack/content-studio/internal/models"
)

// ErrInvalidDueDate is returned by NormalizeDueDate for unparseable input
var ErrInvalidDueDate = errors.New("invalid due date")

// QuestionForm is a question as authored in the dashboard. TempID is a
// client-generated identifier used only for local list operations.
type QuestionForm struct {
	TempID        string
	Text          string
	Options       []string
	CorrectOption int
	Points        int
}

// QuizForm is the in-memory state of the quiz editor
type QuizForm struct {
	Title          string
	Description    string
	Instructions   []string
	TimeLimit      int
	PassingScore   int
	DueDate        string
	NotifyStudents bool
	Questions      []QuestionForm
}

type questionPayload struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Points        int      `json:"points"`
	OrderIdx      int      `json:"question_order_idx"`
}

type quizPayload struct {
	ID             string            `json:"id,omitempty"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Instructions   []string          `json:"instructions"`
	TimeLimit      int               `json:"time_limit"`
	PassingScore   int               `json:"passing_score"`
	DueDate        string            `json:"due_date"`
	NotifyStudents bool              `json:"notify_students"`
	Questions      []questionPayload `json:"questions"`
	Action         string            `json:"action"`
}

// SaveDraftQuiz validates the form and saves it as a draft, tracking the
// returned id in the session for subsequent saves and publish
func (c *Client) SaveDraftQuiz(ctx context.Context, sess *DraftSession, form QuizForm) SubmitResult {
	payload, msg := buildQuizPayload(form, actionSaveDraft, sess.ID())
	if msg != "" {
		return SubmitResult{Message: msg}
	}

	result := c.submit(ctx, quizzesPath, payload, "Failed to save draft quiz")
	if result.Success {
		if id := result.RecordID(); id != "" {
			sess.track(id)
		}
	}
	return result
}

// PublishQuiz validates the form and publishes it, updating the tracked
// draft in place when one exists; on success the session is cleared
func (c *Client) PublishQuiz(ctx context.Context, sess *DraftSession, form QuizForm) SubmitResult {
	payload, msg := buildQuizPayload(form, actionPublish, sess.ID())
	if msg != "" {
		return SubmitResult{Message: msg}
	}

	result := c.submit(ctx, quizzesPath, payload, "Failed to publish quiz")
	if result.Success {
		sess.Reset()
	}
	return result
}

// GetQuiz fetches a single quiz for the edit and view screens
func (c *Client) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	status, body, err := c.do(ctx, http.MethodGet, quizzesPath+"/"+id, nil)
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
		Success bool         `json:"success"`
		Data    *models.Quiz `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if result.Data == nil {
		return nil, ErrNotFound
	}

	return result.Data, nil
}

// ListQuizzes fetches the whole quiz collection, newest first
func (c *Client) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	path := quizzesPath + "?order_by=created_at&order_direction=desc"

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, classifyErrorBody(status, body)
	}

	var result struct {
		Data       []models.Quiz `json:"data"`
		TotalCount int           `json:"total_count"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return result.Data, nil
}

// DeleteQuiz removes a quiz record
func (c *Client) DeleteQuiz(ctx context.Context, id string) error {
	status, body, err := c.do(ctx, http.MethodDelete, quizzesPath+"/"+id, nil)
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

// buildQuizPayload validates and shapes the form; a non-empty message
// means validation failed and nothing must be sent
func buildQuizPayload(form QuizForm, action, draftID string) (quizPayload, string) {
	if msg := validateQuizForm(form); msg != "" {
		return quizPayload{}, msg
	}

	dueDate, err := NormalizeDueDate(form.DueDate)
	if err != nil {
		return quizPayload{}, "Invalid due date"
	}

	payload := quizPayload{
		ID:             draftID,
		Title:          strings.TrimSpace(form.Title),
		Description:    strings.TrimSpace(form.Description),
		TimeLimit:      form.TimeLimit,
		PassingScore:   form.PassingScore,
		DueDate:        dueDate,
		NotifyStudents: form.NotifyStudents,
		Action:         action,
	}

	payload.Instructions = []string{}
	for _, ins := range form.Instructions {
		if s := strings.TrimSpace(ins); s != "" {
			payload.Instructions = append(payload.Instructions, s)
		}
	}

	for i, q := range form.Questions {
		payload.Questions = append(payload.Questions, questionPayload{
			QuestionText:  q.Text,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Points:        q.Points,
			OrderIdx:      i + 1,
		})
	}

	return payload, ""
}

// validateQuizForm applies the pre-flight rules in declaration order and
// returns the first violation, or "" when the form is valid
func validateQuizForm(form QuizForm) string {
	if strings.TrimSpace(form.Title) == "" {
		return "Title is required"
	}
	if strings.TrimSpace(form.Description) == "" {
		return "Description is required"
	}
	if form.TimeLimit < 1 {
		return "Time limit must be at least 1 minute"
	}
	if form.PassingScore < 0 || form.PassingScore > 100 {
		return "Passing score must be between 0 and 100"
	}
	if strings.TrimSpace(form.DueDate) == "" {
		return "Due date is required"
	}

	for i, q := range form.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Sprintf("Question %d: question text is required", i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Sprintf("Question %d: exactly four options are required", i+1)
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Sprintf("Question %d: all four options are required", i+1)
			}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return fmt.Sprintf("Question %d: a correct option must be selected", i+1)
		}
	}

	return ""
}

// tzMarker matches an explicit timezone suffix: Z or a numeric offset
var tzMarker = regexp.MustCompile(`(?i)(z|[+-]\d{2}:?\d{2})$`)

// Layouts tried for input carrying an explicit timezone
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
}

// Layouts tried for input without a timezone, interpreted as local time
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// NormalizeDueDate converts a date-time input value to an absolute UTC
// instant with second precision. The timezone marker is checked first so
// an already-absolute timestamp is never reinterpreted as local time:
//
//  1. explicit timezone: reformat to UTC, dropping sub-second precision
//  2. bare calendar date: end of that day (23:59:59) in local time
//  3. bare date-time: interpreted as local time
//  4. anything else that still parses generically; otherwise an error
func NormalizeDueDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidDueDate
	}

	if tzMarker.MatchString(s) {
		// time.Parse rejects a lowercase zulu marker
		zoned := s
		if strings.HasSuffix(zoned, "z") {
			zoned = strings.TrimSuffix(zoned, "z") + "Z"
		}
		for _, layout := range zonedLayouts {
			if t, err := time.Parse(layout, zoned); err == nil {
				return formatUTC(t), nil
			}
		}
	}

	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		endOfDay := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.Local)
		return formatUTC(endOfDay), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return formatUTC(t), nil
		}
	}

	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.ANSIC} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return formatUTC(t), nil
		}
	}

	return "", ErrInvalidDueDate
}

func formatUTC(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

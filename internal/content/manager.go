package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edustack/content-studio/internal/models"
	"github.com/edustack/content-studio/internal/storage"
)

// Common errors
var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrInvalidAction     = errors.New("invalid action")
)

// Action selects what a save request does with the submitted record
type Action string

const (
	ActionSaveDraft Action = "save_draft"
	ActionPublish   Action = "publish"
)

// Valid returns true if the action is a known value
func (a Action) Valid() bool {
	return a == ActionSaveDraft || a == ActionPublish
}

// Status returns the record status the action results in
func (a Action) Status() models.Status {
	if a == ActionPublish {
		return models.StatusPublished
	}
	return models.StatusDraft
}

// ValidationError reports per-field validation failures. Handlers render
// it as an errors map so callers can show field-level messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, ", ")
}

// Manager defines the interface for content lifecycle management
type Manager interface {
	SaveChallenge(ctx context.Context, ch *models.Challenge, action Action) (*models.Challenge, error)
	GetChallenge(ctx context.Context, id string) (*models.Challenge, error)
	DeleteChallenge(ctx context.Context, id string) error
	ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error)

	SaveQuiz(ctx context.Context, q *models.Quiz, action Action) (*models.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	ListQuizzes(ctx context.Context, filters models.ListFilters) ([]*models.Quiz, error)

	Ping(ctx context.Context) error
}

// StoreManager implements Manager over a storage.Repository
type StoreManager struct {
	repo storage.Repository
	now  func() time.Time
}

// NewManager creates a new StoreManager
func NewManager(repo storage.Repository) *StoreManager {
	return &StoreManager{
		repo: repo,
		now:  time.Now,
	}
}

// Ping checks the backing repository
func (m *StoreManager) Ping(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

// SaveChallenge creates a new challenge or updates the one identified by
// ch.ID, setting its status according to the action
func (m *StoreManager) SaveChallenge(ctx context.Context, ch *models.Challenge, action Action) (*models.Challenge, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if err := validateChallenge(ch); err != nil {
		return nil, err
	}

	now := m.now().UTC().Truncate(time.Second)
	ch.Status = action.Status()
	for i := range ch.TestCases {
		ch.TestCases[i].OrderIdx = i + 1
	}

	if ch.ID == "" {
		ch.ID = uuid.NewString()
		ch.CreatedAt = now
		ch.UpdatedAt = now
		if err := m.repo.CreateChallenge(ctx, ch); err != nil {
			return nil, fmt.Errorf("failed to create challenge: %w", err)
		}
		return ch, nil
	}

	existing, err := m.repo.GetChallenge(ctx, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if existing == nil {
		return nil, ErrChallengeNotFound
	}

	ch.CreatedAt = existing.CreatedAt
	ch.UpdatedAt = now
	if err := m.repo.UpdateChallenge(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}

	return ch, nil
}

// GetChallenge retrieves a single challenge
func (m *StoreManager) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	ch, err := m.repo.GetChallenge(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChallengeNotFound
	}
	return ch, nil
}

// DeleteChallenge removes a challenge
func (m *StoreManager) DeleteChallenge(ctx context.Context, id string) error {
	ch, err := m.repo.GetChallenge(ctx, id)
	if err != nil {
		return err
	}
	if ch == nil {
		return ErrChallengeNotFound
	}
	return m.repo.DeleteChallenge(ctx, id)
}

// ListChallenges lists challenges matching the filters
func (m *StoreManager) ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error) {
	return m.repo.ListChallenges(ctx, filters)
}

// SaveQuiz creates a new quiz or updates the one identified by q.ID,
// setting its status according to the action. A changed due date resets
// the notification state so the due-date worker fires again.
func (m *StoreManager) SaveQuiz(ctx context.Context, q *models.Quiz, action Action) (*models.Quiz, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if err := validateQuiz(q); err != nil {
		return nil, err
	}

	now := m.now().UTC().Truncate(time.Second)
	q.Status = action.Status()
	for i := range q.Questions {
		q.Questions[i].OrderIdx = i + 1
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
		q.CreatedAt = now
		q.UpdatedAt = now
		if err := m.repo.CreateQuiz(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to create quiz: %w", err)
		}
		return q, nil
	}

	existing, err := m.repo.GetQuiz(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if existing == nil {
		return nil, ErrQuizNotFound
	}

	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = now
	q.NotifiedAt = existing.NotifiedAt
	if !sameDueDate(existing.DueDate, q.DueDate) {
		q.NotifiedAt = nil
	}

	if err := m.repo.UpdateQuiz(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	return q, nil
}

// GetQuiz retrieves a single quiz
func (m *StoreManager) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	q, err := m.repo.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuizNotFound
	}
	return q, nil
}

// DeleteQuiz removes a quiz
func (m *StoreManager) DeleteQuiz(ctx context.Context, id string) error {
	q, err := m.repo.GetQuiz(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return ErrQuizNotFound
	}
	return m.repo.DeleteQuiz(ctx, id)
}

// ListQuizzes lists quizzes matching the filters
func (m *StoreManager) ListQuizzes(ctx context.Context, filters models.ListFilters) ([]*models.Quiz, error) {
	return m.repo.ListQuizzes(ctx, filters)
}

func sameDueDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Server-side validation is a safety net behind the SDK's pre-flight
// checks; it reports all failures at once as a field map rather than
// stopping at the first one.

func validateChallenge(ch *models.Challenge) error {
	fields := make(map[string]string)

	if strings.TrimSpace(ch.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(ch.ShortDescription) == "" {
		fields["short_description"] = "required"
	}
	if len(ch.TestCases) == 0 {
		fields["test_cases"] = "at least one test case is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateQuiz(q *models.Quiz) error {
	fields := make(map[string]string)

	if strings.TrimSpace(q.Title) == "" {
		fields["title"] = "required"
	}
	if len(q.Questions) == 0 {
		fields["questions"] = "at least one question is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

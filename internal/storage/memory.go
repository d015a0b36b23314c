package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/edustack/content-studio/internal/models"
)

// MemoryRepository implements Repository with in-process maps. It backs
// development mode and tests; nothing survives a restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	challenges map[string]*models.Challenge
	quizzes    map[string]*models.Quiz
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		challenges: make(map[string]*models.Challenge),
		quizzes:    make(map[string]*models.Quiz),
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}

// Challenges

func (r *MemoryRepository) CreateChallenge(ctx context.Context, ch *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.challenges[ch.ID]; exists {
		return fmt.Errorf("challenge %s already exists", ch.ID)
	}

	r.challenges[ch.ID] = copyChallenge(ch)
	return nil
}

func (r *MemoryRepository) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ch, ok := r.challenges[id]
	if !ok {
		return nil, nil
	}
	return copyChallenge(ch), nil
}

func (r *MemoryRepository) UpdateChallenge(ctx context.Context, ch *models.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.challenges[ch.ID]; !ok {
		return fmt.Errorf("challenge %s not found", ch.ID)
	}

	r.challenges[ch.ID] = copyChallenge(ch)
	return nil
}

func (r *MemoryRepository) DeleteChallenge(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.challenges, id)
	return nil
}

func (r *MemoryRepository) ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var challenges []*models.Challenge
	for _, ch := range r.challenges {
		if filters.Status != "" && ch.Status != filters.Status {
			continue
		}
		challenges = append(challenges, copyChallenge(ch))
	}

	asc := filters.OrderDirection == "asc"
	sort.SliceStable(challenges, func(i, j int) bool {
		if asc {
			return challenges[i].CreatedAt.Before(challenges[j].CreatedAt)
		}
		return challenges[j].CreatedAt.Before(challenges[i].CreatedAt)
	})

	return challenges, nil
}

// Quizzes

func (r *MemoryRepository) CreateQuiz(ctx context.Context, q *models.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.quizzes[q.ID]; exists {
		return fmt.Errorf("quiz %s already exists", q.ID)
	}

	r.quizzes[q.ID] = copyQuiz(q)
	return nil
}

func (r *MemoryRepository) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.quizzes[id]
	if !ok {
		return nil, nil
	}
	return copyQuiz(q), nil
}

func (r *MemoryRepository) UpdateQuiz(ctx context.Context, q *models.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quizzes[q.ID]; !ok {
		return fmt.Errorf("quiz %s not found", q.ID)
	}

	r.quizzes[q.ID] = copyQuiz(q)
	return nil
}

func (r *MemoryRepository) DeleteQuiz(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.quizzes, id)
	return nil
}

func (r *MemoryRepository) ListQuizzes(ctx context.Context, filters models.ListFilters) ([]*models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var quizzes []*models.Quiz
	for _, q := range r.quizzes {
		if filters.Status != "" && q.Status != filters.Status {
			continue
		}
		quizzes = append(quizzes, copyQuiz(q))
	}

	asc := filters.OrderDirection == "asc"
	sort.SliceStable(quizzes, func(i, j int) bool {
		if asc {
			return quizzes[i].CreatedAt.Before(quizzes[j].CreatedAt)
		}
		return quizzes[j].CreatedAt.Before(quizzes[i].CreatedAt)
	})

	return quizzes, nil
}

func (r *MemoryRepository) GetDueQuizzes(ctx context.Context, now time.Time) ([]*models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*models.Quiz
	for _, q := range r.quizzes {
		if q.Status != models.StatusPublished || !q.NotifyStudents || q.NotifiedAt != nil {
			continue
		}
		if !q.IsPastDue(now) {
			continue
		}
		due = append(due, copyQuiz(q))
	}

	return due, nil
}

func (r *MemoryRepository) MarkQuizNotified(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quizzes[id]
	if !ok {
		return fmt.Errorf("quiz %s not found", id)
	}

	notified := at
	q.NotifiedAt = &notified
	return nil
}

// Records are copied on the way in and out so callers can't mutate the
// stored state behind the repository's back.

func copyChallenge(ch *models.Challenge) *models.Challenge {
	out := *ch
	out.Tags = append([]string(nil), ch.Tags...)
	out.TestCases = append([]models.TestCase(nil), ch.TestCases...)
	for i := range out.TestCases {
		out.TestCases[i].InputData = append([]string(nil), ch.TestCases[i].InputData...)
	}
	return &out
}

func copyQuiz(q *models.Quiz) *models.Quiz {
	out := *q
	out.Instructions = append([]string(nil), q.Instructions...)
	out.Questions = append([]models.Question(nil), q.Questions...)
	for i := range out.Questions {
		out.Questions[i].Options = append([]string(nil), q.Questions[i].Options...)
	}
	if q.DueDate != nil {
		due := *q.DueDate
		out.DueDate = &due
	}
	if q.NotifiedAt != nil {
		at := *q.NotifiedAt
		out.NotifiedAt = &at
	}
	return &out
}

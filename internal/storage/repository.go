package storage

import (
	"context"
	"time"

	"github.com/edustack/content-studio/internal/models"
)

// Repository defines the interface for content persistence
type Repository interface {
	// Challenges
	CreateChallenge(ctx context.Context, ch *models.Challenge) error
	GetChallenge(ctx context.Context, id string) (*models.Challenge, error)
	UpdateChallenge(ctx context.Context, ch *models.Challenge) error
	DeleteChallenge(ctx context.Context, id string) error
	ListChallenges(ctx context.Context, filters models.ListFilters) ([]*models.Challenge, error)

	// Quizzes
	CreateQuiz(ctx context.Context, q *models.Quiz) error
	GetQuiz(ctx context.Context, id string) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, q *models.Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
	ListQuizzes(ctx context.Context, filters models.ListFilters) ([]*models.Quiz, error)

	// Due-date notifications
	GetDueQuizzes(ctx context.Context, now time.Time) ([]*models.Quiz, error)
	MarkQuizNotified(ctx context.Context, id string, at time.Time) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}

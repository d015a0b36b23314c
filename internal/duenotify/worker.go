package duenotify

import (
	"context"
	"log/slog"
	"time"

	"github.com/edustack/content-studio/internal/storage"
)

// Worker handles periodic due-date notifications for published quizzes
type Worker struct {
	repo     storage.Repository
	interval time.Duration
	now      func() time.Time
}

// NewWorker creates a new notification worker
func NewWorker(repo storage.Repository, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Worker{
		repo:     repo,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the notification worker in a goroutine
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// run is the main loop for the notification worker
func (w *Worker) run(ctx context.Context) {
	slog.Info("due notification worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start
	w.Notify(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("due notification worker stopped")
			return
		case <-ticker.C:
			w.Notify(ctx)
		}
	}
}

// Notify finds published quizzes whose due date has passed and records a
// notification for each. A quiz is picked up once; editing its due date
// clears the marker so it becomes eligible again.
func (w *Worker) Notify(ctx context.Context) {
	slog.Debug("running notification cycle")

	now := w.now()

	due, err := w.repo.GetDueQuizzes(ctx, now)
	if err != nil {
		slog.Error("failed to get due quizzes", "error", err)
		return
	}

	if len(due) == 0 {
		slog.Debug("no due quizzes found")
		return
	}

	slog.Info("found due quizzes", "count", len(due))

	for _, quiz := range due {
		slog.Info("notifying students of due quiz",
			"id", quiz.ID,
			"title", quiz.Title,
			"due_date", quiz.DueDate,
		)

		if err := w.repo.MarkQuizNotified(ctx, quiz.ID, now); err != nil {
			slog.Error("failed to mark quiz notified",
				"error", err,
				"id", quiz.ID,
			)
			continue
		}

		slog.Info("quiz notification recorded", "id", quiz.ID)
	}
}

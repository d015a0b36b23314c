package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/edustack/content-studio/internal/models"
)

const defaultErrorClearAfter = 5 * time.Second

// PublishedChallenges is the dashboard's published-challenge list: the
// whole collection is fetched and filtered to published status locally,
// and deletes remove the item from local state as soon as the server
// confirms, without a refetch. Failed deletes set an error message that
// clears itself after a few seconds.
type PublishedChallenges struct {
	c          *Client
	clearAfter time.Duration

	mu       sync.Mutex
	items    []models.Challenge
	deleting map[string]struct{}
	errMsg   string
	errSeq   int
}

// ListOption configures a PublishedChallenges view
type ListOption func(*PublishedChallenges)

// WithErrorClearAfter overrides how long delete errors stay visible
func WithErrorClearAfter(d time.Duration) ListOption {
	return func(l *PublishedChallenges) {
		l.clearAfter = d
	}
}

// PublishedChallenges creates a published-challenge list view
func (c *Client) PublishedChallenges(opts ...ListOption) *PublishedChallenges {
	l := &PublishedChallenges{
		c:          c,
		clearAfter: defaultErrorClearAfter,
		deleting:   make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Refetch replaces the local list with a fresh fetch-and-filter pass and
// clears any prior error. Drafts are excluded here regardless of what the
// server returns; this filter is authoritative for what renders.
func (l *PublishedChallenges) Refetch(ctx context.Context) error {
	l.mu.Lock()
	l.errMsg = ""
	l.errSeq++
	l.mu.Unlock()

	challenges, err := l.c.ListChallenges(ctx)
	if err != nil {
		l.setError("Failed to load challenges: " + fetchErrorMessage(err))
		return err
	}

	published := make([]models.Challenge, 0, len(challenges))
	for _, ch := range challenges {
		if ch.Status == models.StatusPublished {
			published = append(published, ch)
		}
	}

	l.mu.Lock()
	l.items = published
	l.mu.Unlock()

	return nil
}

// Delete removes a challenge on the server and, on success, drops it from
// the local list immediately. Returns false on any failure, leaving the
// list unchanged and setting an auto-clearing error message.
func (l *PublishedChallenges) Delete(ctx context.Context, id string) bool {
	l.mu.Lock()
	if _, inFlight := l.deleting[id]; inFlight {
		l.mu.Unlock()
		return false
	}
	l.deleting[id] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.deleting, id)
		l.mu.Unlock()
	}()

	status, body, err := l.c.do(ctx, http.MethodDelete, challengesPath+"/"+id, nil)
	if err != nil {
		l.setError("Failed to delete challenge: Network error")
		return false
	}

	if status < 200 || status >= 300 {
		apiErr := classifyErrorBody(status, body)
		l.setError("Failed to delete challenge: " + apiErr.Message())
		return false
	}

	l.mu.Lock()
	kept := l.items[:0]
	for _, ch := range l.items {
		if ch.ID != id {
			kept = append(kept, ch)
		}
	}
	l.items = kept
	l.mu.Unlock()

	return true
}

// Items returns a snapshot of the published challenges
func (l *PublishedChallenges) Items() []models.Challenge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Challenge(nil), l.items...)
}

// Deleting reports whether a delete for the given id is in flight
func (l *PublishedChallenges) Deleting(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.deleting[id]
	return ok
}

// Err returns the current error message, or "" when there is none
func (l *PublishedChallenges) Err() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}

// setError stores an error message and schedules it to clear. The
// sequence counter stops a stale timer from wiping a newer message.
func (l *PublishedChallenges) setError(msg string) {
	l.mu.Lock()
	l.errMsg = msg
	l.errSeq++
	seq := l.errSeq
	l.mu.Unlock()

	time.AfterFunc(l.clearAfter, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.errSeq == seq {
			l.errMsg = ""
		}
	})
}

// fetchErrorMessage renders a fetch failure for display
func fetchErrorMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message()
	}
	return "Network error"
}

// Package editor implements the editing sessions behind the dashboard's
// create/edit forms: local field state, child-item list operations, the
// submit state machine, and ephemeral notifications. Sessions own their
// state; persistence happens only through the admin API client.
package editor

import (
	"time"

	"github.com/google/uuid"
)

// State is the form session's position in the submit lifecycle
type State string

const (
	// StateEmpty is a freshly created or fully reset form
	StateEmpty State = "empty"
	// StateEditing means fields have been touched and nothing is in flight
	StateEditing State = "editing"
	// StateSubmitting means a save or publish call is in flight
	StateSubmitting State = "submitting"
	// StateDraftSaved means the last successful action was a draft save
	StateDraftSaved State = "draft_saved"
)

// SessionOption configures a session at construction time
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	notificationTTL time.Duration
}

// WithNotificationTTL overrides the notification auto-clear delay
func WithNotificationTTL(ttl time.Duration) SessionOption {
	return func(cfg *sessionConfig) {
		cfg.notificationTTL = ttl
	}
}

func newSessionConfig(opts []SessionOption) sessionConfig {
	cfg := sessionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// newTempID returns a fresh client-side identifier for a child item.
// These ids only address entries in local lists and are never sent to
// the server.
func newTempID() string {
	return uuid.NewString()
}

// defaultInstructions is what a quiz starts with (and what an edited quiz
// falls back to when the stored record has none)
var defaultInstructions = []string{
	"Read each question carefully before selecting an answer.",
	"Each question has exactly one correct option.",
	"You can move between questions freely until you submit.",
	"The quiz is submitted automatically when the time limit runs out.",
}

// DefaultInstructions returns a copy of the standard quiz instructions
func DefaultInstructions() []string {
	return append([]string(nil), defaultInstructions...)
}

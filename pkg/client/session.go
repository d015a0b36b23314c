package client

import (
	"sync"
)

// DraftSession tracks the server-assigned id of the draft currently being
// edited. Each editing surface (form, tab, CLI invocation) owns its own
// session, so concurrent edits never share draft state. The id is set by
// the first successful save-draft, reused by later saves and by publish,
// and cleared when publish succeeds or the draft is discarded.
type DraftSession struct {
	mu sync.Mutex
	id string
}

// NewDraftSession creates a session with no draft tracked
func NewDraftSession() *DraftSession {
	return &DraftSession{}
}

// ResumeDraftSession creates a session already tracking an existing draft,
// so subsequent saves update that record in place
func ResumeDraftSession(id string) *DraftSession {
	return &DraftSession{id: id}
}

// ID returns the tracked draft id, or "" when none is tracked
func (s *DraftSession) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Reset discards the tracked draft id. The remote record, if any, is left
// untouched; the next save-draft creates a fresh one.
func (s *DraftSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
}

func (s *DraftSession) track(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

package editor

import (
	"sync"
	"time"
)

const defaultNotificationTTL = 5 * time.Second

// NotificationKind distinguishes the banner styles the dashboard shows
type NotificationKind string

const (
	NoteSuccess NotificationKind = "success"
	NoteDraft   NotificationKind = "draft"
	NoteError   NotificationKind = "error"
)

// Notification is an ephemeral banner message
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier holds at most one active notification. A pushed notification
// replaces the previous one and clears itself after the configured delay
// unless dismissed first.
type Notifier struct {
	mu         sync.Mutex
	clearAfter time.Duration
	current    *Notification
	seq        int
}

// NewNotifier creates a notifier; a non-positive ttl selects the default
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = defaultNotificationTTL
	}
	return &Notifier{clearAfter: ttl}
}

// Push shows a notification, replacing any active one
func (n *Notifier) Push(kind NotificationKind, message string) {
	n.mu.Lock()
	n.current = &Notification{Kind: kind, Message: message}
	n.seq++
	seq := n.seq
	n.mu.Unlock()

	time.AfterFunc(n.clearAfter, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.seq == seq {
			n.current = nil
		}
	})
}

// Dismiss clears the active notification immediately
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
	n.seq++
}

// Active returns the current notification, or nil when none is showing
func (n *Notifier) Active() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	note := *n.current
	return &note
}

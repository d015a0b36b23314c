package editor

import (
	"testing"
	"time"
)

func TestNotifierPushReplaces(t *testing.T) {
	n := NewNotifier(time.Hour)

	n.Push(NoteDraft, "Draft saved successfully")
	n.Push(NoteError, "Failed to publish challenge: Network error")

	note := n.Active()
	if note == nil {
		t.Fatal("expected an active notification")
	}
	if note.Kind != NoteError {
		t.Errorf("kind = %s, want %s", note.Kind, NoteError)
	}
	if note.Message != "Failed to publish challenge: Network error" {
		t.Errorf("message = %q", note.Message)
	}
}

func TestNotifierDismiss(t *testing.T) {
	n := NewNotifier(time.Hour)
	n.Push(NoteSuccess, "Challenge published successfully")
	n.Dismiss()

	if n.Active() != nil {
		t.Error("dismissed notification still active")
	}
}

func TestNotifierAutoClear(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	n.Push(NoteSuccess, "done")

	deadline := time.After(2 * time.Second)
	for n.Active() != nil {
		select {
		case <-deadline:
			t.Fatal("notification never cleared")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNotifierStaleTimerKeepsNewerMessage(t *testing.T) {
	n := NewNotifier(40 * time.Millisecond)

	n.Push(NoteDraft, "first")
	time.Sleep(25 * time.Millisecond)
	n.Push(NoteDraft, "second")

	// The first push's timer fires around now; the second must survive it
	time.Sleep(25 * time.Millisecond)

	note := n.Active()
	if note == nil || note.Message != "second" {
		t.Errorf("stale timer wiped the newer notification: %v", note)
	}
}

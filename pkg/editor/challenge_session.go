package editor

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/edustack/content-studio/internal/models"
	"github.com/edustack/content-studio/pkg/client"
)

// ChallengeSession is one editing session of the challenge form. All
// field state lives here; the API client is only touched on save-draft
// and publish. Submissions are serialized: a second submit while one is
// in flight is rejected instead of racing.
type ChallengeSession struct {
	api      *client.Client
	draft    *client.DraftSession
	notifier *Notifier

	mu    sync.Mutex
	state State
	form  client.ChallengeForm
}

// NewChallengeSession creates an empty challenge editing session with one
// default test case
func NewChallengeSession(api *client.Client, opts ...SessionOption) *ChallengeSession {
	cfg := newSessionConfig(opts)
	return &ChallengeSession{
		api:      api,
		draft:    client.NewDraftSession(),
		notifier: NewNotifier(cfg.notificationTTL),
		state:    StateEmpty,
		form:     defaultChallengeForm(),
	}
}

// State returns the session's lifecycle state
func (s *ChallengeSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notifier returns the session's notification surface
func (s *ChallengeSession) Notifier() *Notifier {
	return s.notifier
}

// DraftID returns the tracked draft id, or "" when none is tracked
func (s *ChallengeSession) DraftID() string {
	return s.draft.ID()
}

// Form returns a snapshot of the current form state
func (s *ChallengeSession) Form() client.ChallengeForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyChallengeForm(s.form)
}

// Edit applies a mutation to the form fields. Editing is allowed even
// while a submit is in flight; the changes are simply not validated until
// the next submit.
func (s *ChallengeSession) Edit(mutate func(*client.ChallengeForm)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.form)
	if s.state == StateEmpty {
		s.state = StateEditing
	}
}

// AddTestCase appends a new default-valued test case
func (s *ChallengeSession) AddTestCase() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tc := defaultTestCase()
	s.form.TestCases = append(s.form.TestCases, tc)
	if s.state == StateEmpty {
		s.state = StateEditing
	}
	return tc.TempID
}

// RemoveTestCase deletes the test case with the given temp id. Removing
// the last remaining test case is a no-op.
func (s *ChallengeSession) RemoveTestCase(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.form.TestCases) <= 1 {
		return
	}

	kept := s.form.TestCases[:0]
	for _, tc := range s.form.TestCases {
		if tc.TempID != tempID {
			kept = append(kept, tc)
		}
	}
	s.form.TestCases = kept
}

// UpdateTestCase mutates the test case with the given temp id, leaving
// all other entries untouched
func (s *ChallengeSession) UpdateTestCase(tempID string, mutate func(*client.TestCaseForm)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.form.TestCases {
		if s.form.TestCases[i].TempID == tempID {
			mutate(&s.form.TestCases[i])
			if s.state == StateEmpty {
				s.state = StateEditing
			}
			return
		}
	}
}

// SaveDraft submits the form as a draft. On success the session keeps all
// field state, tracks the returned draft id, and shows a draft banner; on
// failure the fields are preserved exactly and an error banner is shown.
func (s *ChallengeSession) SaveDraft(ctx context.Context) client.SubmitResult {
	form, ok := s.beginSubmit()
	if !ok {
		return client.SubmitResult{Message: "A submission is already in progress"}
	}

	result := s.api.SaveDraftChallenge(ctx, s.draft, form)

	s.mu.Lock()
	if result.Success {
		s.state = StateDraftSaved
	} else {
		s.state = StateEditing
	}
	s.mu.Unlock()

	if result.Success {
		s.notifier.Push(NoteDraft, "Draft saved successfully")
	} else {
		s.notifier.Push(NoteError, result.Message)
	}

	return result
}

// Publish submits the form for publication. On success the whole form
// resets to its empty state; on failure the fields are preserved exactly.
func (s *ChallengeSession) Publish(ctx context.Context) client.SubmitResult {
	form, ok := s.beginSubmit()
	if !ok {
		return client.SubmitResult{Message: "A submission is already in progress"}
	}

	result := s.api.PublishChallenge(ctx, s.draft, form)

	s.mu.Lock()
	if result.Success {
		s.form = defaultChallengeForm()
		s.state = StateEmpty
	} else {
		s.state = StateEditing
	}
	s.mu.Unlock()

	if result.Success {
		s.notifier.Push(NoteSuccess, "Challenge published successfully")
	} else {
		s.notifier.Push(NoteError, result.Message)
	}

	return result
}

// ClearDraft discards the tracked draft id without touching the remote
// record or the field state. Callers are expected to confirm with the
// user first.
func (s *ChallengeSession) ClearDraft() {
	s.draft.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDraftSaved {
		s.state = StateEditing
	}
}

// Load populates the session from an existing record for the edit and
// view screens. Loading a draft resumes it, so the next save updates the
// same record.
func (s *ChallengeSession) Load(ctx context.Context, id string) error {
	ch, err := s.api.GetChallenge(ctx, id)
	if err != nil {
		return err
	}

	form := challengeFormFromRecord(ch)

	s.mu.Lock()
	s.form = form
	if ch.Status == models.StatusDraft {
		s.draft = client.ResumeDraftSession(ch.ID)
		s.state = StateDraftSaved
	} else {
		s.draft = client.NewDraftSession()
		s.state = StateEditing
	}
	s.mu.Unlock()

	return nil
}

func (s *ChallengeSession) beginSubmit() (client.ChallengeForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return client.ChallengeForm{}, false
	}
	s.state = StateSubmitting
	return copyChallengeForm(s.form), true
}

func defaultChallengeForm() client.ChallengeForm {
	return client.ChallengeForm{
		TestCases: []client.TestCaseForm{defaultTestCase()},
	}
}

func defaultTestCase() client.TestCaseForm {
	return client.TestCaseForm{
		TempID:       newTempID(),
		PointsWeight: 10,
	}
}

func copyChallengeForm(form client.ChallengeForm) client.ChallengeForm {
	out := form
	out.Tags = append([]string(nil), form.Tags...)
	out.TestCases = append([]client.TestCaseForm(nil), form.TestCases...)
	return out
}

// challengeFormFromRecord converts a stored challenge back into editable
// form state. Input data is rendered as JSON so it survives a round trip
// through the free-text input parser even when arguments contain commas.
func challengeFormFromRecord(ch *models.Challenge) client.ChallengeForm {
	form := client.ChallengeForm{
		Title:            ch.Title,
		ShortDescription: ch.ShortDescription,
		ProblemStatement: ch.ProblemStatement,
		DifficultyLevel:  ch.DifficultyLevel,
		RewardPoints:     ch.RewardPoints,
		EstimatedTime:    ch.EstimatedTime,
		Tags:             append([]string(nil), ch.Tags...),
	}

	for _, tc := range ch.TestCases {
		form.TestCases = append(form.TestCases, client.TestCaseForm{
			TempID:         newTempID(),
			Input:          renderInputData(tc.InputData),
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
			IsHidden:       tc.IsHidden,
			IsExample:      tc.IsExample,
			PointsWeight:   tc.PointsWeight,
		})
	}
	if len(form.TestCases) == 0 {
		form.TestCases = []client.TestCaseForm{defaultTestCase()}
	}

	return form
}

func renderInputData(inputData []string) string {
	if len(inputData) == 0 {
		return ""
	}

	plain := true
	for _, v := range inputData {
		if strings.ContainsAny(v, ",[]\"") {
			plain = false
			break
		}
	}
	if plain {
		return strings.Join(inputData, ", ")
	}

	b, err := json.Marshal(inputData)
	if err != nil {
		return strings.Join(inputData, ", ")
	}
	return string(b)
}

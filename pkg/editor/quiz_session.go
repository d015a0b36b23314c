package editor

import (
	"context"
	"sync"
	"time"

	"github.com/edustack/content-studio/internal/models"
	"github.com/edustack/content-studio/pkg/client"
)

// QuizSession is one editing session of the quiz form. It mirrors
// ChallengeSession, with questions and free-text instructions as the
// child lists.
type QuizSession struct {
	api      *client.Client
	draft    *client.DraftSession
	notifier *Notifier

	mu    sync.Mutex
	state State
	form  client.QuizForm
}

// NewQuizSession creates an empty quiz editing session with the default
// instruction set and one default question
func NewQuizSession(api *client.Client, opts ...SessionOption) *QuizSession {
	cfg := newSessionConfig(opts)
	return &QuizSession{
		api:      api,
		draft:    client.NewDraftSession(),
		notifier: NewNotifier(cfg.notificationTTL),
		state:    StateEmpty,
		form:     defaultQuizForm(),
	}
}

// State returns the session's lifecycle state
func (s *QuizSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notifier returns the session's notification surface
func (s *QuizSession) Notifier() *Notifier {
	return s.notifier
}

// DraftID returns the tracked draft id, or "" when none is tracked
func (s *QuizSession) DraftID() string {
	return s.draft.ID()
}

// Form returns a snapshot of the current form state
func (s *QuizSession) Form() client.QuizForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyQuizForm(s.form)
}

// Edit applies a mutation to the form fields
func (s *QuizSession) Edit(mutate func(*client.QuizForm)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.form)
	if s.state == StateEmpty {
		s.state = StateEditing
	}
}

// AddQuestion appends a new default-valued question
func (s *QuizSession) AddQuestion() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := defaultQuestion()
	s.form.Questions = append(s.form.Questions, q)
	if s.state == StateEmpty {
		s.state = StateEditing
	}
	return q.TempID
}

// RemoveQuestion deletes the question with the given temp id. Removing
// the last remaining question is a no-op.
func (s *QuizSession) RemoveQuestion(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.form.Questions) <= 1 {
		return
	}

	kept := s.form.Questions[:0]
	for _, q := range s.form.Questions {
		if q.TempID != tempID {
			kept = append(kept, q)
		}
	}
	s.form.Questions = kept
}

// UpdateQuestion mutates the question with the given temp id
func (s *QuizSession) UpdateQuestion(tempID string, mutate func(*client.QuestionForm)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.form.Questions {
		if s.form.Questions[i].TempID == tempID {
			mutate(&s.form.Questions[i])
			if s.state == StateEmpty {
				s.state = StateEditing
			}
			return
		}
	}
}

// AddInstruction appends an empty instruction line
func (s *QuizSession) AddInstruction() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form.Instructions = append(s.form.Instructions, "")
	if s.state == StateEmpty {
		s.state = StateEditing
	}
}

// RemoveInstruction deletes the instruction at the given index. Removing
// the last remaining instruction, or using an out-of-range index, is a
// no-op.
func (s *QuizSession) RemoveInstruction(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.form.Instructions) <= 1 || index < 0 || index >= len(s.form.Instructions) {
		return
	}
	s.form.Instructions = append(s.form.Instructions[:index], s.form.Instructions[index+1:]...)
}

// UpdateInstruction replaces the instruction text at the given index
func (s *QuizSession) UpdateInstruction(index int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.form.Instructions) {
		return
	}
	s.form.Instructions[index] = text
	if s.state == StateEmpty {
		s.state = StateEditing
	}
}

// SaveDraft submits the form as a draft; see ChallengeSession.SaveDraft
func (s *QuizSession) SaveDraft(ctx context.Context) client.SubmitResult {
	form, ok := s.beginSubmit()
	if !ok {
		return client.SubmitResult{Message: "A submission is already in progress"}
	}

	result := s.api.SaveDraftQuiz(ctx, s.draft, form)

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

// Publish submits the form for publication; see ChallengeSession.Publish
func (s *QuizSession) Publish(ctx context.Context) client.SubmitResult {
	form, ok := s.beginSubmit()
	if !ok {
		return client.SubmitResult{Message: "A submission is already in progress"}
	}

	result := s.api.PublishQuiz(ctx, s.draft, form)

	s.mu.Lock()
	if result.Success {
		s.form = defaultQuizForm()
		s.state = StateEmpty
	} else {
		s.state = StateEditing
	}
	s.mu.Unlock()

	if result.Success {
		s.notifier.Push(NoteSuccess, "Quiz published successfully")
	} else {
		s.notifier.Push(NoteError, result.Message)
	}

	return result
}

// ClearDraft discards the tracked draft id without touching the remote
// record or the field state
func (s *QuizSession) ClearDraft() {
	s.draft.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateDraftSaved {
		s.state = StateEditing
	}
}

// Load populates the session from an existing record. Records with no
// stored instructions get the default set, and records with no questions
// get one default question, so the form is always editable.
func (s *QuizSession) Load(ctx context.Context, id string) error {
	quiz, err := s.api.GetQuiz(ctx, id)
	if err != nil {
		return err
	}

	form := quizFormFromRecord(quiz)

	s.mu.Lock()
	s.form = form
	if quiz.Status == models.StatusDraft {
		s.draft = client.ResumeDraftSession(quiz.ID)
		s.state = StateDraftSaved
	} else {
		s.draft = client.NewDraftSession()
		s.state = StateEditing
	}
	s.mu.Unlock()

	return nil
}

func (s *QuizSession) beginSubmit() (client.QuizForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSubmitting {
		return client.QuizForm{}, false
	}
	s.state = StateSubmitting
	return copyQuizForm(s.form), true
}

func defaultQuizForm() client.QuizForm {
	return client.QuizForm{
		Instructions: DefaultInstructions(),
		TimeLimit:    30,
		Questions:    []client.QuestionForm{defaultQuestion()},
	}
}

func defaultQuestion() client.QuestionForm {
	return client.QuestionForm{
		TempID:  newTempID(),
		Options: make([]string, 4),
		Points:  1,
	}
}

func copyQuizForm(form client.QuizForm) client.QuizForm {
	out := form
	out.Instructions = append([]string(nil), form.Instructions...)
	out.Questions = append([]client.QuestionForm(nil), form.Questions...)
	for i := range out.Questions {
		out.Questions[i].Options = append([]string(nil), form.Questions[i].Options...)
	}
	return out
}

func quizFormFromRecord(quiz *models.Quiz) client.QuizForm {
	form := client.QuizForm{
		Title:          quiz.Title,
		Description:    quiz.Description,
		Instructions:   append([]string(nil), quiz.Instructions...),
		TimeLimit:      quiz.TimeLimit,
		PassingScore:   quiz.PassingScore,
		NotifyStudents: quiz.NotifyStudents,
	}

	if quiz.DueDate != nil {
		form.DueDate = quiz.DueDate.UTC().Format(time.RFC3339)
	}

	for _, q := range quiz.Questions {
		form.Questions = append(form.Questions, client.QuestionForm{
			TempID:        newTempID(),
			Text:          q.QuestionText,
			Options:       append([]string(nil), q.Options...),
			CorrectOption: q.CorrectOption,
			Points:        q.Points,
		})
	}

	if len(form.Instructions) == 0 {
		form.Instructions = DefaultInstructions()
	}
	if len(form.Questions) == 0 {
		form.Questions = []client.QuestionForm{defaultQuestion()}
	}

	return form
}

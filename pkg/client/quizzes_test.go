package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func localUTC(year int, month time.Month, day, hour, min, sec int) string {
	return time.Date(year, month, day, hour, min, sec, 0, time.Local).UTC().Format(time.RFC3339)
}

func TestNormalizeDueDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"rfc3339 utc", "2026-03-05T10:30:00Z", "2026-03-05T10:30:00Z"},
		{"rfc3339 offset", "2026-03-05T10:30:00+05:00", "2026-03-05T05:30:00Z"},
		{"rfc3339 negative offset", "2026-03-05T22:30:00-03:00", "2026-03-06T01:30:00Z"},
		{"subsecond dropped", "2026-03-05T10:30:00.789Z", "2026-03-05T10:30:00Z"},
		{"compact offset", "2026-03-05T10:30:00+0500", "2026-03-05T05:30:00Z"},
		{"zoned no seconds", "2026-03-05T10:30Z", "2026-03-05T10:30:00Z"},
		{"lowercase z", "2026-03-05T10:30:00z", "2026-03-05T10:30:00Z"},
		{"bare date is end of day", "2026-03-05", localUTC(2026, 3, 5, 23, 59, 59)},
		{"bare datetime is local", "2026-03-05T10:30:00", localUTC(2026, 3, 5, 10, 30, 0)},
		{"bare datetime no seconds", "2026-03-05T10:30", localUTC(2026, 3, 5, 10, 30, 0)},
		{"space separator", "2026-03-05 10:30:00", localUTC(2026, 3, 5, 10, 30, 0)},
		{"surrounding whitespace", "  2026-03-05T10:30:00Z  ", "2026-03-05T10:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDueDate(tt.input)
			if err != nil {
				t.Fatalf("NormalizeDueDate(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeDueDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDueDateIdempotent(t *testing.T) {
	inputs := []string{"2026-03-05T10:30:00+05:00", "2026-03-05", "2026-12-31T23:59"}
	for _, input := range inputs {
		first, err := NormalizeDueDate(input)
		if err != nil {
			t.Fatalf("first pass on %q failed: %v", input, err)
		}
		second, err := NormalizeDueDate(first)
		if err != nil {
			t.Fatalf("second pass on %q failed: %v", first, err)
		}
		if second != first {
			t.Errorf("normalizing %q twice changed it: %q then %q", input, first, second)
		}
	}
}

func TestNormalizeDueDateInvalid(t *testing.T) {
	for _, input := range []string{"", "  ", "not-a-date", "2026-13-45", "05/03/2026"} {
		if _, err := NormalizeDueDate(input); err == nil {
			t.Errorf("NormalizeDueDate(%q) expected an error", input)
		}
	}
}

// countingTransport records how many requests actually left the client
type countingTransport struct {
	calls int
	inner http.RoundTripper
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.inner.RoundTrip(req)
}

func validQuizForm() QuizForm {
	return QuizForm{
		Title:        "Midterm Review",
		Description:  "Covers weeks 1-6",
		Instructions: []string{"Read each question carefully", " ", "No calculators"},
		TimeLimit:    30,
		PassingScore: 70,
		DueDate:      "2026-06-01T10:00:00Z",
		Questions: []QuestionForm{
			{
				TempID:        "q1",
				Text:          "What is 2+2?",
				Options:       []string{"3", "4", "5", "6"},
				CorrectOption: 1,
				Points:        5,
			},
		},
	}
}

func TestSaveDraftQuizInvalidDueDateSendsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for an invalid due date")
	}))
	defer srv.Close()

	transport := &countingTransport{inner: http.DefaultTransport}
	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Transport: transport}))

	form := validQuizForm()
	form.DueDate = "next tuesday"

	result := c.SaveDraftQuiz(context.Background(), NewDraftSession(), form)
	if result.Success {
		t.Error("expected failure")
	}
	if result.Message != "Invalid due date" {
		t.Errorf("message = %q, want %q", result.Message, "Invalid due date")
	}
	if transport.calls != 0 {
		t.Errorf("expected 0 requests, got %d", transport.calls)
	}
}

func TestQuizValidationOrder(t *testing.T) {
	base := validQuizForm()

	tests := []struct {
		name   string
		mutate func(*QuizForm)
		want   string
	}{
		{"missing title", func(f *QuizForm) { f.Title = "  " }, "Title is required"},
		{"missing description", func(f *QuizForm) { f.Description = "" }, "Description is required"},
		{"zero time limit", func(f *QuizForm) { f.TimeLimit = 0 }, "Time limit must be at least 1 minute"},
		{"score out of range", func(f *QuizForm) { f.PassingScore = 101 }, "Passing score must be between 0 and 100"},
		{"missing due date", func(f *QuizForm) { f.DueDate = "" }, "Due date is required"},
		{"blank question text", func(f *QuizForm) { f.Questions[0].Text = "" }, "Question 1: question text is required"},
		{"blank option", func(f *QuizForm) { f.Questions[0].Options[2] = " " }, "Question 1: all four options are required"},
		{"three options", func(f *QuizForm) { f.Questions[0].Options = []string{"a", "b", "c"} }, "Question 1: exactly four options are required"},
		{"correct option out of range", func(f *QuizForm) { f.Questions[0].CorrectOption = 4 }, "Question 1: a correct option must be selected"},
	}

	// Earlier rules win even when later fields are also invalid
	combined := base
	combined.Title = ""
	combined.TimeLimit = 0
	if got := validateQuizForm(combined); got != "Title is required" {
		t.Errorf("combined violations: got %q, want first rule", got)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validQuizForm()
			tt.mutate(&form)
			if got := validateQuizForm(form); got != tt.want {
				t.Errorf("validateQuizForm = %q, want %q", got, tt.want)
			}
		})
	}

	if got := validateQuizForm(validQuizForm()); got != "" {
		t.Errorf("valid form rejected: %q", got)
	}
}

func TestQuizDraftLifecycle(t *testing.T) {
	var mu sync.Mutex
	var bodies []map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		mu.Lock()
		bodies = append(bodies, body)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": "quiz-123"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sess := NewDraftSession()
	form := validQuizForm()

	body := func(i int) map[string]interface{} {
		mu.Lock()
		defer mu.Unlock()
		return bodies[i]
	}

	// First save: no id in the payload
	result := c.SaveDraftQuiz(context.Background(), sess, form)
	if !result.Success {
		t.Fatalf("first save failed: %s", result.Message)
	}
	if _, present := body(0)["id"]; present {
		t.Error("first save must not carry an id")
	}
	if sess.ID() != "quiz-123" {
		t.Errorf("session id = %q, want quiz-123", sess.ID())
	}

	// Second save: the tracked id rides along
	if result := c.SaveDraftQuiz(context.Background(), sess, form); !result.Success {
		t.Fatalf("second save failed: %s", result.Message)
	}
	if body(1)["id"] != "quiz-123" {
		t.Errorf("second save id = %v, want quiz-123", body(1)["id"])
	}
	if body(1)["action"] != "save_draft" {
		t.Errorf("action = %v, want save_draft", body(1)["action"])
	}

	// Publish: targets the draft, then clears the session
	if result := c.PublishQuiz(context.Background(), sess, form); !result.Success {
		t.Fatalf("publish failed: %s", result.Message)
	}
	if body(2)["id"] != "quiz-123" {
		t.Errorf("publish id = %v, want quiz-123", body(2)["id"])
	}
	if body(2)["action"] != "publish" {
		t.Errorf("action = %v, want publish", body(2)["action"])
	}
	if sess.ID() != "" {
		t.Errorf("session id not cleared after publish: %q", sess.ID())
	}
}

func TestQuizPayloadShape(t *testing.T) {
	form := validQuizForm()
	form.Questions = append(form.Questions, QuestionForm{
		TempID:        "q2",
		Text:          "Pick one",
		Options:       []string{"a", "b", "c", "d"},
		CorrectOption: 0,
		Points:        2,
	})

	payload, msg := buildQuizPayload(form, actionPublish, "")
	if msg != "" {
		t.Fatalf("unexpected validation failure: %s", msg)
	}

	// Blank instructions are dropped, the rest trimmed
	if len(payload.Instructions) != 2 {
		t.Fatalf("instructions = %v, want 2 entries", payload.Instructions)
	}

	// Question order is 1-based and follows list position
	for i, q := range payload.Questions {
		if q.OrderIdx != i+1 {
			t.Errorf("question %d OrderIdx = %d, want %d", i, q.OrderIdx, i+1)
		}
	}

	// The due date goes out normalized
	if payload.DueDate != "2026-06-01T10:00:00Z" {
		t.Errorf("due date = %q", payload.DueDate)
	}

	// Temp ids never reach the wire
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "q1") || strings.Contains(string(raw), "TempID") {
		t.Errorf("payload leaked a temp id: %s", raw)
	}
}

func TestPublishQuizServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"errors":  map[string]string{"title": "already exists"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sess := ResumeDraftSession("quiz-9")

	result := c.PublishQuiz(context.Background(), sess, validQuizForm())
	if result.Success {
		t.Fatal("expected failure")
	}
	want := "Failed to publish quiz: title: already exists"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
	if sess.ID() != "quiz-9" {
		t.Errorf("failed publish must not clear the session, id = %q", sess.ID())
	}
}

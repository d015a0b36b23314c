package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func validChallengeForm() ChallengeForm {
	return ChallengeForm{
		Title:            "Two Sum",
		ShortDescription: "Find two numbers that add up to a target",
		ProblemStatement: "Given an array of integers...",
		DifficultyLevel:  "easy",
		RewardPoints:     100,
		EstimatedTime:    20,
		Tags:             []string{"arrays", "hashing"},
		TestCases: []TestCaseForm{
			{
				TempID:         "tc1",
				Input:          `["[2,7,11,15]", "9"]`,
				ExpectedOutput: "[0,1]",
				IsExample:      true,
				PointsWeight:   10,
			},
		},
	}
}

func TestParseInputData(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"json array of strings", `["[1,3,5]", "7"]`, []string{"[1,3,5]", "7"}},
		{"json array mixed types", `[1, "two", true]`, []string{"1", "two", "true"}},
		{"json array nested", `[[1,2], "x"]`, []string{"[1,2]", "x"}},
		{"empty json array", `[]`, []string{}},
		{"comma fallback", "1,3,5", []string{"1", "3", "5"}},
		{"comma fallback trims", " a , b ,  c ", []string{"a", "b", "c"}},
		{"comma fallback drops empties", "a,,b,", []string{"a", "b"}},
		{"single value", "hello", []string{"hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInputData(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseInputData(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseInputData(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestChallengeValidationOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChallengeForm)
		want   string
	}{
		{"missing title", func(f *ChallengeForm) { f.Title = "" }, "Title is required"},
		{"missing short description", func(f *ChallengeForm) { f.ShortDescription = " " }, "Short description is required"},
		{"missing problem statement", func(f *ChallengeForm) { f.ProblemStatement = "" }, "Problem statement is required"},
		{"missing difficulty", func(f *ChallengeForm) { f.DifficultyLevel = "" }, "Difficulty level is required"},
		{"zero reward points", func(f *ChallengeForm) { f.RewardPoints = 0 }, "Reward points must be at least 1"},
		{"zero estimated time", func(f *ChallengeForm) { f.EstimatedTime = 0 }, "Estimated time must be at least 1 minute"},
		{"blank test case input", func(f *ChallengeForm) { f.TestCases[0].Input = "" }, "Test case 1: input is required"},
		{"blank expected output", func(f *ChallengeForm) { f.TestCases[0].ExpectedOutput = " " }, "Test case 1: expected output is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validChallengeForm()
			tt.mutate(&form)
			if got := validateChallengeForm(form); got != tt.want {
				t.Errorf("validateChallengeForm = %q, want %q", got, tt.want)
			}
		})
	}

	// Title always wins when several fields are invalid
	form := validChallengeForm()
	form.Title = ""
	form.RewardPoints = 0
	form.TestCases[0].Input = ""
	if got := validateChallengeForm(form); got != "Title is required" {
		t.Errorf("combined violations: got %q, want first rule", got)
	}
}

func TestValidationFailureSendsNothing(t *testing.T) {
	transport := &countingTransport{inner: http.DefaultTransport}
	c := NewClient("http://localhost:0", WithHTTPClient(&http.Client{Transport: transport}))

	form := validChallengeForm()
	form.Title = ""

	result := c.SaveDraftChallenge(context.Background(), NewDraftSession(), form)
	if result.Success {
		t.Error("expected failure")
	}
	if result.Message != "Title is required" {
		t.Errorf("message = %q", result.Message)
	}
	if transport.calls != 0 {
		t.Errorf("expected 0 requests, got %d", transport.calls)
	}
}

func TestChallengePayloadShape(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": "ch-1"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	form := validChallengeForm()
	form.TestCases = append(form.TestCases, TestCaseForm{
		TempID:         "tc2",
		Input:          "1,2,3",
		ExpectedOutput: "6",
		IsHidden:       true,
		PointsWeight:   20,
	})

	result := c.SaveDraftChallenge(context.Background(), NewDraftSession(), form)
	if !result.Success {
		t.Fatalf("save failed: %s", result.Message)
	}

	if captured["action"] != "save_draft" {
		t.Errorf("action = %v", captured["action"])
	}
	if captured["difficulty_level"] != "easy" {
		t.Errorf("difficulty_level = %v", captured["difficulty_level"])
	}

	cases, ok := captured["test_cases"].([]interface{})
	if !ok || len(cases) != 2 {
		t.Fatalf("test_cases = %v", captured["test_cases"])
	}

	first := cases[0].(map[string]interface{})
	if !reflect.DeepEqual(first["input_data"], []interface{}{"[2,7,11,15]", "9"}) {
		t.Errorf("input_data = %v", first["input_data"])
	}
	if first["order_idx"] != float64(1) {
		t.Errorf("first order_idx = %v", first["order_idx"])
	}

	second := cases[1].(map[string]interface{})
	if !reflect.DeepEqual(second["input_data"], []interface{}{"1", "2", "3"}) {
		t.Errorf("fallback input_data = %v", second["input_data"])
	}
	if second["order_idx"] != float64(2) {
		t.Errorf("second order_idx = %v", second["order_idx"])
	}
	if second["is_hidden"] != true {
		t.Errorf("is_hidden = %v", second["is_hidden"])
	}
}

func TestSubmitNetworkError(t *testing.T) {
	// Nothing listens here; the request fails at the transport
	c := NewClient("http://127.0.0.1:1", WithHTTPClient(&http.Client{}))

	result := c.SaveDraftChallenge(context.Background(), NewDraftSession(), validChallengeForm())
	if result.Success {
		t.Fatal("expected failure")
	}
	want := "Failed to save draft challenge: Network error"
	if result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
}

func TestSubmitMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	sess := NewDraftSession()

	result := c.SaveDraftChallenge(context.Background(), sess, validChallengeForm())
	if !result.Success {
		t.Fatalf("a 2xx with a bad body still counts as success: %s", result.Message)
	}
	if result.RecordID() != "" {
		t.Errorf("no id should be extracted, got %q", result.RecordID())
	}
	if sess.ID() != "" {
		t.Errorf("session must stay untracked, got %q", sess.ID())
	}
}

func TestGetChallengeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"challenge not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.GetChallenge(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

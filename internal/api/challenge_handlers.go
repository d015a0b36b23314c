package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustack/content-studio/internal/content"
	"github.com/edustack/content-studio/internal/models"
)

type testCaseRequest struct {
	InputData      []string `json:"input_data"`
	ExpectedOutput string   `json:"expected_output"`
	Explanation    string   `json:"explanation"`
	IsHidden       bool     `json:"is_hidden"`
	IsExample      bool     `json:"is_example"`
	PointsWeight   int      `json:"points_weight"`
	OrderIdx       int      `json:"order_idx"`
}

type challengeRequest struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	ShortDescription string            `json:"short_description"`
	ProblemStatement string            `json:"problem_statement"`
	DifficultyLevel  string            `json:"difficulty_level"`
	RewardPoints     int               `json:"reward_points"`
	EstimatedTime    int               `json:"estimated_time"`
	Tags             []string          `json:"tags"`
	TestCases        []testCaseRequest `json:"test_cases"`
	Action           string            `json:"action"`
}

type listResponse struct {
	Data           interface{}       `json:"data"`
	TotalCount     int               `json:"total_count"`
	Message        string            `json:"message"`
	FiltersApplied map[string]string `json:"filters_applied"`
}

func (s *Server) handleSaveChallenge(w http.ResponseWriter, r *http.Request) {
	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ch := &models.Challenge{
		ID:               req.ID,
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		ProblemStatement: req.ProblemStatement,
		DifficultyLevel:  req.DifficultyLevel,
		RewardPoints:     req.RewardPoints,
		EstimatedTime:    req.EstimatedTime,
		Tags:             req.Tags,
	}
	for _, tc := range req.TestCases {
		ch.TestCases = append(ch.TestCases, models.TestCase{
			InputData:      tc.InputData,
			ExpectedOutput: tc.ExpectedOutput,
			Explanation:    tc.Explanation,
			IsHidden:       tc.IsHidden,
			IsExample:      tc.IsExample,
			PointsWeight:   tc.PointsWeight,
			OrderIdx:       tc.OrderIdx,
		})
	}

	saved, err := s.manager.SaveChallenge(r.Context(), ch, content.Action(req.Action))
	if err != nil {
		var verr *content.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationErrors(w, verr.Fields)
		case errors.Is(err, content.ErrChallengeNotFound):
			respondError(w, http.StatusNotFound, "challenge not found")
		case errors.Is(err, content.ErrInvalidAction):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to save challenge", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to save challenge")
		}
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, saved, "challenge saved")
}

func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ch, err := s.manager.GetChallenge(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrChallengeNotFound) {
			respondError(w, http.StatusNotFound, "challenge not found")
			return
		}
		slog.Error("failed to get challenge", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to get challenge")
		return
	}

	respondJSON(w, http.StatusOK, ch, "")
}

func (s *Server) handleDeleteChallenge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.manager.DeleteChallenge(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrChallengeNotFound) {
			respondError(w, http.StatusNotFound, "challenge not found")
			return
		}
		slog.Error("failed to delete challenge", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to delete challenge")
		return
	}

	respondJSON(w, http.StatusOK, nil, "challenge deleted")
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	filters, applied := listFiltersFromQuery(r)

	challenges, err := s.manager.ListChallenges(r.Context(), filters)
	if err != nil {
		slog.Error("failed to list challenges", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list challenges")
		return
	}

	if challenges == nil {
		challenges = []*models.Challenge{}
	}

	writePlainJSON(w, http.StatusOK, listResponse{
		Data:           challenges,
		TotalCount:     len(challenges),
		Message:        "challenges retrieved",
		FiltersApplied: applied,
	})
}

// listFiltersFromQuery reads ordering and status filters from the query
// string, echoing back what was actually applied
func listFiltersFromQuery(r *http.Request) (models.ListFilters, map[string]string) {
	q := r.URL.Query()

	filters := models.ListFilters{
		Status:         models.Status(q.Get("status")),
		OrderBy:        q.Get("order_by"),
		OrderDirection: q.Get("order_direction"),
	}

	applied := make(map[string]string)
	for _, key := range []string{"status", "order_by", "order_direction"} {
		if v := q.Get(key); v != "" {
			applied[key] = v
		}
	}

	return filters, applied
}

// writePlainJSON writes a body that is not wrapped in the success envelope.
// The collection endpoints use the dashboard's historical list shape.
func writePlainJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode list response", "error", err)
	}
}

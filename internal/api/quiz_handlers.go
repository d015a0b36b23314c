package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edustack/content-studio/internal/content"
	"github.com/edustack/content-studio/internal/models"
)

type questionRequest struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Points        int      `json:"points"`
	OrderIdx      int      `json:"question_order_idx"`
}

type quizRequest struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Instructions   []string          `json:"instructions"`
	TimeLimit      int               `json:"time_limit"`
	PassingScore   int               `json:"passing_score"`
	DueDate        string            `json:"due_date"`
	NotifyStudents bool              `json:"notify_students"`
	Questions      []questionRequest `json:"questions"`
	Action         string            `json:"action"`
}

func (s *Server) handleSaveQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	q := &models.Quiz{
		ID:             req.ID,
		Title:          req.Title,
		Description:    req.Description,
		Instructions:   req.Instructions,
		TimeLimit:      req.TimeLimit,
		PassingScore:   req.PassingScore,
		NotifyStudents: req.NotifyStudents,
	}

	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			respondValidationErrors(w, map[string]string{
				"due_date": "must be an RFC 3339 timestamp",
			})
			return
		}
		utc := due.UTC()
		q.DueDate = &utc
	}

	for _, question := range req.Questions {
		q.Questions = append(q.Questions, models.Question{
			QuestionText:  question.QuestionText,
			Options:       question.Options,
			CorrectOption: question.CorrectOption,
			Points:        question.Points,
			OrderIdx:      question.OrderIdx,
		})
	}

	saved, err := s.manager.SaveQuiz(r.Context(), q, content.Action(req.Action))
	if err != nil {
		var verr *content.ValidationError
		switch {
		case errors.As(err, &verr):
			respondValidationErrors(w, verr.Fields)
		case errors.Is(err, content.ErrQuizNotFound):
			respondError(w, http.StatusNotFound, "quiz not found")
		case errors.Is(err, content.ErrInvalidAction):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to save quiz", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to save quiz")
		}
		return
	}

	status := http.StatusOK
	if req.ID == "" {
		status = http.StatusCreated
	}
	respondJSON(w, status, saved, "quiz saved")
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q, err := s.manager.GetQuiz(r.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrQuizNotFound) {
			respondError(w, http.StatusNotFound, "quiz not found")
			return
		}
		slog.Error("failed to get quiz", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to get quiz")
		return
	}

	respondJSON(w, http.StatusOK, q, "")
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.manager.DeleteQuiz(r.Context(), id); err != nil {
		if errors.Is(err, content.ErrQuizNotFound) {
			respondError(w, http.StatusNotFound, "quiz not found")
			return
		}
		slog.Error("failed to delete quiz", "error", err, "id", id)
		respondError(w, http.StatusInternalServerError, "failed to delete quiz")
		return
	}

	respondJSON(w, http.StatusOK, nil, "quiz deleted")
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	filters, applied := listFiltersFromQuery(r)

	quizzes, err := s.manager.ListQuizzes(r.Context(), filters)
	if err != nil {
		slog.Error("failed to list quizzes", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list quizzes")
		return
	}

	if quizzes == nil {
		quizzes = []*models.Quiz{}
	}

	writePlainJSON(w, http.StatusOK, listResponse{
		Data:           quizzes,
		TotalCount:     len(quizzes),
		Message:        "quizzes retrieved",
		FiltersApplied: applied,
	})
}

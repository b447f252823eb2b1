package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/repository"
	"github.com/go-chi/chi/v5"
)

type InterviewEndpoints struct {
	repo      *repository.GORMRepository
	lifecycle *Lifecycle
}

func NewInterviewEndpoints(repo *repository.GORMRepository, lifecycle *Lifecycle) *InterviewEndpoints {
	return &InterviewEndpoints{
		repo:      repo,
		lifecycle: lifecycle,
	}
}

type CreateInterviewRequest struct {
	JobRole         string `json:"jobRole"`
	Company         string `json:"company,omitempty"`
	Type            string `json:"type"`
	Difficulty      string `json:"difficulty,omitempty"`
	Mode            string `json:"mode,omitempty"`
	DurationPlanned int    `json:"duration,omitempty"`
}

type SubmitAnswerRequest struct {
	QuestionIndex int    `json:"questionIndex"`
	Answer        string `json:"answer"`
	AudioURL      string `json:"audioUrl,omitempty"`
	VideoURL      string `json:"videoUrl,omitempty"`
	Duration      int    `json:"duration,omitempty"`
}

// InterviewSummary is the trimmed listing shape; the embedded question
// entries stay out of list responses
type InterviewSummary struct {
	ID         string     `json:"id"`
	JobRole    string     `json:"job_role"`
	Company    string     `json:"company,omitempty"`
	Type       string     `json:"type"`
	Difficulty string     `json:"difficulty"`
	Status     string     `json:"status"`
	Questions  int        `json:"questions"`
	Answered   int        `json:"answered"`
	TotalScore *int       `json:"total_score,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interview", func(r chi.Router) {
		r.Post("/create", e.CreateHandler)
		r.Get("/", e.ListHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", e.GetHandler)
			r.Post("/start", e.StartHandler)
			r.Post("/answer", e.AnswerHandler)
			r.Post("/complete", e.CompleteHandler)
		})
	})
}

// writeLifecycleError maps taxonomy errors to their status and hides
// internal detail behind a generic 500
func writeLifecycleError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	http.Error(w, message, status)
}

func (e *InterviewEndpoints) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	interview, err := e.lifecycle.Create(r.Context(), user, CreateInterviewInput{
		JobRole:         req.JobRole,
		Company:         req.Company,
		Type:            req.Type,
		Difficulty:      req.Difficulty,
		Mode:            req.Mode,
		DurationPlanned: req.DurationPlanned,
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidArgument) && !errors.Is(err, ErrQuotaExhausted) {
			slog.Error("Failed to create interview", "error", err, "user_id", user.ID)
		}
		writeLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interview": interview,
	})
}

func (e *InterviewEndpoints) StartHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.lifecycle.Start(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interviewId": interview.ID,
		"questions":   interview.Questions,
		"startTime":   interview.StartTime,
	})
}

func (e *InterviewEndpoints) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := e.lifecycle.SubmitAnswer(r.Context(), user.ID, chi.URLParam(r, "id"), AnswerInput{
		QuestionIndex:   req.QuestionIndex,
		Text:            req.Answer,
		AudioURL:        req.AudioURL,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.Duration,
	})
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	response := map[string]interface{}{
		"feedback": outcome.Feedback,
		"degraded": outcome.Degraded,
	}
	if outcome.NextQuestion != nil {
		response["nextQuestion"] = outcome.NextQuestion
		response["nextIndex"] = outcome.NextIndex
	} else {
		response["nextQuestion"] = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (e *InterviewEndpoints) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.lifecycle.Complete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interview": interview,
		"report":    interview.OverallFeedback,
	})
}

func (e *InterviewEndpoints) GetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	interview, err := e.lifecycle.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeLifecycleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interview": interview,
	})
}

func (e *InterviewEndpoints) ListHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	page, limit := parsePagination(r)
	interviews, total, err := e.repo.ListInterviews(r.Context(), user.ID, page, limit)
	if err != nil {
		slog.Error("Failed to list interviews", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to list interviews", http.StatusInternalServerError)
		return
	}

	summaries := make([]InterviewSummary, 0, len(interviews))
	for _, interview := range interviews {
		summaries = append(summaries, summarize(interview))
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"interviews": summaries,
		"pagination": Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

func summarize(interview models.Interview) InterviewSummary {
	answered := 0
	for i := range interview.Questions {
		if interview.Questions[i].Answered() {
			answered++
		}
	}

	summary := InterviewSummary{
		ID:         interview.ID,
		JobRole:    interview.JobRole,
		Company:    interview.Company,
		Type:       interview.Type,
		Difficulty: interview.Difficulty,
		Status:     interview.Status,
		Questions:  len(interview.Questions),
		Answered:   answered,
		CreatedAt:  interview.CreatedAt,
		EndTime:    interview.EndTime,
	}
	if interview.OverallFeedback != nil {
		score := interview.OverallFeedback.TotalScore
		summary.TotalScore = &score
	}
	return summary
}

func parsePagination(r *http.Request) (page, limit int) {
	page, limit = 1, 10
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}
	return page, limit
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
)

func testAIClient(serverURL string) *AIClient {
	return NewAIClient(AIConfig{
		ServiceURL: serverURL,
		Timeout:    2 * time.Second,
	})
}

func TestGenerateQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-questions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req QuestionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.JobRole != "Backend Engineer" || req.QuestionCount != 10 {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"questions": []map[string]string{
				{"question": "Explain database indexing.", "category": "technical", "difficulty": "medium"},
				{"question": "Describe a time you handled conflict.", "category": "behavioral", "difficulty": "easy"},
			},
		})
	}))
	defer server.Close()

	client := testAIClient(server.URL)
	result := client.GenerateQuestions(context.Background(), QuestionRequest{
		JobRole:       "Backend Engineer",
		Difficulty:    "intermediate",
		QuestionCount: 10,
	})

	if result.Degraded {
		t.Fatalf("result unexpectedly degraded: %s", result.DegradedReason)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(result.Questions))
	}
	if result.Questions[0].Question != "Explain database indexing." {
		t.Errorf("unexpected first question: %q", result.Questions[0].Question)
	}
	if result.Questions[1].Category != models.CategoryBehavioral {
		t.Errorf("unexpected category: %q", result.Questions[1].Category)
	}
}

func TestGenerateQuestionsFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "service error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model unavailable", http.StatusInternalServerError)
			},
		},
		{
			name: "empty question list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"success": true, "questions": []any{}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := testAIClient(server.URL)
			result := client.GenerateQuestions(context.Background(), QuestionRequest{
				JobRole:       "Data Scientist",
				QuestionCount: 10,
			})

			if !result.Degraded {
				t.Fatal("expected degraded result")
			}
			if result.DegradedReason == "" {
				t.Error("expected a degraded reason")
			}
			if len(result.Questions) != 3 {
				t.Fatalf("got %d fallback questions, want 3", len(result.Questions))
			}
			if result.Questions[0].Category != models.CategoryGeneral {
				t.Errorf("first fallback category = %q, want general", result.Questions[0].Category)
			}
			if result.Questions[2].Question != "Why are you interested in this Data Scientist role?" {
				t.Errorf("fallback question not templated: %q", result.Questions[2].Question)
			}
		})
	}
}

func TestAnalyzeAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze-answer" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"feedback": map[string]any{
				"score":             85,
				"strengths":         []string{"Strong technical detail"},
				"improvements":      []string{"Quantify the impact"},
				"technicalAccuracy": 120,
				"communication":     -5,
				"confidence":        80,
			},
		})
	}))
	defer server.Close()

	client := testAIClient(server.URL)
	result := client.AnalyzeAnswer(context.Background(), ScoreRequest{
		Question: "Explain database indexing.",
		Answer:   "An index is a sorted structure that speeds up lookups.",
		Category: "technical",
		JobRole:  "Backend Engineer",
	})

	if result.Degraded {
		t.Fatalf("result unexpectedly degraded: %s", result.DegradedReason)
	}
	if result.Feedback.Score != 85 {
		t.Errorf("Score = %d, want 85", result.Feedback.Score)
	}
	// Out-of-range sub-scores are clamped to [0,100]
	if result.Feedback.TechnicalAccuracy != 100 {
		t.Errorf("TechnicalAccuracy = %d, want clamped to 100", result.Feedback.TechnicalAccuracy)
	}
	if result.Feedback.Communication != 0 {
		t.Errorf("Communication = %d, want clamped to 0", result.Feedback.Communication)
	}
	if result.Feedback.Source != models.FeedbackSourceModel {
		t.Errorf("Source = %q, want %q", result.Feedback.Source, models.FeedbackSourceModel)
	}
}

func TestAnalyzeAnswerFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "timeout", http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := testAIClient(server.URL)
	result := client.AnalyzeAnswer(context.Background(), ScoreRequest{
		Question: "Explain database indexing.",
		Answer:   "An index speeds up lookups.",
	})

	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if result.Feedback.Score < 70 || result.Feedback.Score > 100 {
		t.Errorf("fallback score = %d, want within [70,100]", result.Feedback.Score)
	}
	if result.Feedback.Source != models.FeedbackSourceFallback {
		t.Errorf("Source = %q, want %q", result.Feedback.Source, models.FeedbackSourceFallback)
	}
	if len(result.Feedback.Strengths) == 0 || result.Feedback.Strengths[0] != "Clear communication" {
		t.Errorf("unexpected fallback strengths: %v", result.Feedback.Strengths)
	}
}

func TestParseResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/parse-resume" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"skills": []string{"Go", "PostgreSQL"},
				"name":   "Test User",
			},
		})
	}))
	defer server.Close()

	client := testAIClient(server.URL)
	data, err := client.ParseResume(context.Background(), "Test User. Skills: Go, PostgreSQL.")
	if err != nil {
		t.Fatalf("ParseResume returned error: %v", err)
	}
	if data["name"] != "Test User" {
		t.Errorf("data[name] = %v, want Test User", data["name"])
	}
}

func TestParseResumeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := testAIClient(server.URL)
	if _, err := client.ParseResume(context.Background(), "text"); err == nil {
		t.Fatal("expected error from failing service")
	}
}

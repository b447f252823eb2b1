package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
)

// AIClient talks to the AI microservice that generates interview
// questions, scores answers, and parses resumes. Calls are synchronous
// with a single timeout and no retries; any failure is recovered locally
// with a fallback value tagged as degraded so callers can tell real
// model output from placeholders.
type AIClient struct {
	baseURL string
	client  *http.Client
}

func NewAIClient(cfg AIConfig) *AIClient {
	return &AIClient{
		baseURL: cfg.ServiceURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type QuestionRequest struct {
	JobRole       string         `json:"jobRole"`
	Difficulty    string         `json:"difficulty"`
	ResumeData    map[string]any `json:"resumeData,omitempty"`
	QuestionCount int            `json:"questionCount"`
}

// QuestionResult carries the generated questions. Degraded marks the
// fixed fallback list substituted when the service call failed.
type QuestionResult struct {
	Questions      []models.QuestionEntry
	Degraded       bool
	DegradedReason string
}

type ScoreRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	JobRole  string `json:"jobRole"`
}

// ScoreResult carries the per-answer feedback. Degraded marks the local
// fallback feedback substituted when the service call failed.
type ScoreResult struct {
	Feedback       models.Feedback
	Degraded       bool
	DegradedReason string
}

// GenerateQuestions asks the AI service for an ordered question list.
// On any transport, status, or decode failure it substitutes the fixed
// three-question fallback list and reports the result as degraded.
func (c *AIClient) GenerateQuestions(ctx context.Context, req QuestionRequest) QuestionResult {
	var resp struct {
		Success   bool `json:"success"`
		Questions []struct {
			Question     string `json:"question"`
			Category     string `json:"category"`
			Difficulty   string `json:"difficulty"`
			ExpectedHint string `json:"expectedAnswer,omitempty"`
		} `json:"questions"`
	}

	if err := c.postJSON(ctx, "/generate-questions", req, &resp); err != nil {
		slog.Warn("Question generation degraded to fallback", "error", err, "job_role", req.JobRole)
		return QuestionResult{
			Questions:      FallbackQuestions(req.JobRole),
			Degraded:       true,
			DegradedReason: err.Error(),
		}
	}
	if len(resp.Questions) == 0 {
		slog.Warn("Question generation returned no questions, using fallback", "job_role", req.JobRole)
		return QuestionResult{
			Questions:      FallbackQuestions(req.JobRole),
			Degraded:       true,
			DegradedReason: "empty question list",
		}
	}

	questions := make([]models.QuestionEntry, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		questions = append(questions, models.QuestionEntry{
			Question:     q.Question,
			Category:     q.Category,
			Difficulty:   q.Difficulty,
			ExpectedHint: q.ExpectedHint,
		})
	}

	slog.Info("Questions generated", "job_role", req.JobRole, "count", len(questions))
	return QuestionResult{Questions: questions}
}

// AnalyzeAnswer asks the AI service to score a question/answer pair. On
// any failure it substitutes fixed fallback feedback (score in [70,100])
// and reports the result as degraded.
func (c *AIClient) AnalyzeAnswer(ctx context.Context, req ScoreRequest) ScoreResult {
	var resp struct {
		Success  bool `json:"success"`
		Feedback struct {
			Score             int      `json:"score"`
			Strengths         []string `json:"strengths"`
			Improvements      []string `json:"improvements"`
			TechnicalAccuracy int      `json:"technicalAccuracy"`
			Communication     int      `json:"communication"`
			Confidence        int      `json:"confidence"`
		} `json:"feedback"`
	}

	if err := c.postJSON(ctx, "/analyze-answer", req, &resp); err != nil {
		slog.Warn("Answer scoring degraded to fallback", "error", err, "job_role", req.JobRole)
		return ScoreResult{
			Feedback:       FallbackFeedback(),
			Degraded:       true,
			DegradedReason: err.Error(),
		}
	}

	return ScoreResult{
		Feedback: models.Feedback{
			Score:             clampScore(resp.Feedback.Score),
			Strengths:         resp.Feedback.Strengths,
			Improvements:      resp.Feedback.Improvements,
			TechnicalAccuracy: clampScore(resp.Feedback.TechnicalAccuracy),
			Communication:     clampScore(resp.Feedback.Communication),
			Confidence:        clampScore(resp.Feedback.Confidence),
			Source:            models.FeedbackSourceModel,
		},
	}
}

// ParseResume sends raw resume text to the AI service and returns the
// structured data it extracted. Unlike questions and scoring there is no
// fallback shape worth substituting; the caller stores the resume
// without parsed data on failure.
func (c *AIClient) ParseResume(ctx context.Context, text string) (map[string]any, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}

	req := struct {
		Text string `json:"text"`
	}{Text: text}

	if err := c.postJSON(ctx, "/parse-resume", req, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *AIClient) postJSON(ctx context.Context, path string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("AI service error: %d - %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FallbackQuestions is the fixed list substituted when question
// generation is unavailable
func FallbackQuestions(jobRole string) []models.QuestionEntry {
	return []models.QuestionEntry{
		{
			Question:   "Tell me about yourself and your background.",
			Category:   models.CategoryGeneral,
			Difficulty: "easy",
		},
		{
			Question:   "Describe a challenging project you worked on and how you handled it.",
			Category:   models.CategoryBehavioral,
			Difficulty: "medium",
		},
		{
			Question:   fmt.Sprintf("Why are you interested in this %s role?", jobRole),
			Category:   models.CategoryBehavioral,
			Difficulty: "easy",
		},
	}
}

// FallbackFeedback is the placeholder feedback substituted when answer
// scoring is unavailable. The score is pseudo-random in [70,100] so
// completed interviews still aggregate to plausible totals.
func FallbackFeedback() models.Feedback {
	score := 70 + rand.Intn(31)
	return models.Feedback{
		Score:             score,
		Strengths:         []string{"Clear communication"},
		Improvements:      []string{"Add more specific examples from your experience"},
		TechnicalAccuracy: score,
		Communication:     score,
		Confidence:        score,
		Source:            models.FeedbackSourceFallback,
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
	"github.com/google/uuid"
)

// DesiredQuestionCount is how many questions Create requests from the
// question provider
const DesiredQuestionCount = 10

// InterviewStore is the persistence surface the lifecycle needs
type InterviewStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	DecrementInterviewQuota(ctx context.Context, userID string) (bool, error)
	CreateInterview(ctx context.Context, interview *models.Interview) error
	GetInterviewForUser(ctx context.Context, interviewID, userID string) (*models.Interview, error)
	SaveInterview(ctx context.Context, interview *models.Interview) error
}

// QuestionProvider supplies the ordered question list for a new interview
type QuestionProvider interface {
	GenerateQuestions(ctx context.Context, req QuestionRequest) QuestionResult
}

// AnswerScorer supplies per-answer feedback
type AnswerScorer interface {
	AnalyzeAnswer(ctx context.Context, req ScoreRequest) ScoreResult
}

// Lifecycle orchestrates the interview state machine:
// scheduled -> in-progress -> completed. Each operation loads the whole
// record, mutates it, and persists it back in one write.
type Lifecycle struct {
	store    InterviewStore
	provider QuestionProvider
	scorer   AnswerScorer
}

func NewLifecycle(store InterviewStore, provider QuestionProvider, scorer AnswerScorer) *Lifecycle {
	return &Lifecycle{
		store:    store,
		provider: provider,
		scorer:   scorer,
	}
}

type CreateInterviewInput struct {
	JobRole         string
	Company         string
	Type            string
	Difficulty      string
	Mode            string
	DurationPlanned int
}

// AnswerInput is one submitted answer for the question at QuestionIndex
type AnswerInput struct {
	QuestionIndex   int
	Text            string
	AudioURL        string
	VideoURL        string
	DurationSeconds int
}

// AnswerOutcome is what SubmitAnswer hands back: the feedback just
// computed (tagged when it is a fallback) and the question at index+1,
// or NextIndex -1 when the answered index was the last one.
type AnswerOutcome struct {
	Feedback       models.Feedback
	Degraded       bool
	DegradedReason string
	NextIndex      int
	NextQuestion   *models.QuestionEntry
}

var validInterviewTypes = map[string]bool{
	"text":  true,
	"audio": true,
	"video": true,
}

// Create gates the user's quota, fetches the question list, and persists
// a new scheduled interview. Free-plan quota is consumed atomically
// before any external call; non-free plans are not metered.
func (l *Lifecycle) Create(ctx context.Context, user *models.User, in CreateInterviewInput) (*models.Interview, error) {
	if in.JobRole == "" || in.Type == "" {
		return nil, fmt.Errorf("%w: job role and type are required", ErrInvalidArgument)
	}
	if !validInterviewTypes[in.Type] {
		return nil, fmt.Errorf("%w: type must be text, audio, or video", ErrInvalidArgument)
	}
	if in.Difficulty == "" {
		in.Difficulty = "intermediate"
	}
	if in.Mode == "" {
		in.Mode = "practice"
	}
	if in.DurationPlanned <= 0 {
		in.DurationPlanned = 30
	}

	if user.Subscription.Plan == "free" {
		ok, err := l.store.DecrementInterviewQuota(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check interview quota: %w", err)
		}
		if !ok {
			return nil, ErrQuotaExhausted
		}
	}

	result := l.provider.GenerateQuestions(ctx, QuestionRequest{
		JobRole:       in.JobRole,
		Difficulty:    in.Difficulty,
		ResumeData:    user.Resume.ParsedData,
		QuestionCount: DesiredQuestionCount,
	})

	source := models.FeedbackSourceModel
	if result.Degraded {
		source = models.FeedbackSourceFallback
	}

	interview := &models.Interview{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		JobRole:         in.JobRole,
		Company:         in.Company,
		Type:            in.Type,
		Difficulty:      in.Difficulty,
		Mode:            in.Mode,
		DurationPlanned: in.DurationPlanned,
		Status:          models.StatusScheduled,
		SkillsAssessed:  assessedSkills(user),
		QuestionSource:  source,
		Questions:       result.Questions,
	}

	if err := l.store.CreateInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	slog.Info("Interview created", "interview_id", interview.ID, "user_id", user.ID,
		"job_role", in.JobRole, "questions", len(result.Questions), "degraded", result.Degraded)
	return interview, nil
}

// Start moves a scheduled interview to in-progress and records the start
// time. Restarting an interview that already left scheduled is rejected;
// the start time is never silently overwritten.
func (l *Lifecycle) Start(ctx context.Context, userID, interviewID string) (*models.Interview, error) {
	interview, err := l.loadOwned(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusScheduled {
		return nil, fmt.Errorf("%w: cannot start interview in status %q", ErrInvalidState, interview.Status)
	}

	now := time.Now()
	interview.Status = models.StatusInProgress
	interview.StartTime = &now

	if err := l.store.SaveInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to start interview: %w", err)
	}

	slog.Info("Interview started", "interview_id", interview.ID, "user_id", userID)
	return interview, nil
}

// SubmitAnswer writes the answer and its feedback onto the indexed
// question entry in one step. Entries may be answered in any order;
// unanswered gaps are allowed and the bounds check precedes any write.
func (l *Lifecycle) SubmitAnswer(ctx context.Context, userID, interviewID string, in AnswerInput) (*AnswerOutcome, error) {
	interview, err := l.loadOwned(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, fmt.Errorf("%w: cannot answer interview in status %q", ErrInvalidState, interview.Status)
	}
	if in.QuestionIndex < 0 || in.QuestionIndex >= len(interview.Questions) {
		return nil, fmt.Errorf("%w: question index %d out of range [0, %d)", ErrInvalidArgument, in.QuestionIndex, len(interview.Questions))
	}
	if in.Text == "" && in.AudioURL == "" && in.VideoURL == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidArgument)
	}

	entry := &interview.Questions[in.QuestionIndex]
	result := l.scorer.AnalyzeAnswer(ctx, ScoreRequest{
		Question: entry.Question,
		Answer:   in.Text,
		Category: entry.Category,
		JobRole:  interview.JobRole,
	})

	now := time.Now()
	entry.UserAnswer = &models.UserAnswer{
		Text:            in.Text,
		AudioURL:        in.AudioURL,
		VideoURL:        in.VideoURL,
		DurationSeconds: in.DurationSeconds,
	}
	feedback := result.Feedback
	entry.Feedback = &feedback
	entry.AnsweredAt = &now

	if err := l.store.SaveInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	outcome := &AnswerOutcome{
		Feedback:       result.Feedback,
		Degraded:       result.Degraded,
		DegradedReason: result.DegradedReason,
		NextIndex:      -1,
	}
	if next := in.QuestionIndex + 1; next < len(interview.Questions) {
		question := interview.Questions[next]
		outcome.NextIndex = next
		outcome.NextQuestion = &question
	}

	slog.Info("Answer submitted", "interview_id", interview.ID, "user_id", userID,
		"question_index", in.QuestionIndex, "score", result.Feedback.Score, "degraded", result.Degraded)
	return outcome, nil
}

// Complete finalizes an in-progress interview: end time, actual duration
// in whole minutes, and the aggregate feedback block. Completing an
// interview that never started is rejected, so the duration is always
// well defined. Once completed the record is immutable through the API.
func (l *Lifecycle) Complete(ctx context.Context, userID, interviewID string) (*models.Interview, error) {
	interview, err := l.loadOwned(ctx, userID, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.Status != models.StatusInProgress {
		return nil, fmt.Errorf("%w: cannot complete interview in status %q", ErrInvalidState, interview.Status)
	}
	if interview.StartTime == nil {
		return nil, fmt.Errorf("%w: interview has no start time", ErrInvalidState)
	}

	now := time.Now()
	interview.Status = models.StatusCompleted
	interview.EndTime = &now
	interview.DurationActual = int(math.Round(now.Sub(*interview.StartTime).Minutes()))
	if interview.DurationActual < 0 {
		interview.DurationActual = 0
	}
	interview.OverallFeedback = ComputeOverallFeedback(interview.Questions)

	if err := l.store.SaveInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to complete interview: %w", err)
	}

	slog.Info("Interview completed", "interview_id", interview.ID, "user_id", userID,
		"total_score", interview.OverallFeedback.TotalScore, "answered", interview.OverallFeedback.AnsweredCount,
		"duration_minutes", interview.DurationActual)
	return interview, nil
}

// Get returns an owner-checked interview record
func (l *Lifecycle) Get(ctx context.Context, userID, interviewID string) (*models.Interview, error) {
	return l.loadOwned(ctx, userID, interviewID)
}

func (l *Lifecycle) loadOwned(ctx context.Context, userID, interviewID string) (*models.Interview, error) {
	interview, err := l.store.GetInterviewForUser(ctx, interviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return nil, ErrNotFound
	}
	return interview, nil
}

// assessedSkills snapshots the skills an interview covers at creation
// time, preferring the parsed resume over the self-reported profile so
// later profile edits do not shift historical statistics
func assessedSkills(user *models.User) []string {
	if raw, ok := user.Resume.ParsedData["skills"]; ok {
		if list, ok := raw.([]any); ok {
			skills := make([]string, 0, len(list))
			for _, item := range list {
				if s, ok := item.(string); ok && s != "" {
					skills = append(skills, s)
				}
			}
			if len(skills) > 0 {
				return skills
			}
		}
	}
	return user.Skills
}

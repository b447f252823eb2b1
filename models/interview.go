package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interview statuses. Status only moves forward: scheduled -> in-progress
// -> completed. Cancelled is reachable from any non-terminal state but is
// set externally, never by a lifecycle operation.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Question categories
const (
	CategoryTechnical   = "technical"
	CategoryBehavioral  = "behavioral"
	CategorySituational = "situational"
	CategoryGeneral     = "general"
)

// Feedback sources. Fallback feedback is produced locally when the AI
// service is unreachable and must stay distinguishable from model output.
const (
	FeedbackSourceModel    = "model"
	FeedbackSourceFallback = "fallback"
)

// Interview records one practice interview. The question entries are
// embedded JSON rather than a child table: entries are owned exclusively
// by their interview and are never addressed independently, and every
// lifecycle operation persists the whole record in one write.
type Interview struct {
	ID              string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string           `gorm:"type:uuid;not null;index:idx_interviews_user_created,priority:1" json:"user_id"`
	JobRole         string           `gorm:"size:255;not null;index" json:"job_role"`
	Company         string           `gorm:"size:255" json:"company,omitempty"`
	Type            string           `gorm:"size:50;not null;check:type IN ('text', 'audio', 'video')" json:"type"`
	Difficulty      string           `gorm:"size:50;default:'intermediate'" json:"difficulty"` // beginner, intermediate, advanced
	Mode            string           `gorm:"size:50;default:'practice'" json:"mode"`           // practice, assessment
	DurationPlanned int              `gorm:"default:30" json:"duration_planned"`               // Minutes
	DurationActual  int              `json:"duration_actual"`                                  // Minutes, computed on completion
	Status          string           `gorm:"size:50;not null;default:'scheduled';index;check:status IN ('scheduled', 'in-progress', 'completed', 'cancelled')" json:"status"`
	StartTime       *time.Time       `json:"start_time,omitempty"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	SkillsAssessed  []string         `gorm:"serializer:json" json:"skills_assessed,omitempty"`
	QuestionSource  string           `gorm:"size:50;default:'model'" json:"question_source"` // model or fallback
	Questions       []QuestionEntry  `gorm:"serializer:json" json:"questions"`
	OverallFeedback *OverallFeedback `gorm:"serializer:json" json:"overall_feedback,omitempty"`
	CreatedAt       time.Time        `gorm:"index:idx_interviews_user_created,priority:2" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook to set the ID if not provided
func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// QuestionEntry is one question plus its answer and feedback. UserAnswer
// and Feedback are written together by SubmitAnswer or not at all; later
// entries may be answered before earlier ones.
type QuestionEntry struct {
	Question     string      `json:"question"`
	Category     string      `json:"category"` // technical, behavioral, situational, general
	Difficulty   string      `json:"difficulty"`
	ExpectedHint string      `json:"expected_hint,omitempty"`
	UserAnswer   *UserAnswer `json:"user_answer,omitempty"`
	Feedback     *Feedback   `json:"feedback,omitempty"`
	AnsweredAt   *time.Time  `json:"answered_at,omitempty"`
}

// Answered reports whether this entry carries an answer and feedback
func (q *QuestionEntry) Answered() bool {
	return q.UserAnswer != nil && q.Feedback != nil
}

type UserAnswer struct {
	Text            string `json:"text"`
	AudioURL        string `json:"audio_url,omitempty"`
	VideoURL        string `json:"video_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

// Feedback is the per-answer score block. Scores range 0-100.
type Feedback struct {
	Score             int      `json:"score"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	TechnicalAccuracy int      `json:"technical_accuracy"`
	Communication     int      `json:"communication"`
	Confidence        int      `json:"confidence"`
	Source            string   `json:"source"` // model or fallback
}

// OverallFeedback is the aggregate block computed once an interview
// completes. Means cover answered entries only; zero answered entries
// yield zeroed scores with a distinct summary.
type OverallFeedback struct {
	TotalScore         int      `json:"total_score"`
	TechnicalScore     int      `json:"technical_score"`
	CommunicationScore int      `json:"communication_score"`
	ConfidenceScore    int      `json:"confidence_score"`
	Strengths          []string `json:"strengths,omitempty"`
	Improvements       []string `json:"improvements,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
	Summary            string   `json:"summary"`
	AnsweredCount      int      `json:"answered_count"`
}

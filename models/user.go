package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Password        string         `gorm:"size:255" json:"-"` // Hashed password (excluded from JSON)
	FullName        string         `gorm:"size:255" json:"full_name,omitempty"`
	Phone           string         `gorm:"size:50" json:"phone,omitempty"`
	Location        string         `gorm:"size:255" json:"location,omitempty"`
	ExperienceLevel string         `gorm:"size:50" json:"experience_level,omitempty"` // entry, mid, senior
	TargetRole      string         `gorm:"size:255" json:"target_role,omitempty"`
	Skills          []string       `gorm:"serializer:json" json:"skills,omitempty"`
	AvatarURL       string         `gorm:"size:500" json:"avatar_url,omitempty"`
	Subscription    Subscription   `gorm:"embedded;embeddedPrefix:subscription_" json:"subscription"`
	Resume          ResumeInfo     `gorm:"embedded;embeddedPrefix:resume_" json:"resume"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Interviews    []Interview    `gorm:"foreignKey:UserID" json:"interviews,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"refresh_tokens,omitempty"`
}

// BeforeCreate hook to set the ID if not provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Subscription gates how many interviews a free-tier user may create.
// InterviewsRemaining is only decremented for the free plan, and only via
// an atomic conditional update in the repository.
type Subscription struct {
	Plan                string     `gorm:"size:50;default:'free'" json:"plan"` // free, premium, pro
	InterviewsRemaining int        `gorm:"default:3" json:"interviews_remaining"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
}

// ResumeInfo references the uploaded resume file and the structured data
// the AI service extracted from it
type ResumeInfo struct {
	Filename   string         `gorm:"size:255" json:"filename,omitempty"`
	URL        string         `gorm:"size:500" json:"url,omitempty"`
	ParsedData map[string]any `gorm:"serializer:json" json:"parsed_data,omitempty"`
	UploadedAt *time.Time     `json:"uploaded_at,omitempty"`
}

type RefreshToken struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook to set the ID if not provided
func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type PermanentToken struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate hook to set the ID if not provided
func (t *PermanentToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxResumeSize = 5 << 20 // 5 MiB

type UserEndpoints struct {
	repo      *repository.GORMRepository
	aiClient  *AIClient
	uploadDir string
}

func NewUserEndpoints(repo *repository.GORMRepository, aiClient *AIClient, cfg StorageConfig) *UserEndpoints {
	return &UserEndpoints{
		repo:      repo,
		aiClient:  aiClient,
		uploadDir: cfg.UploadDir,
	}
}

type UpdateProfileRequest struct {
	FullName        *string   `json:"fullName,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Location        *string   `json:"location,omitempty"`
	ExperienceLevel *string   `json:"experienceLevel,omitempty"`
	TargetRole      *string   `json:"targetRole,omitempty"`
	Skills          *[]string `json:"skills,omitempty"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
}

func (e *UserEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/dashboard", e.DashboardHandler)
		r.Get("/statistics", e.StatisticsHandler)
		r.Put("/profile", e.UpdateProfileHandler)
		r.Post("/resume", e.UploadResumeHandler)
	})
}

func (e *UserEndpoints) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	completed, err := e.repo.GetCompletedInterviews(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load completed interviews", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	statusCounts, err := e.repo.CountInterviewsByStatus(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to count interviews", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	stats, trend := ComputeDashboard(completed)

	recent := completed
	if len(recent) > 5 {
		recent = recent[:5]
	}
	recentSummaries := make([]InterviewSummary, 0, len(recent))
	for _, interview := range recent {
		recentSummaries = append(recentSummaries, summarize(interview))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":             user,
		"stats":            stats,
		"statusCounts":     statusCounts,
		"recentInterviews": recentSummaries,
		"performanceTrend": trend,
	})
}

func (e *UserEndpoints) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	completed, err := e.repo.GetCompletedInterviews(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to load completed interviews", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load statistics", http.StatusInternalServerError)
		return
	}

	report := ComputeStatistics(completed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"statistics": report,
	})
}

func (e *UserEndpoints) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.ExperienceLevel != nil {
		user.ExperienceLevel = *req.ExperienceLevel
	}
	if req.TargetRole != nil {
		user.TargetRole = *req.TargetRole
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := e.repo.UpdateUser(r.Context(), user); err != nil {
		slog.Error("Failed to update profile", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user": user,
	})
}

// UploadResumeHandler stores the uploaded file under the configured
// upload directory and asks the analysis service for structured data.
// Parsing is best effort: an unreachable service keeps the upload.
func (e *UserEndpoints) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		http.Error(w, "Missing resume file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxResumeSize {
		http.Error(w, "Resume file too large", http.StatusBadRequest)
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf", ".txt", ".doc", ".docx":
	default:
		http.Error(w, "Unsupported resume format", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxResumeSize))
	if err != nil {
		slog.Error("Failed to read resume upload", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to read resume", http.StatusInternalServerError)
		return
	}

	if err := os.MkdirAll(e.uploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload directory", "error", err, "dir", e.uploadDir)
		http.Error(w, "Failed to store resume", http.StatusInternalServerError)
		return
	}

	storedName := fmt.Sprintf("%s-%s%s", user.ID, uuid.New().String(), ext)
	storedPath := filepath.Join(e.uploadDir, storedName)
	if err := os.WriteFile(storedPath, data, 0o644); err != nil {
		slog.Error("Failed to write resume file", "error", err, "path", storedPath)
		http.Error(w, "Failed to store resume", http.StatusInternalServerError)
		return
	}

	var parsed map[string]any
	if ext == ".txt" {
		parsed, err = e.aiClient.ParseResume(r.Context(), string(data))
		if err != nil {
			slog.Warn("Resume parsing unavailable", "error", err, "user_id", user.ID)
			parsed = nil
		}
	}

	now := time.Now()
	user.Resume = models.ResumeInfo{
		Filename:   header.Filename,
		URL:        "/uploads/" + storedName,
		ParsedData: parsed,
		UploadedAt: &now,
	}
	if err := e.repo.UpdateUser(r.Context(), user); err != nil {
		slog.Error("Failed to save resume metadata", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to save resume", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"resume": user.Resume,
		"parsed": parsed != nil,
	})
}

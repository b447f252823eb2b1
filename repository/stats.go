package repository

import (
	"context"
	"log/slog"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
)

// GetCompletedInterviews returns all of a user's completed interviews,
// newest first. Dashboard and statistics rollups are computed from this
// set at read time; nothing is cached or maintained incrementally.
func (r *GORMRepository) GetCompletedInterviews(ctx context.Context, userID string) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Order("created_at DESC").
		Find(&interviews).Error
	if err != nil {
		slog.Error("Failed to get completed interviews", "error", err, "user_id", userID)
		return nil, err
	}
	return interviews, nil
}

// CountInterviewsByStatus returns how many interviews the user has per
// lifecycle status
func (r *GORMRepository) CountInterviewsByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Interview{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		slog.Error("Failed to count interviews by status", "error", err, "user_id", userID)
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

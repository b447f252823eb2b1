package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo creates an isolated in-memory database per test
func setupTestRepo(t *testing.T) *GORMRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := NewGORMRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repo
}

func createTestUser(t *testing.T, repo *GORMRepository, email, plan string, remaining int) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "hashed",
		FullName: "Test User",
		Subscription: models.Subscription{
			Plan:                plan,
			InterviewsRemaining: remaining,
		},
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	created := createTestUser(t, repo, "alice@example.com", "free", 3)
	if created.ID == "" {
		t.Fatal("user ID not generated on create")
	}

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("GetUserByEmail = %+v, want created user", byEmail)
	}

	byID, err := repo.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID returned error: %v", err)
	}
	if byID == nil || byID.Email != "alice@example.com" {
		t.Fatalf("GetUserByID = %+v, want created user", byID)
	}

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %+v", missing)
	}
}

func TestDecrementInterviewQuota(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "free", 2)

	for i := 0; i < 2; i++ {
		ok, err := repo.DecrementInterviewQuota(ctx, user.ID)
		if err != nil {
			t.Fatalf("DecrementInterviewQuota returned error: %v", err)
		}
		if !ok {
			t.Fatalf("decrement %d failed with quota remaining", i+1)
		}
	}

	// Third decrement must fail: the quota is spent
	ok, err := repo.DecrementInterviewQuota(ctx, user.ID)
	if err != nil {
		t.Fatalf("DecrementInterviewQuota returned error: %v", err)
	}
	if ok {
		t.Error("decrement succeeded with zero quota remaining")
	}

	reloaded, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID returned error: %v", err)
	}
	if reloaded.Subscription.InterviewsRemaining != 0 {
		t.Errorf("InterviewsRemaining = %d, want 0", reloaded.Subscription.InterviewsRemaining)
	}
}

func TestDecrementInterviewQuotaNonFreePlan(t *testing.T) {
	repo := setupTestRepo(t)
	user := createTestUser(t, repo, "premium@example.com", "premium", 0)

	ok, err := repo.DecrementInterviewQuota(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("DecrementInterviewQuota returned error: %v", err)
	}
	if ok {
		t.Error("premium plan should never consume quota")
	}
}

func TestInterviewOwnership(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, repo, "owner@example.com", "free", 3)
	other := createTestUser(t, repo, "other@example.com", "free", 3)

	interview := &models.Interview{
		UserID:  owner.ID,
		JobRole: "Backend Engineer",
		Type:    "text",
		Status:  models.StatusScheduled,
		Questions: []models.QuestionEntry{
			{Question: "Explain indexing.", Category: models.CategoryTechnical, Difficulty: "medium"},
		},
	}
	if err := repo.CreateInterview(ctx, interview); err != nil {
		t.Fatalf("CreateInterview returned error: %v", err)
	}

	got, err := repo.GetInterviewForUser(ctx, interview.ID, owner.ID)
	if err != nil {
		t.Fatalf("GetInterviewForUser returned error: %v", err)
	}
	if got == nil {
		t.Fatal("owner cannot load own interview")
	}
	if len(got.Questions) != 1 || got.Questions[0].Question != "Explain indexing." {
		t.Errorf("embedded questions did not round-trip: %+v", got.Questions)
	}

	// Another user's lookup behaves exactly like a missing record
	foreign, err := repo.GetInterviewForUser(ctx, interview.ID, other.ID)
	if err != nil {
		t.Fatalf("GetInterviewForUser returned error: %v", err)
	}
	if foreign != nil {
		t.Error("interview visible to a non-owner")
	}
}

func TestSaveInterviewPersistsAnswers(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "free", 3)

	interview := &models.Interview{
		UserID:  user.ID,
		JobRole: "Backend Engineer",
		Type:    "text",
		Status:  models.StatusInProgress,
		Questions: []models.QuestionEntry{
			{Question: "Explain indexing.", Category: models.CategoryTechnical},
		},
	}
	if err := repo.CreateInterview(ctx, interview); err != nil {
		t.Fatalf("CreateInterview returned error: %v", err)
	}

	now := time.Now()
	interview.Questions[0].UserAnswer = &models.UserAnswer{Text: "An index speeds up lookups."}
	interview.Questions[0].Feedback = &models.Feedback{Score: 85, Source: models.FeedbackSourceModel}
	interview.Questions[0].AnsweredAt = &now
	if err := repo.SaveInterview(ctx, interview); err != nil {
		t.Fatalf("SaveInterview returned error: %v", err)
	}

	reloaded, err := repo.GetInterviewForUser(ctx, interview.ID, user.ID)
	if err != nil {
		t.Fatalf("GetInterviewForUser returned error: %v", err)
	}
	entry := reloaded.Questions[0]
	if entry.UserAnswer == nil || entry.UserAnswer.Text != "An index speeds up lookups." {
		t.Errorf("answer did not persist: %+v", entry.UserAnswer)
	}
	if entry.Feedback == nil || entry.Feedback.Score != 85 {
		t.Errorf("feedback did not persist: %+v", entry.Feedback)
	}
	if !entry.Answered() {
		t.Error("reloaded entry should report answered")
	}
}

func TestListInterviewsPagination(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "premium", 0)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		interview := &models.Interview{
			UserID:    user.ID,
			JobRole:   "Backend Engineer",
			Type:      "text",
			Status:    models.StatusScheduled,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.CreateInterview(ctx, interview); err != nil {
			t.Fatalf("CreateInterview returned error: %v", err)
		}
	}

	firstPage, total, err := repo.ListInterviews(ctx, user.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListInterviews returned error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(firstPage) != 2 {
		t.Fatalf("page 1 length = %d, want 2", len(firstPage))
	}
	// Newest first
	if !firstPage[0].CreatedAt.After(firstPage[1].CreatedAt) {
		t.Error("page 1 not ordered newest first")
	}

	lastPage, _, err := repo.ListInterviews(ctx, user.ID, 3, 2)
	if err != nil {
		t.Fatalf("ListInterviews returned error: %v", err)
	}
	if len(lastPage) != 1 {
		t.Errorf("page 3 length = %d, want 1", len(lastPage))
	}

	empty, _, err := repo.ListInterviews(ctx, user.ID, 4, 2)
	if err != nil {
		t.Fatalf("ListInterviews returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("page past the end should be empty, got %d", len(empty))
	}
}

func TestListInterviewsIsolatedPerUser(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	alice := createTestUser(t, repo, "alice@example.com", "premium", 0)
	bob := createTestUser(t, repo, "bob@example.com", "premium", 0)

	for _, userID := range []string{alice.ID, alice.ID, bob.ID} {
		if err := repo.CreateInterview(ctx, &models.Interview{
			UserID:  userID,
			JobRole: "Backend Engineer",
			Type:    "text",
			Status:  models.StatusScheduled,
		}); err != nil {
			t.Fatalf("CreateInterview returned error: %v", err)
		}
	}

	_, total, err := repo.ListInterviews(ctx, alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListInterviews returned error: %v", err)
	}
	if total != 2 {
		t.Errorf("alice total = %d, want 2", total)
	}
}

func TestRefreshTokenExpiry(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "free", 3)

	valid := &models.RefreshToken{
		UserID:    user.ID,
		Token:     "valid-token-hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	expired := &models.RefreshToken{
		UserID:    user.ID,
		Token:     "expired-token-hash",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	for _, token := range []*models.RefreshToken{valid, expired} {
		if err := repo.CreateRefreshToken(ctx, token); err != nil {
			t.Fatalf("CreateRefreshToken returned error: %v", err)
		}
	}

	got, err := repo.GetRefreshToken(ctx, "valid-token-hash")
	if err != nil {
		t.Fatalf("GetRefreshToken returned error: %v", err)
	}
	if got == nil || got.UserID != user.ID {
		t.Fatalf("GetRefreshToken = %+v, want stored token", got)
	}

	gone, err := repo.GetRefreshToken(ctx, "expired-token-hash")
	if err != nil {
		t.Fatalf("GetRefreshToken returned error: %v", err)
	}
	if gone != nil {
		t.Error("expired token should not resolve")
	}
}

func TestDeleteAllUserTokens(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "free", 3)

	if err := repo.CreateRefreshToken(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     "refresh-hash",
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("CreateRefreshToken returned error: %v", err)
	}
	if err := repo.CreatePermanentToken(ctx, &models.PermanentToken{
		UserID: user.ID,
		Token:  "permanent-hash",
	}); err != nil {
		t.Fatalf("CreatePermanentToken returned error: %v", err)
	}

	if err := repo.DeleteAllUserTokens(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAllUserTokens returned error: %v", err)
	}

	if got, _ := repo.GetRefreshToken(ctx, "refresh-hash"); got != nil {
		t.Error("refresh token survived logout")
	}
	if got, _ := repo.GetPermanentToken(ctx, "permanent-hash"); got != nil {
		t.Error("permanent token survived logout")
	}
}

func TestCountInterviewsByStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "premium", 0)

	statuses := []string{
		models.StatusCompleted,
		models.StatusCompleted,
		models.StatusScheduled,
		models.StatusCancelled,
	}
	for _, status := range statuses {
		if err := repo.CreateInterview(ctx, &models.Interview{
			UserID:  user.ID,
			JobRole: "Backend Engineer",
			Type:    "text",
			Status:  status,
		}); err != nil {
			t.Fatalf("CreateInterview returned error: %v", err)
		}
	}

	counts, err := repo.CountInterviewsByStatus(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountInterviewsByStatus returned error: %v", err)
	}
	if counts[models.StatusCompleted] != 2 {
		t.Errorf("completed = %d, want 2", counts[models.StatusCompleted])
	}
	if counts[models.StatusScheduled] != 1 || counts[models.StatusCancelled] != 1 {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func TestGetCompletedInterviews(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	user := createTestUser(t, repo, "alice@example.com", "premium", 0)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := repo.CreateInterview(ctx, &models.Interview{
			UserID:    user.ID,
			JobRole:   "Backend Engineer",
			Type:      "text",
			Status:    models.StatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			OverallFeedback: &models.OverallFeedback{
				TotalScore: 70 + i,
			},
		}); err != nil {
			t.Fatalf("CreateInterview returned error: %v", err)
		}
	}
	if err := repo.CreateInterview(ctx, &models.Interview{
		UserID:  user.ID,
		JobRole: "Backend Engineer",
		Type:    "text",
		Status:  models.StatusScheduled,
	}); err != nil {
		t.Fatalf("CreateInterview returned error: %v", err)
	}

	completed, err := repo.GetCompletedInterviews(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetCompletedInterviews returned error: %v", err)
	}
	if len(completed) != 3 {
		t.Fatalf("got %d completed interviews, want 3", len(completed))
	}
	// Newest first
	if completed[0].OverallFeedback.TotalScore != 72 {
		t.Errorf("first score = %d, want the newest interview", completed[0].OverallFeedback.TotalScore)
	}
}

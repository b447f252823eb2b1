package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/models"
	"github.com/Gunalan183/AI-Powered-Interveiw-bot/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with demo users (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	// Hash default password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{
			Email:           "test@example.com",
			Password:        string(hashedPassword),
			FullName:        "Test User",
			ExperienceLevel: "mid",
			TargetRole:      "Backend Engineer",
			Skills:          []string{"Go", "PostgreSQL", "Docker"},
			Subscription: models.Subscription{
				Plan:                "free",
				InterviewsRemaining: 3,
			},
		},
		{
			Email:           "demo@example.com",
			Password:        string(hashedPassword),
			FullName:        "Demo User",
			ExperienceLevel: "entry",
			TargetRole:      "Frontend Developer",
			Skills:          []string{"JavaScript", "React", "CSS"},
			Subscription: models.Subscription{
				Plan:                "premium",
				InterviewsRemaining: 3,
			},
		},
	}

	// Seed users (idempotent)
	for _, user := range users {
		if err := s.seedUser(ctx, user); err != nil {
			slog.Error("Failed to seed user", "email", user.Email, "error", err)
		}
	}

	slog.Info("Database seeding completed")
	return nil
}

// seedUser seeds a single user (idempotent)
func (s *DatabaseSeeder) seedUser(ctx context.Context, user models.User) error {
	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking user %s: %w", user.Email, err)
	}

	if existingUser != nil {
		slog.Info("User already exists, skipping", "email", user.Email)
		return nil
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	slog.Info("Created user", "email", user.Email)
	return nil
}

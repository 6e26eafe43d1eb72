package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/opencampus/records-api/internal/models"
)

type seedUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type seedSubjectRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, subject *models.Subject) error
}

// Seed ensures the default administrator and the starter subject catalog
// exist. It is idempotent and safe to run on every boot.
func Seed(ctx context.Context, users seedUserRepository, subjects seedSubjectRepository, adminEmail, adminPassword string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := users.FindByEmail(ctx, adminEmail); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check admin account: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := &models.User{
			ID:           uuid.NewString(),
			Email:        adminEmail,
			Username:     "admin",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Status:       models.StatusActive,
		}
		if err := users.Create(ctx, admin); err != nil {
			return fmt.Errorf("create admin account: %w", err)
		}
		logger.Info("seeded admin account", zap.String("email", adminEmail))
	}

	count, err := subjects.Count(ctx)
	if err != nil {
		return fmt.Errorf("count subjects: %w", err)
	}
	if count > 0 {
		return nil
	}

	catalog := []models.Subject{
		{SubjectCode: "CS101", SubjectName: "Introduction to Computing", Units: 3},
		{SubjectCode: "MATH101", SubjectName: "College Algebra", Units: 3},
		{SubjectCode: "ENG101", SubjectName: "English Communication", Units: 3},
		{SubjectCode: "PHY101", SubjectName: "General Physics", Units: 4},
	}
	for i := range catalog {
		if err := subjects.Create(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("create subject %s: %w", catalog[i].SubjectCode, err)
		}
	}
	logger.Info("seeded subject catalog", zap.Int("subjects", len(catalog)))
	return nil
}

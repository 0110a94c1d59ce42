package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/yamdb/api/internal/config"
	"github.com/yamdb/api/internal/database"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
)

// seed creates the first administrator. There is no password: the admin
// signs in through the email handshake like everyone else.
func main() {
	cfg := config.Load()
	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminUsername := strings.TrimSpace(os.Getenv("ADMIN_USERNAME"))
	if adminEmail == "" || adminUsername == "" {
		logger.Log.Fatal("Missing environment variables: ADMIN_EMAIL, ADMIN_USERNAME")
	}

	database.Connect(cfg)
	database.Migrate()

	ctx := context.Background()
	users := repository.NewUserRepository(database.DB)

	existing, err := users.GetUserByEmail(ctx, adminEmail)
	if err != nil {
		logger.Log.Fatal("Failed to look up admin", zap.Error(err))
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			existing.Role = models.RoleAdmin
			if err := users.UpdateUser(ctx, existing); err != nil {
				logger.Log.Fatal("Failed to promote user", zap.Error(err))
			}
			logger.Log.Info("Existing user promoted to admin", zap.String("email", adminEmail))
			return
		}
		logger.Log.Info("Admin user already exists", zap.String("email", adminEmail))
		return
	}

	admin := &models.User{
		Email:    adminEmail,
		Username: &adminUsername,
		Role:     models.RoleAdmin,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		logger.Log.Fatal("Failed to create admin", zap.Error(err))
	}

	logger.Log.Info("Admin user created",
		zap.Uint("user_id", admin.ID),
		zap.String("email", admin.Email),
		zap.String("username", adminUsername),
	)
}

package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yamdb/api/internal/config"
	"github.com/yamdb/api/internal/database"
	"github.com/yamdb/api/internal/mailer"
	"github.com/yamdb/api/internal/middleware"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/internal/server"
	"github.com/yamdb/api/internal/service"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.Connect(cfg)
	database.Migrate()

	// Mail: SMTP when configured, otherwise codes go to the log.
	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		logger.Log.Warn("SMTP_HOST not set, confirmation codes will be logged instead of mailed")
		sender = mailer.NewLogSender()
	}

	// Rate limiting is optional and needs Redis.
	var authLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Log.Warn("Redis unavailable, auth rate limiting disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			authLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
				MaxRequests: cfg.RateLimitMaxRequests,
				Window:      cfg.RateLimitWindow,
				Prefix:      "ratelimit:auth",
			})
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	categoryRepo := repository.NewCategoryRepository(database.DB)
	genreRepo := repository.NewGenreRepository(database.DB)
	titleRepo := repository.NewTitleRepository(database.DB)
	reviewRepo := repository.NewReviewRepository(database.DB)
	commentRepo := repository.NewCommentRepository(database.DB)

	router := server.NewRouter(server.Dependencies{
		AuthService:    service.NewAuthService(userRepo, sender, cfg.JWTSecret, cfg.JWTExpiry),
		UserService:    service.NewUserService(userRepo),
		CatalogService: service.NewCatalogService(categoryRepo, genreRepo),
		TitleService:   service.NewTitleService(titleRepo, categoryRepo, genreRepo),
		ReviewService:  service.NewReviewService(titleRepo, reviewRepo, commentRepo),
		AuthLimiter:    authLimiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		IsProduction:   cfg.IsProduction(),
	})

	logger.Log.Info("Server starting",
		zap.String("addr", cfg.ServerPort),
		zap.String("environment", cfg.Environment),
		zap.Bool("rate_limit", authLimiter != nil),
	)
	if err := router.Run(cfg.ServerPort); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}

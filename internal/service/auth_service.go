package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/yamdb/api/internal/mailer"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/policy"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/internal/utils"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// AuthService runs the email handshake: Register issues a confirmation code,
// Exchange trades it for a bearer token, Authenticate resolves a token back
// to its user.
type AuthService struct {
	userRepo      *repository.UserRepository
	mailer        mailer.Sender
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

func NewAuthService(userRepo *repository.UserRepository, sender mailer.Sender, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		mailer:        sender,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.Username, usernameRules()...),
	)
}

var (
	emailFormat      = is.EmailFormat.Error("enter a valid email address")
	usernameFormat   = validation.Match(usernameRegex).Error("letters, digits and @/./+/-/_ only")
	usernameReserved = validation.NotIn("me").Error(`"me" is reserved`)
)

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("email is required"),
		validation.Length(3, 254),
		emailFormat,
	}
}

func usernameRules() []validation.Rule {
	return []validation.Rule{
		validation.Length(1, 50),
		usernameFormat,
		usernameReserved,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register issues a fresh confirmation code for the email, creating the user
// on first use. Repeating the call re-issues the code on the same record,
// which is how clients ask for a resend. The call fails if the code could
// not be delivered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	start := time.Now()
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	logger.Log.Debug("Processing registration",
		zap.String("email", in.Email),
		zap.String("username", in.Username),
	)

	if err := in.Validate(); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}

	code := uuid.NewString()
	codeHash, err := utils.HashSecret(code)
	if err != nil {
		logger.Log.Error("Failed to hash confirmation code", zap.Error(err))
		return nil, err
	}

	user, err := s.upsertPending(ctx, in, codeHash)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendConfirmationCode(ctx, mailer.ConfirmationCodeData{Email: user.Email, Code: code}); err != nil {
		logger.Log.Error("Confirmation code delivery failed",
			zap.Uint("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Error(err),
		)
		if !errors.Is(err, mailer.ErrDelivery) {
			err = fmt.Errorf("%w: %v", mailer.ErrDelivery, err)
		}
		return nil, err
	}

	logger.Log.Info("Confirmation code issued",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// upsertPending stores codeHash on the user keyed by email, creating the user if needed.
func (s *AuthService) upsertPending(ctx context.Context, in RegisterInput, codeHash string) (*models.User, error) {
	existing, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Error("Failed to check email existence", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		if err := s.userRepo.SetConfirmationCode(ctx, existing.ID, codeHash); err != nil {
			logger.Log.Error("Failed to re-issue confirmation code", zap.Uint("user_id", existing.ID), zap.Error(err))
			return nil, err
		}
		logger.Log.Debug("Re-issuing confirmation code for existing user", zap.Uint("user_id", existing.ID))
		existing.ConfirmationCodeHash = &codeHash
		return existing, nil
	}

	user := &models.User{
		Email:                in.Email,
		Role:                 models.RoleUser,
		ConfirmationCodeHash: &codeHash,
	}
	if in.Username != "" {
		taken, err := s.userRepo.GetUserByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, fieldError("username", "a user with that username already exists")
		}
		user.Username = &in.Username
	}

	err = s.userRepo.CreateUser(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration; the unique index decides.
		winner, getErr := s.userRepo.GetUserByEmail(ctx, in.Email)
		if getErr != nil {
			return nil, getErr
		}
		if winner == nil {
			return nil, fieldError("username", "a user with that username already exists")
		}
		if err := s.userRepo.SetConfirmationCode(ctx, winner.ID, codeHash); err != nil {
			return nil, err
		}
		winner.ConfirmationCodeHash = &codeHash
		return winner, nil
	}
	if err != nil {
		logger.Log.Error("Failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

type TokenInput struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmation_code"`
}

func (in TokenInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.ConfirmationCode, validation.Required.Error("confirmation_code is required")),
	)
}

// Exchange trades a confirmation code for a bearer token. The code is
// single-use: a successful exchange consumes it.
func (s *AuthService) Exchange(ctx context.Context, in TokenInput) (string, *models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		logger.Log.Error("Failed to get user by email", zap.String("email", in.Email), zap.Error(err))
		return "", nil, err
	}
	if user == nil {
		logger.Log.Warn("Token exchange for unknown email", zap.String("email", in.Email))
		return "", nil, ErrUserNotFound
	}

	if user.ConfirmationCodeHash == nil {
		logger.Log.Warn("Token exchange without an outstanding code", zap.Uint("user_id", user.ID))
		return "", nil, ErrInvalidConfirmationCode
	}
	codeHash := *user.ConfirmationCodeHash

	valid, err := utils.VerifySecret(in.ConfirmationCode, codeHash)
	if err != nil {
		logger.Log.Error("Stored confirmation code hash is unreadable", zap.Uint("user_id", user.ID), zap.Error(err))
		return "", nil, err
	}
	if !valid {
		logger.Log.Warn("Token exchange with wrong code", zap.Uint("user_id", user.ID))
		return "", nil, ErrInvalidConfirmationCode
	}

	now := s.now()
	consumed, err := s.userRepo.ConsumeConfirmationCode(ctx, user.ID, codeHash, now)
	if err != nil {
		return "", nil, err
	}
	if !consumed {
		logger.Log.Warn("Confirmation code consumed concurrently", zap.Uint("user_id", user.ID))
		return "", nil, ErrInvalidConfirmationCode
	}
	user.ConfirmationCodeHash = nil
	firstSignIn := !user.IsConfirmed()
	if firstSignIn {
		user.ConfirmedAt = &now
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token", zap.Uint("user_id", user.ID), zap.Error(err))
		return "", nil, err
	}

	logger.Log.Info("Access token issued", zap.Uint("user_id", user.ID), zap.Bool("first_sign_in", firstSignIn))
	return token, user, nil
}

// Authenticate resolves a bearer token to its current user record. Any
// failure is reported as policy.ErrUnauthenticated except storage errors.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		logger.Log.Debug("Rejected bearer token", zap.Error(err))
		return nil, policy.ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logger.Log.Warn("Bearer token for deleted user", zap.Uint("user_id", claims.UserID))
		return nil, policy.ErrUnauthenticated
	}
	return user, nil
}

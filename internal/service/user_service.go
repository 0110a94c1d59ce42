package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService covers the admin user endpoints and the self-service profile.
// Route-level authorization happens before these methods are called.
type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UserInput is a partial user record; nil fields are left unchanged.
type UserInput struct {
	Email     *string      `json:"email"`
	Username  *string      `json:"username"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role"`
}

func (in UserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.NilOrNotEmpty.Error("email may not be blank"), validation.Length(3, 254), emailFormat),
		validation.Field(&in.Username, validation.Length(1, 50), usernameFormat, usernameReserved),
		validation.Field(&in.FirstName, validation.Length(0, 150)),
		validation.Field(&in.LastName, validation.Length(0, 150)),
		validation.Field(&in.Bio, validation.Length(0, 20)),
		validation.Field(&in.Role, validation.By(func(value interface{}) error {
			if r, ok := value.(*models.Role); ok && r != nil && !r.Valid() {
				return errors.New("must be one of admin, moderator, user")
			}
			return nil
		})),
	)
}

func (in *UserInput) normalize() {
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if in.Username != nil {
		u := strings.TrimSpace(*in.Username)
		in.Username = &u
	}
}

func (s *UserService) List(ctx context.Context, search string, page repository.Page) ([]*models.User, int64, error) {
	return s.userRepo.ListUsers(ctx, search, page)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Resolve finds a user by the admin path key: a username, or the numeric id
// for accounts that have no username. A username match wins.
func (s *UserService) Resolve(ctx context.Context, key string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, key)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	id, err := strconv.ParseUint(key, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrUserNotFound
	}
	return s.Get(ctx, uint(id))
}

// Create adds a user on behalf of an administrator. Email and username are
// required here; the user still needs the email handshake to get a token.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	in.normalize()
	err := validation.Errors{
		"email":    validation.Validate(in.Email, validation.Required.Error("email is required")),
		"username": validation.Validate(in.Username, validation.Required.Error("username is required")),
	}.Filter()
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{Role: models.RoleUser}
	applyUserInput(user, in)

	if err := s.checkUnique(ctx, user, 0); err != nil {
		return nil, err
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("email", "a user with that email or username already exists")
		}
		return nil, err
	}

	logger.Log.Info("User created by admin", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update applies a partial change, including the role.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, user, in)
}

// UpdateMe applies a partial change to the caller's own record. The role
// cannot be changed this way; sending the current role is tolerated.
func (s *UserService) UpdateMe(ctx context.Context, me *models.User, in UserInput) (*models.User, error) {
	if in.Role != nil && *in.Role != me.Role {
		logger.Log.Warn("Self-service role change rejected",
			zap.Uint("user_id", me.ID),
			zap.String("requested_role", string(*in.Role)),
		)
		return nil, ErrRoleChangeForbidden
	}
	in.Role = nil

	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user := *me
	return s.save(ctx, &user, in)
}

func (s *UserService) save(ctx context.Context, user *models.User, in UserInput) (*models.User, error) {
	applyUserInput(user, in)
	if err := s.checkUnique(ctx, user, user.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fieldError("email", "a user with that email or username already exists")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("User deleted", zap.Uint("user_id", id))
	return nil
}

// checkUnique reports email/username collisions with users other than selfID.
func (s *UserService) checkUnique(ctx context.Context, user *models.User, selfID uint) error {
	other, err := s.userRepo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fieldError("email", "a user with that email already exists")
	}
	if user.Username == nil {
		return nil
	}
	other, err = s.userRepo.GetUserByUsername(ctx, *user.Username)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fieldError("username", "a user with that username already exists")
	}
	return nil
}

func applyUserInput(user *models.User, in UserInput) {
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Username != nil {
		if *in.Username == "" {
			user.Username = nil
		} else {
			u := *in.Username
			user.Username = &u
		}
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yamdb/api/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// first returns nil, nil when no row matches.
func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns users ordered by id, optionally filtered by a username substring.
func (r *UserRepository) ListUsers(ctx context.Context, search string, page Page) ([]*models.User, int64, error) {
	page = page.Normalize()

	q := r.db.WithContext(ctx).Model(&models.User{})
	if search != "" {
		q = q.Where("username LIKE ?", "%"+search+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := q.Order("id").Limit(page.Limit).Offset(page.Offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser writes the profile columns. Confirmation state is only touched
// through SetConfirmationCode and ConsumeConfirmationCode.
func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Model(user).
		Select("email", "username", "first_name", "last_name", "bio", "role").
		Updates(user).Error
}

func (r *UserRepository) SetConfirmationCode(ctx context.Context, id uint, codeHash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("confirmation_code_hash", codeHash).Error
}

// ConsumeConfirmationCode clears the code if it is still the one that was
// verified. It reports false when a concurrent exchange or a re-issue got there first.
func (r *UserRepository) ConsumeConfirmationCode(ctx context.Context, id uint, codeHash string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND confirmation_code_hash = ?", id, codeHash).
		Updates(map[string]interface{}{
			"confirmation_code_hash": nil,
			"confirmed_at":           gorm.Expr("COALESCE(confirmed_at, ?)", at),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteUser removes the user together with everything they authored and
// every comment left on their reviews.
func (r *UserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownReviews := tx.Model(&models.Review{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("review_id IN (?) OR author_id = ?", ownReviews, id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

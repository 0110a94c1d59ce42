package testutil

import (
	"testing"
	"time"

	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/utils"
	"gorm.io/gorm"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-secret-key"

// CreateUser inserts a confirmed user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()

	now := time.Now()
	name := username
	user := &models.User{
		Email:       username + "@example.com",
		Username:    &name,
		Role:        role,
		ConfirmedAt: &now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// Token returns a bearer token for user signed with TestJWTSecret.
func Token(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(user, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category %s: %v", slug, err)
	}
	return category
}

func CreateGenre(t *testing.T, db *gorm.DB, name, slug string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Name: name, Slug: slug}
	if err := db.Create(genre).Error; err != nil {
		t.Fatalf("Failed to create genre %s: %v", slug, err)
	}
	return genre
}

// CreateTitle inserts a title in category (may be nil) linked to genres.
func CreateTitle(t *testing.T, db *gorm.DB, name string, year int, category *models.Category, genres ...models.Genre) *models.Title {
	t.Helper()

	title := &models.Title{Name: name, Year: &year, Genres: genres}
	if category != nil {
		title.CategoryID = &category.ID
	}
	if err := db.Omit("Category", "Genres.*").Create(title).Error; err != nil {
		t.Fatalf("Failed to create title %s: %v", name, err)
	}
	return title
}

func CreateReview(t *testing.T, db *gorm.DB, title *models.Title, author *models.User, score int) *models.Review {
	t.Helper()

	review := &models.Review{TitleID: title.ID, AuthorID: author.ID, Text: "review text", Score: score}
	if err := db.Omit("Title", "Author").Create(review).Error; err != nil {
		t.Fatalf("Failed to create review: %v", err)
	}
	return review
}

func CreateComment(t *testing.T, db *gorm.DB, review *models.Review, author *models.User) *models.Comment {
	t.Helper()

	comment := &models.Comment{ReviewID: review.ID, AuthorID: author.ID, Text: "comment text"}
	if err := db.Omit("Review", "Author").Create(comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	return comment
}

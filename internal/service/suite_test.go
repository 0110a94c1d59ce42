package service_test

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/internal/testutil"
	"gorm.io/gorm"
)

// dbSuite gives each service suite a migrated SQLite database that is
// emptied before every test.
type dbSuite struct {
	suite.Suite
	testDB *testutil.TestDatabase
	db     *gorm.DB

	userRepo     *repository.UserRepository
	categoryRepo *repository.CategoryRepository
	genreRepo    *repository.GenreRepository
	titleRepo    *repository.TitleRepository
	reviewRepo   *repository.ReviewRepository
	commentRepo  *repository.CommentRepository
}

func (s *dbSuite) SetupSuite() {
	s.testDB = testutil.SetupTestDatabase(s.T())
	s.db = s.testDB.DB

	s.userRepo = repository.NewUserRepository(s.db)
	s.categoryRepo = repository.NewCategoryRepository(s.db)
	s.genreRepo = repository.NewGenreRepository(s.db)
	s.titleRepo = repository.NewTitleRepository(s.db)
	s.reviewRepo = repository.NewReviewRepository(s.db)
	s.commentRepo = repository.NewCommentRepository(s.db)
}

func (s *dbSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *dbSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.db)
}

func (s *dbSuite) count(model interface{}) int64 {
	var n int64
	require.NoError(s.T(), s.db.Model(model).Count(&n).Error)
	return n
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.Contains(t, verrs, field)
}

func ptr[T any](v T) *T {
	return &v
}

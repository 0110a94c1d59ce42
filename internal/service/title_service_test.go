package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/internal/service"
	"github.com/yamdb/api/internal/testutil"
)

type TitleServiceTestSuite struct {
	dbSuite
	titles *service.TitleService
}

func (s *TitleServiceTestSuite) SetupTest() {
	s.dbSuite.SetupTest()
	s.titles = service.NewTitleService(s.titleRepo, s.categoryRepo, s.genreRepo)
}

func (s *TitleServiceTestSuite) TestCreateWithCategoryAndGenres() {
	testutil.CreateCategory(s.T(), s.db, "Films", "films")
	testutil.CreateGenre(s.T(), s.db, "Drama", "drama")
	testutil.CreateGenre(s.T(), s.db, "Horror", "horror")

	title, err := s.titles.Create(context.Background(), service.TitleInput{
		Name:     ptr("Alien"),
		Year:     service.Some(1979),
		Category: ptr("films"),
		Genre:    &[]string{"horror", "drama"},
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alien", title.Name)
	assert.Equal(s.T(), 1979, *title.Year)
	require.NotNil(s.T(), title.Category)
	assert.Equal(s.T(), "films", title.Category.Slug)
	assert.Len(s.T(), title.Genres, 2)
	assert.Nil(s.T(), title.Rating)
}

func (s *TitleServiceTestSuite) TestCreateValidation() {
	nextYear := time.Now().Year() + 1

	_, err := s.titles.Create(context.Background(), service.TitleInput{Year: service.Some(2000)})
	assertFieldError(s.T(), err, "name")

	_, err = s.titles.Create(context.Background(), service.TitleInput{Name: ptr("Future"), Year: service.Some(nextYear)})
	assertFieldError(s.T(), err, "year")

	_, err = s.titles.Create(context.Background(), service.TitleInput{Name: ptr("Nowhere"), Category: ptr("missing")})
	assertFieldError(s.T(), err, "category")

	_, err = s.titles.Create(context.Background(), service.TitleInput{Name: ptr("Nowhere"), Genre: &[]string{"missing"}})
	assertFieldError(s.T(), err, "genre")

	_, err = s.titles.Create(context.Background(), service.TitleInput{Name: ptr("   ")})
	assertFieldError(s.T(), err, "name")

	assert.Equal(s.T(), int64(0), s.count(&models.Title{}))
}

func (s *TitleServiceTestSuite) TestRatingIsMeanOfScores() {
	title := testutil.CreateTitle(s.T(), s.db, "Alien", 1979, nil)
	alice := testutil.CreateUser(s.T(), s.db, "alice", models.RoleUser)
	bob := testutil.CreateUser(s.T(), s.db, "bob", models.RoleUser)

	got, err := s.titles.Get(context.Background(), title.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), got.Rating)

	testutil.CreateReview(s.T(), s.db, title, alice, 6)
	testutil.CreateReview(s.T(), s.db, title, bob, 9)

	got, err = s.titles.Get(context.Background(), title.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), got.Rating)
	assert.InDelta(s.T(), 7.5, *got.Rating, 0.0001)
}

func (s *TitleServiceTestSuite) TestUpdateReplacesGenresAndClearsCategory() {
	films := testutil.CreateCategory(s.T(), s.db, "Films", "films")
	drama := testutil.CreateGenre(s.T(), s.db, "Drama", "drama")
	testutil.CreateGenre(s.T(), s.db, "Horror", "horror")
	title := testutil.CreateTitle(s.T(), s.db, "Alien", 1979, films, *drama)

	updated, err := s.titles.Update(context.Background(), title.ID, service.TitleInput{
		Description: service.Some("In space no one can hear you scream"),
		Category:    ptr(""),
		Genre:       &[]string{"horror"},
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alien", updated.Name)
	assert.Nil(s.T(), updated.Category)
	require.Len(s.T(), updated.Genres, 1)
	assert.Equal(s.T(), "horror", updated.Genres[0].Slug)
	require.NotNil(s.T(), updated.Description)
}

func (s *TitleServiceTestSuite) TestUpdateKeepsOmittedFields() {
	films := testutil.CreateCategory(s.T(), s.db, "Films", "films")
	drama := testutil.CreateGenre(s.T(), s.db, "Drama", "drama")
	title := testutil.CreateTitle(s.T(), s.db, "Alien", 1979, films, *drama)

	updated, err := s.titles.Update(context.Background(), title.ID, service.TitleInput{Name: ptr("Aliens")})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Aliens", updated.Name)
	assert.Equal(s.T(), 1979, *updated.Year)
	require.NotNil(s.T(), updated.Category)
	assert.Len(s.T(), updated.Genres, 1)
}

func (s *TitleServiceTestSuite) TestUpdateClearsNullableFields() {
	title, err := s.titles.Create(context.Background(), service.TitleInput{
		Name:        ptr("Alien"),
		Year:        service.Some(1979),
		Description: service.Some("In space"),
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), title.Description)

	updated, err := s.titles.Update(context.Background(), title.ID, service.TitleInput{
		Year:        service.Null[int](),
		Description: service.Null[string](),
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alien", updated.Name)
	assert.Nil(s.T(), updated.Year)
	assert.Nil(s.T(), updated.Description)
}

func (s *TitleServiceTestSuite) TestUpdateRejectsBlankName() {
	title := testutil.CreateTitle(s.T(), s.db, "Alien", 1979, nil)

	_, err := s.titles.Update(context.Background(), title.ID, service.TitleInput{Name: ptr("   ")})
	assertFieldError(s.T(), err, "name")

	stored, err := s.titles.Get(context.Background(), title.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Alien", stored.Name)
}

func (s *TitleServiceTestSuite) TestListFilters() {
	films := testutil.CreateCategory(s.T(), s.db, "Films", "films")
	books := testutil.CreateCategory(s.T(), s.db, "Books", "books")
	drama := testutil.CreateGenre(s.T(), s.db, "Drama", "drama")
	horror := testutil.CreateGenre(s.T(), s.db, "Horror", "horror")
	testutil.CreateTitle(s.T(), s.db, "Alien", 1979, films, *horror)
	testutil.CreateTitle(s.T(), s.db, "Carrie", 1974, books, *horror, *drama)
	testutil.CreateTitle(s.T(), s.db, "Emma", 1815, books, *drama)

	testCases := []struct {
		name   string
		filter repository.TitleFilter
		want   []string
	}{
		{"no filter", repository.TitleFilter{}, []string{"Emma", "Carrie", "Alien"}},
		{"genre", repository.TitleFilter{GenreSlug: "horror"}, []string{"Carrie", "Alien"}},
		{"category", repository.TitleFilter{CategorySlug: "books"}, []string{"Emma", "Carrie"}},
		{"year", repository.TitleFilter{Year: ptr(1979)}, []string{"Alien"}},
		{"name", repository.TitleFilter{Name: "rri"}, []string{"Carrie"}},
		{"combined", repository.TitleFilter{GenreSlug: "drama", CategorySlug: "books", Year: ptr(1815)}, []string{"Emma"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			titles, total, err := s.titles.List(context.Background(), tc.filter, repository.Page{})
			require.NoError(s.T(), err)
			assert.Equal(s.T(), int64(len(tc.want)), total)

			names := make([]string, 0, len(titles))
			for _, t := range titles {
				names = append(names, t.Name)
			}
			assert.Equal(s.T(), tc.want, names)
		})
	}
}

func (s *TitleServiceTestSuite) TestDeleteCascades() {
	title := testutil.CreateTitle(s.T(), s.db, "Alien", 1979, nil)
	alice := testutil.CreateUser(s.T(), s.db, "alice", models.RoleUser)
	review := testutil.CreateReview(s.T(), s.db, title, alice, 7)
	testutil.CreateComment(s.T(), s.db, review, alice)

	require.NoError(s.T(), s.titles.Delete(context.Background(), title.ID))

	assert.Equal(s.T(), int64(0), s.count(&models.Title{}))
	assert.Equal(s.T(), int64(0), s.count(&models.Review{}))
	assert.Equal(s.T(), int64(0), s.count(&models.Comment{}))
	assert.Equal(s.T(), int64(1), s.count(&models.User{}))

	_, err := s.titles.Get(context.Background(), title.ID)
	assert.ErrorIs(s.T(), err, service.ErrTitleNotFound)
}

func TestTitleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TitleServiceTestSuite))
}

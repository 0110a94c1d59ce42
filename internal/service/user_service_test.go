package service_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/policy"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/internal/service"
	"github.com/yamdb/api/internal/testutil"
)

type UserServiceTestSuite struct {
	dbSuite
	users *service.UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	s.dbSuite.SetupTest()
	s.users = service.NewUserService(s.userRepo)
}

func (s *UserServiceTestSuite) TestCreateDefaultsToUserRole() {
	user, err := s.users.Create(context.Background(), service.UserInput{
		Email:    ptr("Carol@Example.com"),
		Username: ptr("carol"),
		Bio:      ptr("hi"),
	})
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), user.ID)
	assert.Equal(s.T(), "carol@example.com", user.Email)
	assert.Equal(s.T(), models.RoleUser, user.Role)
	assert.Equal(s.T(), "hi", user.Bio)
}

func (s *UserServiceTestSuite) TestCreateRequiresEmailAndUsername() {
	_, err := s.users.Create(context.Background(), service.UserInput{Email: ptr("carol@example.com")})
	assertFieldError(s.T(), err, "username")

	_, err = s.users.Create(context.Background(), service.UserInput{Username: ptr("carol")})
	assertFieldError(s.T(), err, "email")
}

func (s *UserServiceTestSuite) TestCreateRejectsDuplicates() {
	testutil.CreateUser(s.T(), s.db, "carol", models.RoleUser)

	_, err := s.users.Create(context.Background(), service.UserInput{Email: ptr("carol@example.com"), Username: ptr("other")})
	assertFieldError(s.T(), err, "email")

	_, err = s.users.Create(context.Background(), service.UserInput{Email: ptr("other@example.com"), Username: ptr("carol")})
	assertFieldError(s.T(), err, "username")
}

func (s *UserServiceTestSuite) TestCreateRejectsUnknownRole() {
	role := models.Role("superuser")
	_, err := s.users.Create(context.Background(), service.UserInput{
		Email:    ptr("carol@example.com"),
		Username: ptr("carol"),
		Role:     &role,
	})
	assertFieldError(s.T(), err, "role")
}

func (s *UserServiceTestSuite) TestResolveByUsernameOrID() {
	carol := testutil.CreateUser(s.T(), s.db, "carol", models.RoleUser)
	anon := &models.User{Email: "anon@example.com", Role: models.RoleUser}
	require.NoError(s.T(), s.userRepo.CreateUser(context.Background(), anon))

	got, err := s.users.Resolve(context.Background(), "carol")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), carol.ID, got.ID)

	got, err = s.users.Resolve(context.Background(), strconv.FormatUint(uint64(anon.ID), 10))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), anon.ID, got.ID)

	_, err = s.users.Resolve(context.Background(), "nobody")
	assert.ErrorIs(s.T(), err, service.ErrNotFound)

	_, err = s.users.Resolve(context.Background(), "0")
	assert.ErrorIs(s.T(), err, service.ErrNotFound)
}

func (s *UserServiceTestSuite) TestAdminUpdateChangesRole() {
	user := testutil.CreateUser(s.T(), s.db, "carol", models.RoleUser)
	role := models.RoleModerator

	updated, err := s.users.Update(context.Background(), user.ID, service.UserInput{Role: &role, FirstName: ptr("Carol")})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleModerator, updated.Role)

	stored, err := s.users.Get(context.Background(), user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleModerator, stored.Role)
	assert.Equal(s.T(), "Carol", stored.FirstName)
}

func (s *UserServiceTestSuite) TestUpdateMe() {
	me := testutil.CreateUser(s.T(), s.db, "carol", models.RoleUser)

	updated, err := s.users.UpdateMe(context.Background(), me, service.UserInput{Bio: ptr("film buff")})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "film buff", updated.Bio)
	assert.Equal(s.T(), models.RoleUser, updated.Role)

	same := models.RoleUser
	_, err = s.users.UpdateMe(context.Background(), me, service.UserInput{Role: &same})
	assert.NoError(s.T(), err)
}

func (s *UserServiceTestSuite) TestUpdateMeCannotChangeRole() {
	me := testutil.CreateUser(s.T(), s.db, "carol", models.RoleUser)
	admin := models.RoleAdmin

	_, err := s.users.UpdateMe(context.Background(), me, service.UserInput{Role: &admin})
	assert.ErrorIs(s.T(), err, service.ErrRoleChangeForbidden)
	assert.ErrorIs(s.T(), err, policy.ErrForbidden)

	stored, err := s.users.Get(context.Background(), me.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.RoleUser, stored.Role)
}

func (s *UserServiceTestSuite) TestUpdateMeUsernameCollision() {
	testutil.CreateUser(s.T(), s.db, "alice", models.RoleUser)
	me := testutil.CreateUser(s.T(), s.db, "carol", models.RoleUser)

	_, err := s.users.UpdateMe(context.Background(), me, service.UserInput{Username: ptr("alice")})
	assertFieldError(s.T(), err, "username")
}

func (s *UserServiceTestSuite) TestListSearch() {
	testutil.CreateUser(s.T(), s.db, "alice", models.RoleUser)
	testutil.CreateUser(s.T(), s.db, "bob", models.RoleUser)
	testutil.CreateUser(s.T(), s.db, "alicia", models.RoleUser)

	users, total, err := s.users.List(context.Background(), "ali", repository.Page{})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), total)
	assert.Len(s.T(), users, 2)

	users, total, err = s.users.List(context.Background(), "", repository.Page{Limit: 1})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), total)
	assert.Len(s.T(), users, 1)
}

func (s *UserServiceTestSuite) TestDeleteRemovesAuthoredContent() {
	author := testutil.CreateUser(s.T(), s.db, "alice", models.RoleUser)
	other := testutil.CreateUser(s.T(), s.db, "bob", models.RoleUser)
	title := testutil.CreateTitle(s.T(), s.db, "Dune", 1965, nil)
	review := testutil.CreateReview(s.T(), s.db, title, author, 8)
	testutil.CreateComment(s.T(), s.db, review, other)
	otherReview := testutil.CreateReview(s.T(), s.db, testutil.CreateTitle(s.T(), s.db, "Emma", 1815, nil), other, 5)
	testutil.CreateComment(s.T(), s.db, otherReview, author)

	require.NoError(s.T(), s.users.Delete(context.Background(), author.ID))

	assert.Equal(s.T(), int64(1), s.count(&models.Review{}))
	assert.Equal(s.T(), int64(0), s.count(&models.Comment{}))

	err := s.users.Delete(context.Background(), author.ID)
	assert.ErrorIs(s.T(), err, service.ErrNotFound)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

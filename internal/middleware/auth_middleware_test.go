package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yamdb/api/internal/models"
	"github.com/yamdb/api/internal/policy"
)

type stubAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, policy.ErrUnauthenticated
}

func newAuthRouter(auth Authenticator, resource policy.Resource, action policy.Action) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Authenticate(auth))
	router.GET("/resource", Authorize(resource, action), func(c *gin.Context) {
		actor := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "has_user": UserFrom(c) != nil})
	})
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	auth := stubAuthenticator{users: map[string]*models.User{
		"user-token":  {ID: 1, Role: models.RoleUser},
		"admin-token": {ID: 2, Role: models.RoleAdmin},
	}}

	testCases := []struct {
		name     string
		resource policy.Resource
		action   policy.Action
		header   string
		want     int
	}{
		{"anonymous read of catalog", policy.ResourceCatalog, policy.ActionRead, "", http.StatusOK},
		{"anonymous write of catalog", policy.ResourceCatalog, policy.ActionCreate, "", http.StatusUnauthorized},
		{"user write of catalog", policy.ResourceCatalog, policy.ActionCreate, "Bearer user-token", http.StatusForbidden},
		{"admin write of catalog", policy.ResourceCatalog, policy.ActionCreate, "Bearer admin-token", http.StatusOK},
		{"anonymous self", policy.ResourceSelf, policy.ActionRead, "", http.StatusUnauthorized},
		{"user self", policy.ResourceSelf, policy.ActionRead, "Bearer user-token", http.StatusOK},
		{"invalid token on public route", policy.ResourceCatalog, policy.ActionRead, "Bearer forged", http.StatusUnauthorized},
		{"missing bearer prefix", policy.ResourceCatalog, policy.ActionRead, "user-token", http.StatusUnauthorized},
		{"empty bearer", policy.ResourceCatalog, policy.ActionRead, "Bearer ", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(newAuthRouter(auth, tc.resource, tc.action), tc.header)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestAuthenticate_SetsUser(t *testing.T) {
	auth := stubAuthenticator{users: map[string]*models.User{"t": {ID: 7, Role: models.RoleUser}}}

	w := get(newAuthRouter(auth, policy.ResourceSelf, policy.ActionRead), "Bearer t")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 7, "has_user": true}`, w.Body.String())
}

func TestAuthenticate_StorageError(t *testing.T) {
	auth := stubAuthenticator{err: errors.New("connection reset")}

	w := get(newAuthRouter(auth, policy.ResourceCatalog, policy.ActionRead), "Bearer t")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(), HSTSMiddleware(true))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yamdb/api/internal/models"
)

var (
	admin     = Actor{UserID: 1, Role: models.RoleAdmin}
	moderator = Actor{UserID: 2, Role: models.RoleModerator}
	user      = Actor{UserID: 3, Role: models.RoleUser}
)

func TestEvaluate_Catalog(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   error
	}{
		{"anonymous read", Anonymous, ActionRead, nil},
		{"user read", user, ActionRead, nil},
		{"anonymous create", Anonymous, ActionCreate, ErrUnauthenticated},
		{"user create", user, ActionCreate, ErrForbidden},
		{"moderator delete", moderator, ActionDelete, ErrForbidden},
		{"admin create", admin, ActionCreate, nil},
		{"admin update", admin, ActionUpdate, nil},
		{"admin delete", admin, ActionDelete, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(Request{Actor: tt.actor, Action: tt.action, Resource: ResourceCatalog})
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestEvaluate_UserAdminOnlyForAdmins(t *testing.T) {
	for _, action := range []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete} {
		t.Run(string(action), func(t *testing.T) {
			assert.NoError(t, Evaluate(Request{Actor: admin, Action: action, Resource: ResourceUserAdmin}))
			assert.ErrorIs(t, Evaluate(Request{Actor: moderator, Action: action, Resource: ResourceUserAdmin}), ErrForbidden)
			assert.ErrorIs(t, Evaluate(Request{Actor: user, Action: action, Resource: ResourceUserAdmin}), ErrForbidden)
			assert.ErrorIs(t, Evaluate(Request{Actor: Anonymous, Action: action, Resource: ResourceUserAdmin}), ErrUnauthenticated)
		})
	}
}

func TestEvaluate_Self(t *testing.T) {
	for _, actor := range []Actor{admin, moderator, user} {
		assert.NoError(t, Evaluate(Request{Actor: actor, Action: ActionRead, Resource: ResourceSelf}))
		assert.NoError(t, Evaluate(Request{Actor: actor, Action: ActionUpdate, Resource: ResourceSelf}))
		assert.ErrorIs(t, Evaluate(Request{Actor: actor, Action: ActionDelete, Resource: ResourceSelf}), ErrForbidden)
	}
	assert.ErrorIs(t, Evaluate(Request{Actor: Anonymous, Action: ActionRead, Resource: ResourceSelf}), ErrUnauthenticated)
}

func TestEvaluate_Discussion(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		action  Action
		isOwner bool
		want    error
	}{
		{"anonymous read", Anonymous, ActionRead, false, nil},
		{"anonymous create", Anonymous, ActionCreate, false, ErrUnauthenticated},
		{"anonymous delete claiming ownership", Anonymous, ActionDelete, true, ErrUnauthenticated},
		{"user create", user, ActionCreate, false, nil},
		{"owner update", user, ActionUpdate, true, nil},
		{"owner delete", user, ActionDelete, true, nil},
		{"non-owner update", user, ActionUpdate, false, ErrForbidden},
		{"non-owner delete", user, ActionDelete, false, ErrForbidden},
		{"moderator deletes others", moderator, ActionDelete, false, nil},
		{"moderator updates others", moderator, ActionUpdate, false, nil},
		{"admin deletes others", admin, ActionDelete, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(Request{Actor: tt.actor, Action: tt.action, Resource: ResourceDiscussion, IsOwner: tt.isOwner})
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestEvaluate_UnknownResourceDenied(t *testing.T) {
	assert.ErrorIs(t, Evaluate(Request{Actor: admin, Action: ActionRead, Resource: "billing"}), ErrForbidden)
	assert.ErrorIs(t, Evaluate(Request{Actor: Anonymous, Action: ActionRead, Resource: "billing"}), ErrUnauthenticated)
}

func TestActor(t *testing.T) {
	assert.False(t, Anonymous.Authenticated())
	assert.False(t, Anonymous.IsElevated())
	assert.False(t, Anonymous.Owns(0))

	assert.True(t, user.Owns(3))
	assert.False(t, user.Owns(4))
	assert.False(t, user.IsElevated())
	assert.True(t, moderator.IsElevated())
	assert.False(t, moderator.IsAdmin())
	assert.True(t, admin.IsAdmin())

	u := &models.User{ID: 9, Role: models.RoleModerator}
	assert.Equal(t, Actor{UserID: 9, Role: models.RoleModerator}, ActorFor(u))
}

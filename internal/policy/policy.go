// Package policy decides whether an actor may perform an action on a kind of
// resource. Decisions are a pure function of the request; callers supply the
// actor and the ownership fact explicitly.
package policy

import (
	"errors"

	"github.com/yamdb/api/internal/models"
)

var (
	// ErrUnauthenticated is returned when the action requires an identity and the actor is anonymous.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	// ErrForbidden is returned when the actor is known but lacks the role or ownership.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Resource string

const (
	// ResourceCatalog covers categories, genres and titles.
	ResourceCatalog Resource = "catalog"
	// ResourceUserAdmin is the user list and other users' records.
	ResourceUserAdmin Resource = "user-admin"
	// ResourceSelf is the caller's own identity record.
	ResourceSelf Resource = "self"
	// ResourceDiscussion covers reviews and comments.
	ResourceDiscussion Resource = "review-or-comment"
)

// Actor is the identity a request runs as. The zero value is anonymous.
type Actor struct {
	UserID uint
	Role   models.Role
}

// Anonymous is the actor for requests without credentials.
var Anonymous = Actor{}

// ActorFor builds the actor for an authenticated user.
func ActorFor(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == models.RoleAdmin
}

// IsElevated reports whether the actor may moderate content it does not own.
func (a Actor) IsElevated() bool {
	return a.Authenticated() && (a.Role == models.RoleAdmin || a.Role == models.RoleModerator)
}

// Owns reports whether the actor is the recorded author.
func (a Actor) Owns(authorID uint) bool {
	return a.Authenticated() && a.UserID == authorID
}

type Request struct {
	Actor    Actor
	Action   Action
	Resource Resource
	IsOwner  bool
}

type grant struct {
	anyone        bool
	authenticated bool
	owner         bool
	roles         []models.Role
}

var (
	public       = grant{anyone: true}
	signedIn     = grant{authenticated: true}
	adminOnly    = grant{roles: []models.Role{models.RoleAdmin}}
	ownerOrStaff = grant{owner: true, roles: []models.Role{models.RoleAdmin, models.RoleModerator}}
)

// rules is the whole permission scheme. Anything missing is denied.
var rules = map[Resource]map[Action]grant{
	ResourceCatalog: {
		ActionRead:   public,
		ActionCreate: adminOnly,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
	},
	ResourceUserAdmin: {
		ActionRead:   adminOnly,
		ActionCreate: adminOnly,
		ActionUpdate: adminOnly,
		ActionDelete: adminOnly,
	},
	ResourceSelf: {
		ActionRead:   signedIn,
		ActionUpdate: signedIn,
	},
	ResourceDiscussion: {
		ActionRead:   public,
		ActionCreate: signedIn,
		ActionUpdate: ownerOrStaff,
		ActionDelete: ownerOrStaff,
	},
}

// Evaluate returns nil when the request is allowed, ErrUnauthenticated when an
// anonymous actor asks for something that needs an identity, and ErrForbidden
// otherwise.
func Evaluate(req Request) error {
	g, ok := rules[req.Resource][req.Action]
	if ok && g.anyone {
		return nil
	}
	if !req.Actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !ok {
		return ErrForbidden
	}
	if g.authenticated {
		return nil
	}
	if g.owner && req.IsOwner {
		return nil
	}
	for _, role := range g.roles {
		if req.Actor.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

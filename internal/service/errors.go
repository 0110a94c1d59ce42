package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/policy"
)

// Error kinds. Handlers map these to status codes with errors.Is; the
// concrete errors below carry the message shown to the client.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrCategoryNotFound = newError(ErrNotFound, "category not found")
	ErrGenreNotFound    = newError(ErrNotFound, "genre not found")
	ErrTitleNotFound    = newError(ErrNotFound, "title not found")
	ErrReviewNotFound   = newError(ErrNotFound, "review not found")
	ErrCommentNotFound  = newError(ErrNotFound, "comment not found")

	ErrAlreadyReviewed = newError(ErrConflict, "you already reviewed this work")

	ErrInvalidConfirmationCode = newError(ErrInvalidCredentials, "invalid confirmation code")

	ErrRoleChangeForbidden = newError(policy.ErrForbidden, "role can only be changed by an administrator")
)

type serviceError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

// fieldError is a single-field validation failure in the same shape
// ozzo-validation produces for struct rules.
func fieldError(field, msg string) error {
	return validation.Errors{field: errors.New(msg)}
}

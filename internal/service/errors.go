package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Error is a business rule violation with a client facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrRecipeNotFound   = &Error{Kind: ErrNotFound, Msg: "recipe not found"}
	ErrUserNotFound     = &Error{Kind: ErrNotFound, Msg: "user not found"}
	ErrNotRecipeOwner   = &Error{Kind: ErrForbidden, Msg: "only the owner can delete a recipe"}
	ErrEmailInUse       = &Error{Kind: ErrConflict, Msg: "Email in use"}
	ErrWrongCredentials = &Error{Kind: ErrInvalidCredentials, Msg: "Email or password is wrong"}
)

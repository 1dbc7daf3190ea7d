// Package service implements the business logic behind the church-ui API:
// account registration and verification, login checks, member administration,
// the notice board, sermon bulletins, and outbound mail.
package service

import "errors"

var (
	ErrNotFound         = errors.New("no matching record")
	ErrUsernameTaken    = errors.New("username already in use")
	ErrEmailTaken       = errors.New("email already in use")
	ErrTitleTaken       = errors.New("title already exists")
	ErrWrongCredentials = errors.New("username or password incorrect")
	ErrNotVerified      = errors.New("email not verified")
	ErrWrongPassword    = errors.New("current password incorrect")
	ErrForbidden        = errors.New("insufficient permissions")
)

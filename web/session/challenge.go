package session

import (
	"errors"
	"time"
)

var (
	ErrNoChallenge = errors.New("no pending verification challenge")
	ErrExpired     = errors.New("verification code expired")
	ErrMismatch    = errors.New("verification code mismatch")
)

// Challenge is a session-scoped, expiring (identity, code) pair awaiting
// confirmation. Registration challenges carry only Email; password-reset
// challenges carry Username and Email, either of which addresses the user.
type Challenge struct {
	Username string
	Email    string
	Code     string
	Expires  time.Time
}

// ResetGrant authorizes exactly one password overwrite for the identity the
// confirmed challenge was issued for.
type ResetGrant struct {
	Username string
	Email    string
}

func (ch *Challenge) Expired(now time.Time) bool {
	return now.After(ch.Expires)
}

// Matches reports whether identity addresses this challenge's target, by
// exact string equality against the username or the email.
func (ch *Challenge) Matches(identity string) bool {
	if identity == "" {
		return false
	}
	return identity == ch.Username || identity == ch.Email
}

// Verify checks a pending challenge against (identity, code) at time now.
// The expiry check precedes the identity/code comparison, so an expired
// challenge fails with ErrExpired even when the code is correct; the caller
// must delete the challenge on that error. A mismatch leaves the challenge
// usable until it expires.
func Verify(ch *Challenge, identity, code string, now time.Time) error {
	if ch == nil {
		return ErrNoChallenge
	}
	if ch.Expired(now) {
		return ErrExpired
	}
	if !ch.Matches(identity) || code != ch.Code {
		return ErrMismatch
	}
	return nil
}

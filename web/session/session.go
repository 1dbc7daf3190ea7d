// Package session stores the per-browser authentication state: the identity
// snapshot written at login time and the pending verification challenges for
// registration and password reset.
package session

import (
	"encoding/gob"

	"github.com/hanlovechurch/church-ui/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUserKey        = "LOGIN_USER"
	registerCodeKey     = "REGISTER_CODE"
	registerVerifiedKey = "REGISTER_VERIFIED"
	resetCodeKey        = "RESET_CODE"
	resetGrantKey       = "RESET_GRANT"
)

func init() {
	gob.Register(model.User{})
	gob.Register(Challenge{})
	gob.Register(ResetGrant{})
}

// SetLoginUser writes the identity snapshot into the session. The snapshot
// is a copy taken at login time; it goes stale until the next login.
func SetLoginUser(c *gin.Context, user *model.User) error {
	snapshot := *user
	snapshot.Password = ""
	s := sessions.Default(c)
	s.Set(loginUserKey, snapshot)
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUserKey); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

// ClearSession destroys the whole session, including any pending challenge.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	return s.Save()
}

// SetRegisterChallenge stores the pending registration challenge, replacing
// any previous one.
func SetRegisterChallenge(c *gin.Context, ch Challenge) error {
	s := sessions.Default(c)
	s.Set(registerCodeKey, ch)
	return s.Save()
}

func GetRegisterChallenge(c *gin.Context) *Challenge {
	return getChallenge(c, registerCodeKey)
}

func ClearRegisterChallenge(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(registerCodeKey)
	return s.Save()
}

// SetEmailVerified marks the given address as verified for one subsequent
// registration attempt.
func SetEmailVerified(c *gin.Context, email string) error {
	s := sessions.Default(c)
	s.Set(registerVerifiedKey, email)
	return s.Save()
}

// TakeEmailVerified returns the verified address and deletes the marker.
// The marker is single-use: it is consumed whether or not the registration
// that follows succeeds.
func TakeEmailVerified(c *gin.Context) (string, bool) {
	s := sessions.Default(c)
	obj := s.Get(registerVerifiedKey)
	if obj == nil {
		return "", false
	}
	s.Delete(registerVerifiedKey)
	if err := s.Save(); err != nil {
		return "", false
	}
	email, ok := obj.(string)
	return email, ok
}

func SetResetChallenge(c *gin.Context, ch Challenge) error {
	s := sessions.Default(c)
	s.Set(resetCodeKey, ch)
	return s.Save()
}

func GetResetChallenge(c *gin.Context) *Challenge {
	return getChallenge(c, resetCodeKey)
}

func ClearResetChallenge(c *gin.Context) error {
	s := sessions.Default(c)
	s.Delete(resetCodeKey)
	return s.Save()
}

// SetResetGrant replaces a confirmed reset challenge with the short-lived
// authorization to overwrite one account's password.
func SetResetGrant(c *gin.Context, g ResetGrant) error {
	s := sessions.Default(c)
	s.Set(resetGrantKey, g)
	return s.Save()
}

// TakeResetGrant returns the pending reset grant and deletes it. Single-use,
// consumed even when the password update that follows fails.
func TakeResetGrant(c *gin.Context) (*ResetGrant, bool) {
	s := sessions.Default(c)
	obj := s.Get(resetGrantKey)
	if obj == nil {
		return nil, false
	}
	s.Delete(resetGrantKey)
	if err := s.Save(); err != nil {
		return nil, false
	}
	if g, ok := obj.(ResetGrant); ok {
		return &g, true
	}
	return nil, false
}

func getChallenge(c *gin.Context, key string) *Challenge {
	s := sessions.Default(c)
	if obj := s.Get(key); obj != nil {
		if ch, ok := obj.(Challenge); ok {
			return &ch
		}
	}
	return nil
}

package service

import (
	"strings"

	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"
	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/util/crypto"
)

type UserService struct{}

func (s *UserService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

// CheckUser validates a login attempt. Both an unknown username and a wrong
// password come back as ErrWrongCredentials so the response cannot be used
// to enumerate accounts; the verified check still fires first, as the
// product was built.
func (s *UserService) CheckUser(username string, password string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrWrongCredentials
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil, err
	}

	if !user.EmailVerified {
		return nil, ErrNotVerified
	}

	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil, ErrWrongCredentials
	}

	return user, nil
}

// Register creates the account after the session's email challenge was
// confirmed. Uniqueness is re-checked here as a fast path, but the unique
// indexes on username and email are the actual enforcement; a concurrent
// insert that slips past the checks fails on the index and is mapped to the
// same conflict errors.
func (s *UserService) Register(name, username, password, email string) (*model.User, error) {
	db := database.GetDB()

	var count int64
	if err := db.Model(model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := db.Model(model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:      username,
		Password:      hash,
		Name:          name,
		Email:         email,
		Role:          model.RoleUser,
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, uniqueViolation(err)
	}
	return user, nil
}

// uniqueViolation maps a unique index failure to the matching conflict error.
func uniqueViolation(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "users.username") {
		return ErrUsernameTaken
	}
	if strings.Contains(msg, "users.email") {
		return ErrEmailTaken
	}
	return err
}

func (s *UserService) UpdateProfile(id int, name, email string) error {
	db := database.GetDB()
	err := db.Model(model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "email": email}).
		Error
	if err != nil {
		return uniqueViolation(err)
	}
	return nil
}

// ChangePassword overwrites the hash after confirming the current password.
func (s *UserService) ChangePassword(id int, oldPassword, newPassword string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if !crypto.CheckPasswordHash(user.Password, oldPassword) {
		return ErrWrongPassword
	}
	return s.setPassword(user.Id, newPassword)
}

// ResetPassword overwrites the hash for the account addressed by the reset
// grant's username or email. The caller has already consumed the grant.
func (s *UserService) ResetPassword(username, email, newPassword string) error {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ? OR email = ?", username, email).
		First(user).
		Error
	if database.IsNotFound(err) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.setPassword(user.Id, newPassword)
}

// AdminResetPassword overwrites a member's hash without the old password.
func (s *UserService) AdminResetPassword(id int, newPassword string) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	return s.setPassword(id, newPassword)
}

func (s *UserService) setPassword(id int, password string) error {
	hash, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Update("password", hash).
		Error
}

func (s *UserService) ListUsers() ([]model.User, error) {
	db := database.GetDB()
	var users []model.User
	err := db.Model(model.User{}).Order("id").Find(&users).Error
	return users, err
}

// UpdateUserAdmin lets an admin change a member's role and title. Empty
// values leave the field untouched, matching the admin form's semantics.
func (s *UserService) UpdateUserAdmin(id int, newRole, newTitle string) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	updates := map[string]any{}
	if newRole != "" {
		updates["role"] = newRole
	}
	if newTitle != "" {
		updates["title"] = newTitle
	}
	if len(updates) == 0 {
		return nil
	}
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (s *UserService) DeleteUser(id int) error {
	db := database.GetDB()
	result := db.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

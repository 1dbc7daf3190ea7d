package service

import (
	"errors"
	"os"
	"testing"

	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"
	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/util/crypto"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger(logging.ERROR)
	if err := database.InitTestDB(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRegisterAndLogin(t *testing.T) {
	var svc UserService

	user, err := svc.Register("김철수", "cheolsu", "secret-pw", "cheolsu@example.com")
	require.NoError(t, err)
	require.True(t, user.EmailVerified)
	require.Equal(t, model.RoleUser, user.Role)
	require.NotEqual(t, "secret-pw", user.Password, "password must be stored hashed")

	got, err := svc.CheckUser("cheolsu", "secret-pw")
	require.NoError(t, err)
	require.Equal(t, user.Id, got.Id)
}

func TestCheckUserWrongCredentials(t *testing.T) {
	var svc UserService

	_, err := svc.Register("박영희", "younghee", "right-pw", "younghee@example.com")
	require.NoError(t, err)

	_, err = svc.CheckUser("younghee", "wrong-pw")
	require.ErrorIs(t, err, ErrWrongCredentials)

	// unknown account reads the same as a wrong password
	_, err = svc.CheckUser("no-such-user", "right-pw")
	require.ErrorIs(t, err, ErrWrongCredentials)
}

func TestCheckUserUnverified(t *testing.T) {
	hash, err := crypto.HashPasswordAsBcrypt("pw")
	require.NoError(t, err)
	db := database.GetDB()
	require.NoError(t, db.Create(&model.User{
		Username: "pending",
		Password: hash,
		Name:     "미인증",
		Email:    "pending@example.com",
		Role:     model.RoleUser,
	}).Error)

	var svc UserService
	_, err = svc.CheckUser("pending", "pw")
	require.ErrorIs(t, err, ErrNotVerified)

	// the verified check fires even when the password is wrong
	_, err = svc.CheckUser("pending", "wrong")
	require.ErrorIs(t, err, ErrNotVerified)
}

func TestRegisterConflicts(t *testing.T) {
	var svc UserService

	_, err := svc.Register("김민수", "minsu", "pw", "minsu@example.com")
	require.NoError(t, err)

	_, err = svc.Register("다른사람", "minsu", "pw", "other@example.com")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register("다른사람", "other", "pw", "minsu@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestChangePassword(t *testing.T) {
	var svc UserService

	user, err := svc.Register("이수진", "sujin", "old-pw", "sujin@example.com")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(user.Id, "not-old-pw", "new-pw"), ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(user.Id, "old-pw", "new-pw"))

	_, err = svc.CheckUser("sujin", "old-pw")
	require.ErrorIs(t, err, ErrWrongCredentials)
	_, err = svc.CheckUser("sujin", "new-pw")
	require.NoError(t, err)
}

func TestResetPasswordByEmail(t *testing.T) {
	var svc UserService

	_, err := svc.Register("최지훈", "jihoon", "old-pw", "jihoon@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword("jihoon", "jihoon@example.com", "reset-pw"))

	_, err = svc.CheckUser("jihoon", "reset-pw")
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	var svc UserService

	user, err := svc.Register("탈퇴자", "leaver", "pw", "leaver@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(user.Id))
	require.ErrorIs(t, svc.DeleteUser(user.Id), ErrNotFound)

	_, err = svc.GetUser(user.Id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTitleCascade(t *testing.T) {
	var users UserService
	var titles TitleService

	require.NoError(t, titles.AddTitle("집사"))
	require.ErrorIs(t, titles.AddTitle("집사"), ErrTitleTaken)

	user, err := users.Register("직분자", "deacon", "pw", "deacon@example.com")
	require.NoError(t, err)
	require.NoError(t, users.UpdateUserAdmin(user.Id, "", "집사"))

	require.NoError(t, titles.DeleteTitle("집사"))

	got, err := users.GetUser(user.Id)
	require.NoError(t, err)
	require.Empty(t, got.Title, "deleting a title must clear it from its holders")

	require.ErrorIs(t, titles.DeleteTitle("집사"), ErrNotFound)
}

func TestUpdateUserAdminSkipsEmptyFields(t *testing.T) {
	var users UserService
	var titles TitleService

	require.NoError(t, titles.AddTitle("권사"))
	user, err := users.Register("관리대상", "member1", "pw", "member1@example.com")
	require.NoError(t, err)

	require.NoError(t, users.UpdateUserAdmin(user.Id, model.RoleAdmin, "권사"))
	got, err := users.GetUser(user.Id)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, got.Role)
	require.Equal(t, "권사", got.Title)

	require.NoError(t, users.UpdateUserAdmin(user.Id, "", ""))
	got, err = users.GetUser(user.Id)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, got.Role)
	require.Equal(t, "권사", got.Title)

	err = users.UpdateUserAdmin(99999, model.RoleUser, "")
	require.True(t, errors.Is(err, ErrNotFound))
}

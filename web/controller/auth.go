package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/web/entity"
	"github.com/hanlovechurch/church-ui/web/service"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterForm carries the terminal registration request. The email must
// match the verified marker left by the code flow.
type RegisterForm struct {
	Name     string `json:"name" form:"name"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

type sendCodeForm struct {
	Email string `json:"email" form:"email"`
}

type verifyCodeForm struct {
	Email string `json:"email" form:"email"`
	Code  string `json:"code" form:"code"`
}

type resetSendCodeForm struct {
	Identity string `json:"username_email" form:"username_email"`
}

type resetVerifyCodeForm struct {
	Identity string `json:"username_email" form:"username_email"`
	Code     string `json:"code" form:"code"`
}

type resetPasswordForm struct {
	NewPassword string `json:"new_password" form:"new_password"`
}

// AuthController handles login, logout, registration and the two
// code-verification flows.
type AuthController struct {
	BaseController

	userService   service.UserService
	verifyService *service.VerificationService

	now func() time.Time
}

func NewAuthController(g *gin.RouterGroup, verifyService *service.VerificationService) *AuthController {
	a := &AuthController{verifyService: verifyService, now: time.Now}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)
	g.POST("/register", a.register)

	auth := g.Group("/api/auth")
	auth.GET("/status", a.status)
	auth.POST("/send-code", a.sendCode)
	auth.POST("/verify-code", a.verifyCode)
	auth.POST("/find-password/send-code", a.resetSendCode)
	auth.POST("/find-password/verify-code", a.resetVerifyCode)
	auth.POST("/reset-password", a.resetPassword)
}

// sendCode starts the registration flow: the address must be unused, and the
// challenge only reaches the session once the mail went out.
func (a *AuthController) sendCode(c *gin.Context) {
	var form sendCodeForm
	if err := c.ShouldBind(&form); err != nil || form.Email == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.emailRequired"))
		return
	}

	ch, err := a.verifyService.BeginRegistration(form.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			jsonError(c, http.StatusConflict, I18nWeb(c, "auth.emailTaken"))
		default:
			logger.Warning("send verification code:", err)
			jsonError(c, http.StatusInternalServerError, I18nWeb(c, "auth.sendCodeFailed"))
		}
		return
	}

	if err := session.SetRegisterChallenge(c, *ch); err != nil {
		jsonServerError(c, "persist register challenge", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "auth.codeSent"))
}

// verifyCode confirms the registration challenge. An expired challenge is
// deleted by the failed check; a mismatch leaves it untouched.
func (a *AuthController) verifyCode(c *gin.Context) {
	var form verifyCodeForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.invalidForm"))
		return
	}

	ch := session.GetRegisterChallenge(c)
	switch err := session.Verify(ch, form.Email, form.Code, a.now()); {
	case errors.Is(err, session.ErrNoChallenge):
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.noPendingCode"))
	case errors.Is(err, session.ErrExpired):
		if err := session.ClearRegisterChallenge(c); err != nil {
			logger.Warning("clear expired register challenge:", err)
		}
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.codeExpired"))
	case errors.Is(err, session.ErrMismatch):
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.codeMismatch"))
	default:
		if err := session.ClearRegisterChallenge(c); err != nil {
			jsonServerError(c, "consume register challenge", err)
			return
		}
		if err := session.SetEmailVerified(c, ch.Email); err != nil {
			jsonServerError(c, "persist verified marker", err)
			return
		}
		jsonMsg(c, I18nWeb(c, "auth.codeVerified"))
	}
}

// register commits the account. The verified marker is consumed whether or
// not the insert succeeds, so one confirmation covers one attempt only.
func (a *AuthController) register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil ||
		form.Name == "" || form.Username == "" || form.Password == "" || form.Email == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.fieldsRequired"))
		return
	}

	verifiedEmail, ok := session.TakeEmailVerified(c)
	if !ok || verifiedEmail != form.Email {
		jsonError(c, http.StatusForbidden, I18nWeb(c, "auth.verifyFirst"))
		return
	}

	user, err := a.userService.Register(form.Name, form.Username, form.Password, form.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			jsonError(c, http.StatusConflict, I18nWeb(c, "auth.usernameTaken"))
		case errors.Is(err, service.ErrEmailTaken):
			jsonError(c, http.StatusConflict, I18nWeb(c, "auth.emailTaken"))
		default:
			jsonServerError(c, "register user", err)
		}
		return
	}

	logger.Infof("new user registered: %s", user.Username)
	jsonMsgObj(c, http.StatusCreated, I18nWeb(c, "auth.registerSuccess"), nil)
}

// login never tells an unknown username apart from a wrong password.
func (a *AuthController) login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil || form.Username == "" || form.Password == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.invalidForm"))
		return
	}

	user, err := a.userService.CheckUser(form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotVerified):
			jsonError(c, http.StatusForbidden, I18nWeb(c, "auth.emailNotVerified"))
		case errors.Is(err, service.ErrWrongCredentials):
			logger.Warningf("failed login for %q, IP: %q", form.Username, getRemoteIp(c))
			jsonError(c, http.StatusUnauthorized, I18nWeb(c, "auth.wrongCredentials"))
		default:
			jsonServerError(c, "login", err)
		}
		return
	}

	if err := session.SetLoginUser(c, user); err != nil {
		jsonServerError(c, "save session", err)
		return
	}
	logger.Infof("%s logged in successfully, IP: %s", user.Username, getRemoteIp(c))
	jsonMsg(c, I18nWeb(c, "auth.loginSuccess"))
}

// logout destroys the whole session, in-flight challenges included.
func (a *AuthController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if err := session.ClearSession(c); err != nil {
		jsonServerError(c, "clear session", err)
		return
	}
	if user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	jsonMsg(c, I18nWeb(c, "auth.logoutSuccess"))
}

func (a *AuthController) status(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user == nil {
		jsonObj(c, entity.AuthStatus{IsLoggedIn: false})
		return
	}
	jsonObj(c, entity.AuthStatus{
		IsLoggedIn: true,
		Username:   user.Username,
		Name:       user.Name,
		Role:       user.Role,
	})
}

// resetSendCode starts the reset flow for an existing account, addressed by
// username or email.
func (a *AuthController) resetSendCode(c *gin.Context) {
	var form resetSendCodeForm
	if err := c.ShouldBind(&form); err != nil || form.Identity == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.identityRequired"))
		return
	}

	ch, err := a.verifyService.BeginPasswordReset(form.Identity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "auth.noMatchingUser"))
		default:
			logger.Warning("send reset code:", err)
			jsonError(c, http.StatusInternalServerError, I18nWeb(c, "auth.sendCodeFailed"))
		}
		return
	}

	if err := session.SetResetChallenge(c, *ch); err != nil {
		jsonServerError(c, "persist reset challenge", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "auth.codeSent"))
}

// resetVerifyCode confirms the reset challenge and replaces it with the
// single-use reset grant.
func (a *AuthController) resetVerifyCode(c *gin.Context) {
	var form resetVerifyCodeForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.invalidForm"))
		return
	}

	ch := session.GetResetChallenge(c)
	switch err := session.Verify(ch, form.Identity, form.Code, a.now()); {
	case errors.Is(err, session.ErrNoChallenge):
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.noPendingCode"))
	case errors.Is(err, session.ErrExpired):
		if err := session.ClearResetChallenge(c); err != nil {
			logger.Warning("clear expired reset challenge:", err)
		}
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.codeExpired"))
	case errors.Is(err, session.ErrMismatch):
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.codeMismatch"))
	default:
		if err := session.ClearResetChallenge(c); err != nil {
			jsonServerError(c, "consume reset challenge", err)
			return
		}
		if err := session.SetResetGrant(c, session.ResetGrant{
			Username: ch.Username,
			Email:    ch.Email,
		}); err != nil {
			jsonServerError(c, "persist reset grant", err)
			return
		}
		jsonMsg(c, I18nWeb(c, "auth.resetVerified"))
	}
}

// resetPassword overwrites the password for the granted identity. The grant
// is consumed by this attempt regardless of outcome.
func (a *AuthController) resetPassword(c *gin.Context) {
	var form resetPasswordForm
	if err := c.ShouldBind(&form); err != nil || form.NewPassword == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.passwordRequired"))
		return
	}

	grant, ok := session.TakeResetGrant(c)
	if !ok {
		jsonError(c, http.StatusForbidden, I18nWeb(c, "auth.resetNotAuthorized"))
		return
	}

	if err := a.userService.ResetPassword(grant.Username, grant.Email, form.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "reset password", err)
		}
		return
	}
	jsonMsg(c, I18nWeb(c, "auth.resetSuccess"))
}

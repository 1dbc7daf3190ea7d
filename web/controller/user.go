package controller

import (
	"errors"
	"net/http"

	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/web/middleware"
	"github.com/hanlovechurch/church-ui/web/service"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
)

type updateInfoForm struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

type changePasswordForm struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

// UserController handles the my-page operations of a logged-in member.
type UserController struct {
	BaseController

	userService service.UserService
}

func NewUserController(g *gin.RouterGroup) *UserController {
	a := &UserController{}
	a.initRouter(g)
	return a
}

func (a *UserController) initRouter(g *gin.RouterGroup) {
	user := g.Group("/api/user")
	user.Use(middleware.SessionAuth())

	user.GET("/info", a.info)
	user.POST("/update-info", a.updateInfo)
	user.POST("/change-password", a.changePassword)
	user.POST("/delete-account", a.deleteAccount)
}

// info returns the member's current record, not the login-time snapshot.
func (a *UserController) info(c *gin.Context) {
	caller := session.GetLoginUser(c)
	user, err := a.userService.GetUser(caller.Id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "get user info", err)
		}
		return
	}
	jsonObj(c, user)
}

func (a *UserController) updateInfo(c *gin.Context) {
	var form updateInfoForm
	if err := c.ShouldBind(&form); err != nil || form.Name == "" || form.Email == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.fieldsRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	if err := a.userService.UpdateProfile(caller.Id, form.Name, form.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			jsonError(c, http.StatusConflict, I18nWeb(c, "auth.emailTaken"))
		default:
			jsonServerError(c, "update user info", err)
		}
		return
	}

	// refresh the snapshot so the header shows the new name right away
	caller.Name = form.Name
	caller.Email = form.Email
	if err := session.SetLoginUser(c, caller); err != nil {
		logger.Warning("refresh session snapshot:", err)
	}
	jsonMsg(c, I18nWeb(c, "user.infoUpdated"))
}

func (a *UserController) changePassword(c *gin.Context) {
	var form changePasswordForm
	if err := c.ShouldBind(&form); err != nil || form.OldPassword == "" || form.NewPassword == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.fieldsRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	if err := a.userService.ChangePassword(caller.Id, form.OldPassword, form.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			jsonError(c, http.StatusUnauthorized, I18nWeb(c, "user.wrongPassword"))
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "change password", err)
		}
		return
	}
	jsonMsg(c, I18nWeb(c, "user.passwordChanged"))
}

// deleteAccount removes the member's own record and destroys the session.
func (a *UserController) deleteAccount(c *gin.Context) {
	caller := session.GetLoginUser(c)
	if err := a.userService.DeleteUser(caller.Id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "delete account", err)
		}
		return
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("clear session after account deletion:", err)
	}
	logger.Infof("user %s deleted own account", caller.Username)
	jsonMsg(c, I18nWeb(c, "user.accountDeleted"))
}

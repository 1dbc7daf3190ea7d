package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/web/middleware"
	"github.com/hanlovechurch/church-ui/web/service"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
)

type adminUserUpdateForm struct {
	Id       int    `json:"id" form:"id"`
	NewRole  string `json:"newRole" form:"newRole"`
	NewTitle string `json:"newTitle" form:"newTitle"`
}

type adminResetPasswordForm struct {
	Id          int    `json:"id" form:"id"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type adminUserDeleteForm struct {
	Id int `json:"id" form:"id"`
}

type titleForm struct {
	Title string `json:"title" form:"title"`
}

type contentUpdateForm struct {
	PageName string `json:"pageName" form:"pageName"`
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
}

// AdminController handles member and title administration. Every route is
// behind the admin gate.
type AdminController struct {
	BaseController

	userService    service.UserService
	titleService   service.TitleService
	contentService service.ContentService
}

func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	admin := g.Group("/api/admin")
	admin.Use(middleware.SessionAuth(), middleware.RequireAdmin())

	admin.GET("/users", a.listUsers)
	admin.POST("/users/update", a.updateUser)
	admin.POST("/users/reset-password", a.resetPassword)
	admin.POST("/users/delete", a.deleteUser)

	admin.GET("/titles", a.listTitles)
	admin.POST("/titles/add", a.addTitle)
	admin.POST("/titles/delete", a.deleteTitle)

	admin.POST("/content/update", a.updateContent)
	admin.GET("/logs", a.logs)
}

func (a *AdminController) listUsers(c *gin.Context) {
	users, err := a.userService.ListUsers()
	if err != nil {
		jsonServerError(c, "list users", err)
		return
	}
	jsonObj(c, users)
}

func (a *AdminController) updateUser(c *gin.Context) {
	var form adminUserUpdateForm
	if err := c.ShouldBind(&form); err != nil || form.Id == 0 {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.idRequired"))
		return
	}

	if err := a.userService.UpdateUserAdmin(form.Id, form.NewRole, form.NewTitle); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "update user", err)
		}
		return
	}
	jsonMsg(c, I18nWeb(c, "admin.userUpdated"))
}

func (a *AdminController) resetPassword(c *gin.Context) {
	var form adminResetPasswordForm
	if err := c.ShouldBind(&form); err != nil || form.Id == 0 || form.NewPassword == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.idRequired"))
		return
	}

	if err := a.userService.AdminResetPassword(form.Id, form.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "admin reset password", err)
		}
		return
	}
	jsonMsg(c, I18nWeb(c, "admin.passwordReset"))
}

// deleteUser rejects the caller's own id before touching the store: an
// admin cannot delete the account backing the active session.
func (a *AdminController) deleteUser(c *gin.Context) {
	var form adminUserDeleteForm
	if err := c.ShouldBind(&form); err != nil || form.Id == 0 {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.idRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	if caller.Id == form.Id {
		jsonError(c, http.StatusForbidden, I18nWeb(c, "admin.selfDelete"))
		return
	}

	if err := a.userService.DeleteUser(form.Id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "user.notFound"))
		default:
			jsonServerError(c, "delete user", err)
		}
		return
	}
	logger.Infof("admin %s deleted user id=%d", caller.Username, form.Id)
	jsonMsg(c, I18nWeb(c, "admin.userDeleted"))
}

func (a *AdminController) listTitles(c *gin.Context) {
	titles, err := a.titleService.ListTitles()
	if err != nil {
		jsonServerError(c, "list titles", err)
		return
	}
	jsonObj(c, titles)
}

func (a *AdminController) addTitle(c *gin.Context) {
	var form titleForm
	if err := c.ShouldBind(&form); err != nil || form.Title == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.titleRequired"))
		return
	}

	if err := a.titleService.AddTitle(form.Title); err != nil {
		switch {
		case errors.Is(err, service.ErrTitleTaken):
			jsonError(c, http.StatusConflict, I18nWeb(c, "admin.titleExists"))
		default:
			jsonServerError(c, "add title", err)
		}
		return
	}
	jsonMsgObj(c, http.StatusCreated, I18nWeb(c, "admin.titleAdded"), nil)
}

// deleteTitle clears the title from every holder before removing it.
func (a *AdminController) deleteTitle(c *gin.Context) {
	var form titleForm
	if err := c.ShouldBind(&form); err != nil || form.Title == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "admin.titleRequired"))
		return
	}

	if err := a.titleService.DeleteTitle(form.Title); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "admin.titleNotFound"))
		default:
			jsonServerError(c, "delete title", err)
		}
		return
	}
	jsonMsg(c, I18nWeb(c, "admin.titleDeleted"))
}

func (a *AdminController) updateContent(c *gin.Context) {
	var form contentUpdateForm
	if err := c.ShouldBind(&form); err != nil ||
		form.PageName == "" || form.Title == "" || form.Content == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.fieldsRequired"))
		return
	}

	if err := a.contentService.UpdateContent(form.PageName, form.Title, form.Content); err != nil {
		jsonServerError(c, "update content", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "admin.contentUpdated"))
}

func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil {
		count = 50
	}
	level := c.DefaultQuery("level", "INFO")
	jsonObj(c, logger.GetLogs(count, level))
}

// Package controller provides the HTTP handlers for the church-ui site:
// authentication and verification, member pages, the admin panel, the notice
// board, and sermon bulletins.
package controller

import (
	"net/http"

	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// checkLogin gates HTML pages: browsers are redirected to the login page,
// AJAX callers get a JSON 401.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "auth.loginRequired"))
		} else {
			c.Redirect(http.StatusTemporaryRedirect, "/login.html")
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// I18nWeb retrieves a localized message using the per-request localizer.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, _ := anyfunc.(func(key string, params ...string) string)
	return i18nFunc(name, params...)
}

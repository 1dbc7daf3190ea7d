// Package middleware provides gin middlewares for the church-ui web server.
package middleware

import (
	"net/http"

	"github.com/hanlovechurch/church-ui/database/model"
	"github.com/hanlovechurch/church-ui/web/entity"
	"github.com/hanlovechurch/church-ui/web/locale"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
)

// SessionAuth rejects requests without a logged-in session. It only gates;
// it does not refresh or extend the session.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsLogin(c) {
			abortMsg(c, http.StatusUnauthorized, locale.I18nCtx(c, "auth.loginRequired"))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin sessions. An anonymous caller gets 401, a
// logged-in non-admin gets 403; the two outcomes are deliberately distinct.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := session.GetLoginUser(c)
		if user == nil {
			abortMsg(c, http.StatusUnauthorized, locale.I18nCtx(c, "auth.loginRequired"))
			return
		}
		if user.Role != model.RoleAdmin {
			abortMsg(c, http.StatusForbidden, locale.I18nCtx(c, "admin.forbidden"))
			return
		}
		c.Next()
	}
}

func abortMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, entity.Msg{
		Success: false,
		Msg:     msg,
	})
	c.Abort()
}

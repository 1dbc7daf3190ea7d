package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/web/entity"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a success envelope with a message.
func jsonMsg(c *gin.Context, msg string) {
	jsonMsgObj(c, http.StatusOK, msg, nil)
}

// jsonObj sends a success envelope with an object.
func jsonObj(c *gin.Context, obj any) {
	jsonMsgObj(c, http.StatusOK, "", obj)
}

func jsonMsgObj(c *gin.Context, statusCode int, msg string, obj any) {
	c.JSON(statusCode, entity.Msg{
		Success: true,
		Msg:     msg,
		Obj:     obj,
	})
}

// jsonError sends a failure envelope with the given status and localized
// message. Internal error details never reach the response body.
func jsonError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: false,
		Msg:     msg,
	})
}

// jsonServerError logs the underlying error and answers with a generic
// retry-later message.
func jsonServerError(c *gin.Context, msg string, err error) {
	logger.Warning(msg+":", err)
	jsonError(c, http.StatusInternalServerError, I18nWeb(c, "common.serverError"))
}

// pureJsonMsg sends a bare envelope with a custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// isAjax checks if the request is an AJAX request.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

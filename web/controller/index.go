package controller

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/web/service"

	"github.com/gin-gonic/gin"
)

// IndexController serves the static HTML pages of the site and the public
// page-content API.
type IndexController struct {
	BaseController

	contentService service.ContentService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.page("home.html"))
	g.GET("/login.html", a.page("login.html"))
	g.GET("/register.html", a.page("register.html"))
	g.GET("/findpassword.html", a.page("findpassword.html"))
	g.GET("/admin.html", a.page("admin.html"))
	g.GET("/greetings.html", a.page("greetings.html"))
	g.GET("/notice.html", a.page("notice.html"))
	g.GET("/sermon.html", a.page("sermon.html"))
	g.GET("/mypage.html", a.checkLogin, a.page("mypage.html"))

	g.GET("/api/content/:pageName", a.getContent)
}

func (a *IndexController) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.File(filepath.Join(config.GetStaticFolder(), name))
	}
}

func (a *IndexController) getContent(c *gin.Context) {
	content, err := a.contentService.GetContent(c.Param("pageName"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			jsonError(c, http.StatusNotFound, I18nWeb(c, "common.notFound"))
		default:
			jsonServerError(c, "get page content", err)
		}
		return
	}
	jsonObj(c, content)
}

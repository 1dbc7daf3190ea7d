package controller

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/web/middleware"
	"github.com/hanlovechurch/church-ui/web/service"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const noticeFolder = "church_notices"

// SermonController serves the weekly bulletin gallery and the editor image
// upload endpoint. Bulletin uploads are admin-only; editor uploads only need
// a logged-in member.
type SermonController struct {
	BaseController

	sermonService *service.SermonService
	imageHost     *service.ImageHostService
}

func NewSermonController(g *gin.RouterGroup, sermonService *service.SermonService, imageHost *service.ImageHostService) *SermonController {
	a := &SermonController{
		sermonService: sermonService,
		imageHost:     imageHost,
	}
	a.initRouter(g)
	return a
}

func (a *SermonController) initRouter(g *gin.RouterGroup) {
	g.GET("/api/sermons", a.list)

	admin := g.Group("/api/sermons")
	admin.Use(middleware.SessionAuth(), middleware.RequireAdmin())
	admin.POST("/upload", a.upload)

	g.POST("/api/upload", middleware.SessionAuth(), a.editorUpload)
}

func (a *SermonController) list(c *gin.Context) {
	sermons, err := a.sermonService.ListSermons()
	if err != nil {
		jsonServerError(c, "list sermons", err)
		return
	}
	jsonObj(c, sermons)
}

func (a *SermonController) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "sermon.noFiles"))
		return
	}
	files := form.File["sermonFiles"]
	if len(files) == 0 {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "sermon.noFiles"))
		return
	}

	caller := session.GetLoginUser(c)
	for _, file := range files {
		path, err := saveTempFile(c, file)
		if err != nil {
			jsonServerError(c, "save upload", err)
			return
		}
		_, err = a.sermonService.Upload(path, file.Filename, caller.Id)
		if removeErr := os.Remove(path); removeErr != nil {
			logger.Warningf("remove temp upload %s: %v", path, removeErr)
		}
		if err != nil {
			jsonServerError(c, "upload sermon", err)
			return
		}
	}
	jsonMsgObj(c, http.StatusCreated, I18nWeb(c, "sermon.uploaded"), nil)
}

func (a *SermonController) editorUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "sermon.noFiles"))
		return
	}

	path, err := saveTempFile(c, file)
	if err != nil {
		jsonServerError(c, "save upload", err)
		return
	}
	url, err := a.imageHost.Upload(path, noticeFolder)
	if removeErr := os.Remove(path); removeErr != nil {
		logger.Warningf("remove temp upload %s: %v", path, removeErr)
	}
	if err != nil {
		jsonServerError(c, "upload image", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// saveTempFile stores the uploaded file under the uploads folder with a
// random name, so concurrent uploads of the same filename cannot collide.
func saveTempFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	folder := config.GetUploadFolder()
	if err := os.MkdirAll(folder, 0o750); err != nil {
		return "", err
	}
	path := filepath.Join(folder, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hanlovechurch/church-ui/web/middleware"
	"github.com/hanlovechurch/church-ui/web/service"
	"github.com/hanlovechurch/church-ui/web/session"

	"github.com/gin-gonic/gin"
)

type postForm struct {
	Title   string `json:"title" form:"title"`
	Content string `json:"content" form:"content"`
}

type commentForm struct {
	Text string `json:"commentText" form:"commentText"`
}

type commentUpdateForm struct {
	Text string `json:"newText" form:"newText"`
}

// PostController handles the notice board: posts and their comments.
// Reading is public; writing requires login, and edits are restricted to the
// author or an admin by the service layer.
type PostController struct {
	BaseController

	postService service.PostService
}

func NewPostController(g *gin.RouterGroup) *PostController {
	a := &PostController{}
	a.initRouter(g)
	return a
}

func (a *PostController) initRouter(g *gin.RouterGroup) {
	posts := g.Group("/api/posts")

	posts.GET("", a.list)
	posts.GET("/:id", a.detail)

	authed := posts.Group("")
	authed.Use(middleware.SessionAuth())
	authed.POST("", a.create)
	authed.PUT("/:id", a.update)
	authed.DELETE("/:id", a.delete)
	authed.POST("/:id/comments", a.addComment)
	authed.PUT("/:id/comments/:commentId", a.updateComment)
	authed.DELETE("/:id/comments/:commentId", a.deleteComment)
}

func (a *PostController) list(c *gin.Context) {
	posts, err := a.postService.ListPosts()
	if err != nil {
		jsonServerError(c, "list posts", err)
		return
	}
	jsonObj(c, posts)
}

func (a *PostController) detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	post, err := a.postService.GetPost(id)
	if err != nil {
		a.postError(c, "get post", err)
		return
	}
	jsonObj(c, post)
}

func (a *PostController) create(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil || form.Title == "" || form.Content == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.fieldsRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	if _, err := a.postService.CreatePost(caller, form.Title, form.Content); err != nil {
		jsonServerError(c, "create post", err)
		return
	}
	jsonMsgObj(c, http.StatusCreated, I18nWeb(c, "post.created"), nil)
}

func (a *PostController) update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var form postForm
	if err := c.ShouldBind(&form); err != nil || form.Title == "" || form.Content == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "auth.fieldsRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	if err := a.postService.UpdatePost(caller, id, form.Title, form.Content); err != nil {
		a.postError(c, "update post", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "post.updated"))
}

func (a *PostController) delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	caller := session.GetLoginUser(c)
	if err := a.postService.DeletePost(caller, id); err != nil {
		a.postError(c, "delete post", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "post.deleted"))
}

func (a *PostController) addComment(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	var form commentForm
	if err := c.ShouldBind(&form); err != nil || form.Text == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "post.commentRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	comment, err := a.postService.AddComment(caller, id, form.Text)
	if err != nil {
		a.postError(c, "add comment", err)
		return
	}
	jsonMsgObj(c, http.StatusCreated, I18nWeb(c, "post.commentAdded"), comment)
}

func (a *PostController) updateComment(c *gin.Context) {
	postId, _ := strconv.Atoi(c.Param("id"))
	commentId, _ := strconv.Atoi(c.Param("commentId"))
	var form commentUpdateForm
	if err := c.ShouldBind(&form); err != nil || form.Text == "" {
		jsonError(c, http.StatusBadRequest, I18nWeb(c, "post.commentRequired"))
		return
	}

	caller := session.GetLoginUser(c)
	if err := a.postService.UpdateComment(caller, postId, commentId, form.Text); err != nil {
		a.commentError(c, "update comment", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "post.commentUpdated"))
}

func (a *PostController) deleteComment(c *gin.Context) {
	postId, _ := strconv.Atoi(c.Param("id"))
	commentId, _ := strconv.Atoi(c.Param("commentId"))
	caller := session.GetLoginUser(c)
	if err := a.postService.DeleteComment(caller, postId, commentId); err != nil {
		a.commentError(c, "delete comment", err)
		return
	}
	jsonMsg(c, I18nWeb(c, "post.commentDeleted"))
}

func (a *PostController) postError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		jsonError(c, http.StatusNotFound, I18nWeb(c, "post.notFound"))
	case errors.Is(err, service.ErrForbidden):
		jsonError(c, http.StatusForbidden, I18nWeb(c, "post.forbidden"))
	default:
		jsonServerError(c, op, err)
	}
}

func (a *PostController) commentError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		jsonError(c, http.StatusNotFound, I18nWeb(c, "post.commentNotFound"))
	case errors.Is(err, service.ErrForbidden):
		jsonError(c, http.StatusForbidden, I18nWeb(c, "post.forbidden"))
	default:
		jsonServerError(c, op, err)
	}
}

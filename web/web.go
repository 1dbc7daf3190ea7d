// Package web provides the church website's web server: HTTP serving,
// routing, session handling, and background job scheduling.
package web

import (
	"context"
	"embed"
	"io"
	"net"
	"net/http"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/util/common"
	"github.com/hanlovechurch/church-ui/util/random"
	"github.com/hanlovechurch/church-ui/web/controller"
	"github.com/hanlovechurch/church-ui/web/job"
	"github.com/hanlovechurch/church-ui/web/locale"
	"github.com/hanlovechurch/church-ui/web/middleware"
	"github.com/hanlovechurch/church-ui/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed translation/*
var i18nFS embed.FS

// Server represents the web server with its controllers, services, and
// scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index  *controller.IndexController
	auth   *controller.AuthController
	user   *controller.UserController
	admin  *controller.AdminController
	post   *controller.PostController
	sermon *controller.SermonController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new web server instance with a cancellable context.
func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// initRouter initializes Gin, registers middleware, static files and
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	secret := config.GetSessionSecret()
	if secret == "" {
		// sessions won't survive a restart without a configured secret
		secret = random.Seq(32)
		logger.Warning("CHURCH_SESSION_SECRET is not set, using a random secret")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   config.GetSessionMaxAge(),
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions("session", store))

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	engine.Use(locale.LocalizerMiddleware())

	staticFolder := config.GetStaticFolder()
	engine.Static("/css", staticFolder+"/css")
	engine.Static("/js", staticFolder+"/js")
	engine.Static("/images", staticFolder+"/images")

	g := engine.Group("/")
	s.index = controller.NewIndexController(g)
	s.auth = controller.NewAuthController(g, service.NewVerificationService(service.NewMailService()))
	s.user = controller.NewUserController(g)
	s.admin = controller.NewAdminController(g)
	s.post = controller.NewPostController(g)

	imageHost := service.NewImageHostService()
	s.sermon = controller.NewSermonController(g, service.NewSermonService(imageHost), imageHost)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules background maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@hourly", job.NewClearUploadsJob())
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), config.GetPort())
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop gracefully shuts down the web server and its cron jobs.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/loanwise/internal/api/handler"
	"github.com/jon4hz/loanwise/internal/config"
	"github.com/jon4hz/loanwise/internal/static"
	"golang.org/x/sync/errgroup"
)

const (
	sessionName     = "loanwise_session"
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg        *config.Config
	ginEngine  *gin.Engine
	handler    *handler.Handler
	httpServer *http.Server
}

func New(cfg *config.Config, authenticator handler.Authenticator, predictor handler.Predictor, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("session key is required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), requestLogger(), gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/favicon.ico"})))

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		handler:   handler.New(authenticator, predictor),
	}
	s.setupSession()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
}

func (s *Server) setupRoutes() error {
	h := s.handler

	assets, err := static.FS()
	if err != nil {
		return err
	}
	s.ginEngine.StaticFS("/static", http.FS(assets))

	s.ginEngine.GET("/", h.Home)
	s.ginEngine.GET("/favicon.ico", h.Favicon)
	s.ginEngine.GET("/register", h.RegisterPage)
	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.GET("/login", h.LoginPage)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.GET("/logout", h.Logout)

	protected := s.ginEngine.Group("/")
	protected.Use(h.RequireSession())

	protected.GET("/enter_details", h.PredictPage)
	protected.GET("/predict", h.PredictPage)
	protected.POST("/predict", h.Predict)
	return nil
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting API server", "listen", s.cfg.Listen)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx) //nolint:contextcheck
	})

	return g.Wait()
}

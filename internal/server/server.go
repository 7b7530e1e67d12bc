package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"riskconsole/internal/backend"
	"riskconsole/internal/logger"
	"riskconsole/internal/metrics"
	"riskconsole/internal/settings"
	"riskconsole/pkg/models"
)

var log = logger.Named("http")

// Scorer produces risk scores for the API.
type Scorer interface {
	Score(ctx context.Context, incidentID int) (models.RiskScore, error)
	ScoreAll(ctx context.Context) ([]models.RiskScore, error)
	Payload(ctx context.Context, incidentID int) (models.RiskScorePayload, error)
}

// Dispatcher runs settings actions.
type Dispatcher interface {
	Actions() []settings.Action
	Run(ctx context.Context, id string) (settings.Result, error)
}

// Config controls the HTTP API.
type Config struct {
	Addr        string
	Mode        string
	MetricsPath string
}

// Deps are the collaborators the API is served from.
type Deps struct {
	Scorer   Scorer
	Settings Dispatcher
	Backend  *backend.Client
	Metrics  *metrics.Metrics
}

// Server is the risk console HTTP API.
type Server struct {
	cfg    Config
	deps   Deps
	router *gin.Engine
}

// New builds the router.
func New(cfg Config, deps Deps) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	s := &Server{cfg: cfg, deps: deps, router: r}
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Infof("server stopped")
	return nil
}

func (s *Server) routes() {
	r := s.router
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.deps.Metrics != nil {
		r.GET(s.cfg.MetricsPath, gin.WrapH(s.deps.Metrics.Handler()))
	}

	if s.deps.Scorer != nil {
		r.GET("/risk/", s.listRisk)
		r.GET("/risk/:id", s.getRisk)
		r.GET("/risk/:id/summary", s.getRiskSummary)
		r.GET("/risk/:id/breakdown", s.getRiskBreakdown)
		r.GET("/summaries/", s.listSummaries)
	}

	r.GET("/fields/", s.listEntityConfigs)
	r.GET("/fields/:entity", s.getEntityConfig)
	if s.deps.Backend != nil {
		s.entityRoutes(r.Group("/entities"))
		s.linkRoutes(r.Group("/links"))
	}

	if s.deps.Settings != nil {
		r.GET("/settings/actions", s.listActions)
		r.POST("/settings/:action", s.runAction)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		msg := "%s %s -> %d (%s)"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Microsecond)}
		switch {
		case status >= 500:
			log.Errorf(msg, args...)
		case status >= 400:
			log.Warnf(msg, args...)
		default:
			log.Debugf(msg, args...)
		}
	}
}

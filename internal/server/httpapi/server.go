// Package httpapi exposes the REST surface: routing, request translation,
// and the single boundary where service errors become HTTP responses.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/snaplist/snaplist/internal/logging"
	"github.com/snaplist/snaplist/internal/server/config"
	"github.com/snaplist/snaplist/internal/server/services"
)

type Server struct {
	config  *config.Config
	logger  logging.Logger
	users   *services.UserService
	tasks   *services.TaskService
	engine  *gin.Engine
	nowFunc func() time.Time
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ts *services.TaskService) *Server {
	s := &Server{
		config:  cfg,
		logger:  l.With("module", "http_server"),
		users:   us,
		tasks:   ts,
		nowFunc: time.Now,
	}
	s.engine = s.buildRouter()
	return s
}

// buildRouter assembles middleware and routes. Auth endpoints sit behind a
// per-IP rate limiter; everything under /api/tasks requires a valid token.
func (s *Server) buildRouter() *gin.Engine {
	registerTagNames()

	engine := gin.New()
	engine.Use(requestID())
	engine.Use(requestLogger(s.logger))
	engine.Use(recovery(s.logger))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := engine.Group("/api")
	api.GET("/ping", s.ping)

	authGroup := api.Group("/auth")
	rps, burst := rateLimitFromConfig(s.config)
	authGroup.Use(rateLimiter(rate.Limit(rps), burst))
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	taskGroup := api.Group("/tasks")
	taskGroup.Use(authRequired([]byte(s.config.SecretKey)))
	taskGroup.POST("", s.createTask)
	taskGroup.GET("", s.listTasks)
	taskGroup.GET("/due-today", s.listDueToday)
	taskGroup.GET("/overdue", s.listOverdue)
	taskGroup.GET("/:id", s.getTask)
	taskGroup.PUT("/:id", s.updateTask)
	taskGroup.DELETE("/:id", s.deleteTask)
	taskGroup.POST("/:id/complete", s.completeTask)

	return engine
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.EndpointAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func rateLimitFromConfig(cfg *config.Config) (r float64, b int) {
	r, b = cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst
	if r <= 0 {
		r = 5
	}
	if b <= 0 {
		b = 10
	}
	return r, b
}

// registerTagNames makes validator errors report json field names instead
// of Go struct field names.
func registerTagNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

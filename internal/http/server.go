package http

import (
	"context"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed-app/backend/internal/config"
	jwtpkg "github.com/pulsefeed-app/backend/internal/jwt"
	"github.com/pulsefeed-app/backend/internal/metrics"
	"github.com/pulsefeed-app/backend/internal/middleware"
	ormpkg "github.com/pulsefeed-app/backend/internal/orm"
)

// Server is the HTTP front of the service. Construction wires the full route
// table; Start and Stop hang off the fx lifecycle.
type Server struct {
	httpServer *nethttp.Server
	logger     *zap.Logger
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	jwt *jwtpkg.JWT,
	db *ormpkg.DatabaseClient,
	meters *metrics.Metrics,
	users *UserHandler,
	posts *PostHandler,
	feed *FeedHandler,
	uploads *UploadHandler,
	videos *VideoHandler,
) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		requestLogger(logger),
		meters.Middleware(),
		middleware.NewRateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	authorized := middleware.NewAuthorizationMiddleware(logger, jwt)
	viewer := middleware.NewViewerMiddleware(jwt)

	engine.POST("/users", users.Register)
	engine.POST("/login", users.Login)
	engine.GET("/users", users.List)
	engine.GET("/users/:id", users.Get)
	engine.PUT("/users/:id", authorized, users.Update)
	engine.DELETE("/users/:id", authorized, users.Delete)

	engine.POST("/posts/:id", authorized, posts.Create)
	engine.GET("/posts", viewer, feed.Get)
	engine.POST("/posts/:id/like", authorized, posts.Like)
	engine.POST("/posts/:id/unlike", authorized, posts.Unlike)
	engine.POST("/posts/:id/dislike", authorized, posts.Dislike)
	engine.POST("/posts/:id/undislike", authorized, posts.Undislike)

	engine.POST("/upload", authorized, uploads.Upload)
	engine.POST("/api/video-info", videos.Info)

	engine.GET("/healthz", func(c *gin.Context) {
		if _, err := db.CountUsers(); err != nil {
			c.JSON(nethttp.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(meters.Handler()))

	return &Server{
		httpServer: &nethttp.Server{
			Addr:              net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("address", s.httpServer.Addr))

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != nethttp.ErrServerClosed {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping http server")
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

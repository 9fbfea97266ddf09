package api

import (
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/server"
)

// ServiceName is reported by the /health endpoint.
const ServiceName = "InboxCast Demo"

// unmatchedRoute labels requests that matched no route so the path label
// stays bounded.
const unmatchedRoute = "unmatched"

// Config holds the collaborators of a Handler.
type Config struct {
	Session  Session
	Feeds    FeedService
	Rewriter Rewriter
	Narrator Narrator

	// AudioDir is where generated audio files are written and the only
	// directory downloads are served from.
	AudioDir string

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Handler implements every API endpoint.
type Handler struct {
	session  Session
	feeds    FeedService
	rewriter Rewriter
	narrator Narrator
	audioDir string
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	// newID names generated audio files.
	newID func() string
}

// NewHandler creates a Handler from cfg.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	audioDir := cfg.AudioDir
	if audioDir == "" {
		audioDir = "/tmp"
	}
	return &Handler{
		session:  cfg.Session,
		feeds:    cfg.Feeds,
		rewriter: cfg.Rewriter,
		narrator: cfg.Narrator,
		audioDir: audioDir,
		logger:   logger,
		metrics:  cfg.Metrics,
		newID: func() string {
			id := uuid.New()
			return hex.EncodeToString(id[:])
		},
	}
}

// NewHandlerFromContext wires a Handler to the services of sc.
func NewHandlerFromContext(sc *server.ServerContext) *Handler {
	return NewHandler(Config{
		Session:  sc.Auth(),
		Feeds:    sc.Feeds(),
		Rewriter: sc.Rewriter(),
		Narrator: sc.Narrator(),
		AudioDir: sc.AudioDir(),
		Logger:   sc.Logger(),
		Metrics:  sc.Metrics(),
	})
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Health mounts /healthz, /readyz and /healthz/detailed when set.
	Health *server.HealthChecker
}

// NewRouter registers every route of h on a new gin engine.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpMetrics(h.metrics))
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.Health)
	if opts.Health != nil {
		router.GET("/healthz", gin.WrapH(opts.Health.LivenessHandler()))
		router.GET("/readyz", gin.WrapH(opts.Health.ReadinessHandler()))
		router.GET("/healthz/detailed", gin.WrapH(opts.Health.DetailedHealthHandler()))
	}

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.GET("/status", h.AuthStatus)
	auth.GET("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/emails", h.Emails)

	rss := api.Group("/rss")
	rss.POST("/fetch", h.FetchFeed)
	rss.GET("/test", h.TestFeed)

	content := api.Group("/content")
	content.POST("/generate", h.GenerateContent)
	content.POST("/test", h.TestContent)
	content.POST("/enhance", h.EnhanceContent)

	audio := api.Group("/audio")
	audio.POST("/generate", h.GenerateAudio)
	audio.GET("/download/*path", h.DownloadAudio)
	audio.POST("/test", h.TestAudio)
	audio.GET("/test-connection", h.TestAudioConnection)

	return router
}

// Health reports that the API is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
}

// abort ends the request with the API error shape.
func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("HTTP request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status_code", c.Writer.Status()),
			slog.String("client_ip", c.ClientIP()),
			slog.Duration("duration", time.Since(start)),
			slog.String("trace_id", instrumentation.GetTraceID(c.Request.Context())),
		)
	}
}

// httpMetrics wraps each request in a span named after the route template
// and records the request metrics.
func httpMetrics(metrics *instrumentation.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		ctx, span := instrumentation.StartSpan(c.Request.Context(), "http "+c.Request.Method+" "+route,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		)
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		metrics.RecordHTTPRequest(ctx, c.Request.Method, route, status, time.Since(start))
	}
}

package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/metrics"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName     = "RTCAgentSessions"
	clientCookie    = "ct"
	clientTokenKey  = "client_token"
	clientCookieAge = 3600 * 24 * 7
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(clientCookie)
		if token == "" {
			token = genClientToken()
			c.SetCookie(clientCookie, token, clientCookieAge, "/", "", false, true)
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// AccessLog writes one zerolog line per request and counts it.
func AccessLog(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		m.ObserveRequest(c.Request.Method, c.FullPath(), status)
		log.Info().
			Str("module", "adapters.http").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func recovery(c *gin.Context, err any) {
	log.Error().Str("module", "adapters.http").Str("path", c.Request.URL.Path).Interface("panic", err).Msg("handler panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": fmt.Sprint(err),
	})
}

// Deps are the router collaborators. Zero fields get defaults.
type Deps struct {
	Metrics *metrics.Metrics
	// Upstream is the client used by the proxy endpoint.
	Upstream *http.Client
	Now      func() time.Time
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(cfg.Server.Version, deps.Now())
	}
	if deps.Upstream == nil {
		deps.Upstream = &http.Client{Timeout: cfg.Server.ProxyTimeout}
	}

	r := gin.New()
	if cfg.Server.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(AccessLog(deps.Metrics))
	r.Use(gin.CustomRecovery(recovery))

	store := cookie.NewStore([]byte(cfg.Server.Secret))
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	h := &handlers{
		cfg:     cfg,
		metrics: deps.Metrics,
		client:  deps.Upstream,
		now:     deps.Now,
		limiter: NewRateLimiter(cfg.Server.TokenRateLimit, cfg.Server.TokenRateWindow),
	}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api")
	api.GET("/config", h.config)

	rtc := api.Group("/rtc")
	rtc.POST("/token", h.issueToken)
	rtc.GET("/session", h.lastSession)
	rtc.GET("/room/:roomId", h.roomInfo)

	api.POST("/proxy/volcengine", h.proxy)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": c.Request.URL.Path})
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Server.Mode).Msg("router setup")
	return r
}

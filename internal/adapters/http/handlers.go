package http

import (
	"net/http"
	"time"

	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/dkeye/RTCAgent/internal/metrics"
	"github.com/dkeye/RTCAgent/internal/token"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// roomCapacity is what the static room descriptor advertises.
const roomCapacity = 10

type handlers struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	client  *http.Client
	now     func() time.Time
	limiter *RateLimiter
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"version":   h.cfg.Server.Version,
	})
}

type TokenRequest struct {
	RoomID string `json:"roomId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
	// ExpireTime is the lifetime in seconds.
	ExpireTime int64 `json:"expireTime"`
}

func (h *handlers) issueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters: roomId, userId"})
		return
	}
	room, err := domain.NewRoomID(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := domain.NewUserID(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many token requests"})
		return
	}

	ttl := req.ExpireTime
	if ttl <= 0 {
		ttl = h.cfg.RTC.TokenTTL
	}
	issued, err := token.Issue(room, user, ttl, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token", "message": err.Error()})
		return
	}

	sess := sessions.Default(c)
	sess.Set("roomId", string(room))
	sess.Set("userId", string(user))
	if err := sess.Save(); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("session save")
	}

	h.metrics.TokenIssued()
	log.Info().Str("module", "adapters.http").Str("room", string(room)).Str("user", string(user)).Str("client", c.GetString(clientTokenKey)).Msg("generated token")
	c.JSON(http.StatusOK, issued)
}

// lastSession returns the room and user of the last token issued to this browser.
func (h *handlers) lastSession(c *gin.Context) {
	sess := sessions.Default(c)
	room, _ := sess.Get("roomId").(string)
	user, _ := sess.Get("userId").(string)
	if room == "" || user == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": room, "userId": user})
}

func (h *handlers) roomInfo(c *gin.Context) {
	room, err := domain.NewRoomID(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, domain.NewRoomDescriptor(room, roomCapacity, h.now()))
}

func (h *handlers) config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rtc": gin.H{
			"appId":        h.cfg.RTC.AppID,
			"domain":       h.cfg.RTC.Domain,
			"hasAppKey":    h.cfg.RTC.AppKey != "",
			"hasAppSecret": h.cfg.RTC.AppSecret != "",
		},
		"server": gin.H{
			"version":     h.cfg.Server.Version,
			"environment": h.cfg.Server.Environment,
		},
	})
}

// Package server exposes the moderation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elum-utils/safetymonitor/adapters/notify"
	"github.com/elum-utils/safetymonitor/config"
	"github.com/elum-utils/safetymonitor/core"
	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/models"
)

const attribution = "<br><br><hr/><i>Auto-moderated by AI Safety Monitor</i>"

// Moderator runs the pipeline for one message.
type Moderator interface {
	Moderate(ctx context.Context, message string, settings []models.Setting) models.Verdict
}

// Notifier posts a decision back to the channel without blocking the response.
type Notifier interface {
	Dispatch(channelID, message, status string)
}

// Options configure the HTTP surface.
type Options struct {
	Moderator Moderator
	// Notifier is optional.
	Notifier Notifier
	Logger   interfaces.Logger
	// Metrics is mounted at MetricsPath when set.
	Metrics     http.Handler
	MetricsPath string
	// MaxBodyBytes limits request bodies; zero means no limit.
	MaxBodyBytes int64
	Integration  config.IntegrationConfig
}

// WebhookPayload is the inbound webhook body.
type WebhookPayload struct {
	ChannelID string           `json:"channel_id"`
	Message   string           `json:"message"`
	Settings  []models.Setting `json:"settings"`
}

// WebhookResponse is always sent with 200 OK. The message is an HTML fragment
// and is written without JSON HTML escaping.
type WebhookResponse struct {
	Status  models.Status `json:"status"`
	Message string        `json:"message"`
}

// Server holds the router.
type Server struct {
	opt    Options
	router *gin.Engine
}

// New builds the router.
func New(opt Options) (*Server, error) {
	if opt.Moderator == nil {
		return nil, errors.New("server: moderator is nil")
	}
	if opt.MetricsPath == "" {
		opt.MetricsPath = config.DefaultMetricsPath
	}

	r := gin.New()

	s := &Server{opt: opt, router: r}

	r.Use(
		s.recovery(),
		requestID(),
		s.requestLogger(),
		securityHeaders(),
		cors(),
		bodyLimit(opt.MaxBodyBytes),
	)

	r.GET("/health", s.health)
	r.POST("/webhook", s.webhook)
	r.GET("/integration-config", s.integrationConfig)
	if opt.Metrics != nil {
		r.GET(opt.MetricsPath, gin.WrapH(opt.Metrics))
	}
	r.NoRoute(notFound)

	return s, nil
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// FormatMessage wraps a verdict message in the HTML fragment the chat host renders.
func FormatMessage(reason string) string {
	return "<span>" + reason + "</span>" + attribution
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"health-check": "OK: top level api working"})
}

func (s *Server) webhook(c *gin.Context) {
	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.logWarn(c, "invalid webhook payload", map[string]any{"error": err.Error()})
		c.PureJSON(http.StatusOK, WebhookResponse{
			Status:  models.StatusBlocked,
			Message: FormatMessage(core.ReasonInternalError),
		})
		return
	}

	start := time.Now()
	v := s.opt.Moderator.Moderate(c.Request.Context(), payload.Message, payload.Settings)
	msg := FormatMessage(v.Message)

	s.logInfo(c, "message moderated", map[string]any{
		"channel_id": payload.ChannelID,
		"status":     string(v.Status),
		"action":     string(v.Action),
		"stage":      string(v.Stage),
		"length":     len(payload.Message),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if s.opt.Notifier != nil && v.Action != models.ActionAllowed && v.Action != "" {
		status := notify.StatusSuccess
		if v.Blocked() {
			status = notify.StatusError
		}
		s.opt.Notifier.Dispatch(payload.ChannelID, msg, status)
	}

	c.PureJSON(http.StatusOK, WebhookResponse{Status: v.Status, Message: msg})
}

func (s *Server) logInfo(c *gin.Context, msg string, fields map[string]any) {
	if s.opt.Logger != nil {
		s.opt.Logger.Info(msg, withRequestID(c, fields))
	}
}

func (s *Server) logWarn(c *gin.Context, msg string, fields map[string]any) {
	if s.opt.Logger != nil {
		s.opt.Logger.Warn(msg, withRequestID(c, fields))
	}
}

func (s *Server) logError(c *gin.Context, msg string, fields map[string]any) {
	if s.opt.Logger != nil {
		s.opt.Logger.Error(msg, withRequestID(c, fields))
	}
}

func withRequestID(c *gin.Context, fields map[string]any) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	if id := c.GetString(requestIDKey); id != "" {
		fields["request_id"] = id
	}
	return fields
}

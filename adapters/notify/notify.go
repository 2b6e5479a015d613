// Package notify posts moderation outcomes back to the chat channel.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second
	appName        = "AI Safety Monitor"
)

// Notification statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Notification is the payload accepted by the channel return URL.
type Notification struct {
	EventName string `json:"event_name"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	Username  string `json:"username"`
}

// Options configures the notifier.
type Options struct {
	ReturnURL        string
	DefaultChannelID string
	Timeout          time.Duration
	Logger           interfaces.Logger
}

// Notifier sends best-effort channel notifications.
type Notifier struct {
	client           *resty.Client
	returnURL        string
	defaultChannelID string
	timeout          time.Duration
	logger           interfaces.Logger
}

// NewNotifier creates a notifier. ReturnURL is required.
func NewNotifier(opt Options) (*Notifier, error) {
	base := strings.TrimRight(strings.TrimSpace(opt.ReturnURL), "/")
	if base == "" {
		return nil, errors.New("notify: return URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("notify: invalid return URL: %w", err)
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	return &Notifier{
		client: resty.New().
			SetTimeout(opt.Timeout).
			SetHeader("Content-Type", "application/json"),
		returnURL:        base,
		defaultChannelID: opt.DefaultChannelID,
		timeout:          opt.Timeout,
		logger:           opt.Logger,
	}, nil
}

// Send posts a notification to {returnURL}/{channelID}. An empty channel id
// falls back to the configured default.
func (n *Notifier) Send(ctx context.Context, channelID, message, status string) error {
	if channelID == "" {
		channelID = n.defaultChannelID
	}
	if channelID == "" {
		return errors.New("notify: channel id is empty")
	}
	if status == "" {
		status = StatusSuccess
	}
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(Notification{
			EventName: appName,
			Message:   message,
			Status:    status,
			Username:  appName,
		}).
		Post(n.returnURL + "/" + url.PathEscape(channelID))
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("notify: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Dispatch sends in the background. Failures are logged and never retried.
func (n *Notifier) Dispatch(channelID, message, status string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.logWarn("notification panic", map[string]any{"panic": fmt.Sprint(r)})
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.Send(ctx, channelID, message, status); err != nil {
			n.logWarn("failed to send channel notification", map[string]any{
				"error":      err.Error(),
				"channel_id": channelID,
			})
		}
	}()
}

func (n *Notifier) logWarn(msg string, fields map[string]any) {
	if n.logger != nil {
		n.logger.Warn(msg, fields)
	}
}

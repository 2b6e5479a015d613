package safetymonitor

import (
	"github.com/elum-utils/safetymonitor/core"
	"github.com/elum-utils/safetymonitor/models"
)

// Re-export core API at module root for convenient imports.
type (
	Monitor       = core.Core
	Options       = core.Options
	DecisionEvent = core.DecisionEvent
	EventHandler  = core.EventHandler
	Setting       = models.Setting
	Verdict       = models.Verdict
)

const (
	ActionAllowed = models.ActionAllowed
	ActionFlagged = models.ActionFlagged
	ActionBlocked = models.ActionBlocked
)

// New creates a moderation pipeline.
func New(opt Options) *Monitor {
	return core.New(opt)
}

package economy

import "errors"

var ErrUnknownAction = errors.New("unknown reward action")

// Action is the base reward granted before the tier multiplier is
// applied.
type Action struct {
	XP int64
	JP int64
}

// DefaultActions lists the site actions the engine pays out for. The
// keys are what callers pass to AwardForAction.
var DefaultActions = map[string]Action{
	"event_registration": {XP: 50, JP: 50},
	"daily_login":        {XP: 10, JP: 5},
	"order_placed":       {XP: 25, JP: 25},
	"review_posted":      {XP: 15, JP: 10},
	"profile_completed":  {XP: 20, JP: 0},
}

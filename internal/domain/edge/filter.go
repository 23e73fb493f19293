// Package edge decides, from cookie presence alone, whether a request may
// proceed to page rendering. It is deliberately coarse; the route guard does
// the status-aware checks once identity is known.
package edge

import "github.com/lingua-labs/lingua-web/internal/domain/routes"

// Action is what the filter does with a request.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
	ActionSkip     Action = "skip" // exempt path, never intercepted
)

// Request is the cookie-level view of an incoming request.
type Request struct {
	Path             string
	HasRefreshCookie bool
	SessionExpired   bool
}

// Decision is the filter outcome. Location is set for ActionRedirect.
type Decision struct {
	Action   Action
	Location string
}

// Decide applies the edge rules.
func Decide(req Request) Decision {
	if routes.IsExempt(req.Path) {
		return Decision{Action: ActionSkip}
	}

	if req.HasRefreshCookie && routes.IsAuthOnly(req.Path) && !req.SessionExpired {
		return Decision{Action: ActionRedirect, Location: routes.DefaultLanding}
	}

	if !req.HasRefreshCookie && routes.IsPrivate(req.Path) {
		return Decision{Action: ActionRedirect, Location: routes.LoginURL()}
	}

	return Decision{Action: ActionAllow}
}

// SessionExpiredFlag interprets the session_expired query value.
// Any non-empty value other than "0" or "false" counts as set.
func SessionExpiredFlag(v string) bool {
	switch v {
	case "", "0", "false":
		return false
	default:
		return true
	}
}

package access

import (
	"strings"
)

// Status is the resolution state of a visitor's session
type Status string

const (
	StatusLoading         Status = "loading"
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
)

// Role is the staff role carried by an authenticated session
type Role string

const (
	RoleNone  Role = ""
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role (the empty role is valid)
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// Session is the authentication state the gate reads. It is produced by the
// session provider and never modified here.
type Session struct {
	Status      Status `json:"status"`
	Role        Role   `json:"role,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	UserID      string `json:"-"`
}

// Loading returns a session that has not been resolved yet
func Loading() Session {
	return Session{Status: StatusLoading}
}

// Anonymous returns an unauthenticated session
func Anonymous() Session {
	return Session{Status: StatusUnauthenticated}
}

// RouteClass classifies a navigation path
type RouteClass string

const (
	ClassAdmin  RouteClass = "admin"
	ClassWorker RouteClass = "worker"
	ClassPublic RouteClass = "public"
)

// Redirect targets emitted by the gate
const (
	HomePath        = "/"
	AdminLoginPath  = "/admin"
	WorkerLoginPath = "/worker"
)

// Classify maps a path to its RouteClass by prefix
func Classify(path string) RouteClass {
	switch {
	case strings.HasPrefix(path, AdminLoginPath):
		return ClassAdmin
	case strings.HasPrefix(path, WorkerLoginPath):
		return ClassWorker
	default:
		return ClassPublic
	}
}

// Outcome is the kind of decision the gate reached
type Outcome string

const (
	OutcomeRender   Outcome = "render"
	OutcomeRedirect Outcome = "redirect"
	OutcomePending  Outcome = "pending"
)

// Decision tells the caller whether to render protected content, redirect, or
// show a loading indicator. Target is only set for redirects.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
}

func Render() Decision  { return Decision{Outcome: OutcomeRender} }
func Pending() Decision { return Decision{Outcome: OutcomePending} }

func RedirectTo(target string) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target}
}

func (d Decision) String() string {
	if d.Outcome == OutcomeRedirect {
		return string(d.Outcome) + " " + d.Target
	}
	return string(d.Outcome)
}

// Gate decides render-vs-redirect for navigation paths
type Gate struct {
	// gatedPublic holds public path prefixes that still require a login
	gatedPublic []string
}

// NewGate creates a gate. Public paths starting with one of gatedPublic
// redirect unauthenticated visitors to the admin login.
func NewGate(gatedPublic ...string) *Gate {
	prefixes := make([]string, 0, len(gatedPublic))
	for _, p := range gatedPublic {
		p = strings.TrimSpace(p)
		if p == "" || p == HomePath {
			continue
		}
		prefixes = append(prefixes, p)
	}
	return &Gate{gatedPublic: prefixes}
}

// Evaluate is a convenience for a gate without gated public prefixes
func Evaluate(path string, session Session) Decision {
	return defaultGate.Evaluate(path, session)
}

var defaultGate = NewGate()

// Evaluate returns the decision for path under session
func (g *Gate) Evaluate(path string, session Session) Decision {
	if session.Status == StatusLoading {
		return Pending()
	}

	class := Classify(path)

	if session.Status != StatusAuthenticated {
		switch class {
		case ClassAdmin:
			return RedirectTo(AdminLoginPath)
		case ClassWorker:
			return RedirectTo(WorkerLoginPath)
		}
		if g.IsGatedPublic(path) {
			return RedirectTo(AdminLoginPath)
		}
		return Render()
	}

	// Authenticated without a role carries no restriction
	if session.Role == RoleNone {
		return Render()
	}

	switch {
	case class == ClassAdmin && session.Role != RoleAdmin:
		return RedirectTo(HomePath)
	case class == ClassWorker && session.Role != RoleStaff:
		return RedirectTo(HomePath)
	}
	return Render()
}

// IsGatedPublic reports whether path is a public path that requires a login
func (g *Gate) IsGatedPublic(path string) bool {
	if Classify(path) != ClassPublic {
		return false
	}
	for _, prefix := range g.gatedPublic {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Guards reports whether the gate has anything to decide for path. Public
// paths outside the gated prefixes always render once a session resolves.
func (g *Gate) Guards(path string) bool {
	return Classify(path) != ClassPublic || g.IsGatedPublic(path)
}

package access

import (
	"sync"
)

// NavigateFunc applies a redirect to the given target
type NavigateFunc func(target string)

// Ticket is a pending evaluation. Only the ticket of the newest evaluation
// may be committed.
type Ticket struct {
	generation uint64
	path       string
	session    Session
	Decision   Decision
}

// Navigator re-evaluates the gate whenever the path or session changes and
// applies redirects at most once per change. The newest evaluation wins.
type Navigator struct {
	gate     *Gate
	navigate NavigateFunc

	mu          sync.Mutex
	generation  uint64
	committed   bool
	lastPath    string
	lastSession Session
	lastResult  Decision
}

// NewNavigator creates a navigator applying redirects through navigate
func NewNavigator(gate *Gate, navigate NavigateFunc) *Navigator {
	if gate == nil {
		gate = defaultGate
	}
	return &Navigator{gate: gate, navigate: navigate}
}

// Begin evaluates path under session and returns a ticket for Commit. Calling
// Begin invalidates every ticket issued before it.
func (n *Navigator) Begin(path string, session Session) Ticket {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.generation++
	return Ticket{
		generation: n.generation,
		path:       path,
		session:    session,
		Decision:   n.gate.Evaluate(path, session),
	}
}

// Commit applies the ticket's decision. It returns false when a newer
// evaluation has been started since, in which case nothing is applied.
func (n *Navigator) Commit(t Ticket) bool {
	n.mu.Lock()
	if t.generation != n.generation {
		n.mu.Unlock()
		return false
	}

	unchanged := n.committed && n.lastPath == t.path && n.lastSession == t.session
	n.committed = true
	n.lastPath = t.path
	n.lastSession = t.session
	n.lastResult = t.Decision
	n.mu.Unlock()

	if unchanged {
		return true
	}
	if t.Decision.Outcome == OutcomeRedirect && t.Decision.Target != t.path && n.navigate != nil {
		n.navigate(t.Decision.Target)
	}
	return true
}

// Update evaluates and commits in one step
func (n *Navigator) Update(path string, session Session) Decision {
	t := n.Begin(path, session)
	n.Commit(t)
	return t.Decision
}

// Current returns the last committed decision
func (n *Navigator) Current() (Decision, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastResult, n.committed
}

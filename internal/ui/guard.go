package ui

import (
	"sync"

	"github.com/duskfall/gamedex/internal/auth"
)

// GateState is the guard's verdict for a protected view.
type GateState int

const (
	// GatePending means the session has not resolved yet. Protected
	// content must stay hidden behind a neutral placeholder.
	GatePending GateState = iota

	// GateGranted means a signed-in identity is present.
	GateGranted

	// GateDenied means the session resolved signed-out.
	GateDenied
)

func (s GateState) String() string {
	switch s {
	case GatePending:
		return "pending"
	case GateGranted:
		return "granted"
	case GateDenied:
		return "denied"
	default:
		return ""
	}
}

// Decision is the guard's instruction for the current frame.
type Decision struct {
	State GateState

	// Redirect is set on the first denied evaluation only; the caller
	// should switch to the sign-in view exactly once per denial.
	Redirect bool

	// ReturnTo carries the view to restore: the saved target when access
	// is granted, or the view being left when a redirect fires.
	ReturnTo string
}

// Guard gates protected views on the session state.
//
// An unresolved session always yields pending; it never causes a
// redirect, so a slow provider cannot bounce a signed-in user to the
// sign-in view. Once resolved, the verdict follows the session: denied
// triggers a single redirect recording where the user was headed, and a
// later grant hands that return path back.
type Guard struct {
	mu         sync.Mutex
	state      GateState
	redirected bool
	returnTo   string
}

// NewGuard creates a guard in the pending state.
func NewGuard() *Guard {
	return &Guard{}
}

// State returns the verdict from the most recent evaluation.
func (g *Guard) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Evaluate maps a session snapshot to a decision. current names the view
// the caller is on, recorded as the return path when a redirect fires.
func (g *Guard) Evaluate(snap auth.Snapshot, current string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !snap.Resolved {
		g.state = GatePending
		return Decision{State: GatePending}
	}

	if snap.SignedIn() {
		g.state = GateGranted
		g.redirected = false
		returnTo := g.returnTo
		g.returnTo = ""
		return Decision{State: GateGranted, ReturnTo: returnTo}
	}

	g.state = GateDenied
	if g.redirected {
		return Decision{State: GateDenied}
	}

	g.redirected = true
	g.returnTo = current
	return Decision{State: GateDenied, Redirect: true, ReturnTo: current}
}

// Package guard implements the status-aware route guard as a pure transition
// function from (auth state, path) to a named state and an optional redirect.
package guard

import (
	"sync"

	"github.com/lingua-labs/lingua-web/internal/domain/auth"
	"github.com/lingua-labs/lingua-web/internal/domain/routes"
)

// Name is a named guard state.
type Name string

const (
	StateResolving       Name = "resolving"
	StateUnauthenticated Name = "unauthenticated"
	StateNeedsOTP        Name = "needs-otp"
	StateNeedsOnboarding Name = "needs-onboarding"
	StateReady           Name = "ready"
)

// Input is everything the guard looks at.
type Input struct {
	State auth.State
	Path  string
}

// Decision is the outcome of one evaluation. Redirect is empty when the
// children should render normally.
type Decision struct {
	State    Name   `json:"state"`
	Redirect string `json:"redirect,omitempty"`
}

// ShouldRedirect reports whether the decision carries a redirect.
func (d Decision) ShouldRedirect() bool { return d.Redirect != "" }

// Evaluate applies the guard rules in order; the first matching rule wins.
//
//  1. unauthenticated outside the auth and OTP pages -> login entry point
//  2. INACTIVE outside the OTP page -> OTP verification with the user's email
//  3. ACTIVE without proficiency and not ADMIN -> adaptive test
//  4. otherwise ready
//
// A decision never redirects to the path it was evaluated on.
func Evaluate(in Input) Decision {
	st := in.State.Normalize()
	if st.IsLoading {
		return Decision{State: StateResolving}
	}

	if !st.IsAuthenticated {
		if routes.IsAuthOnly(in.Path) || routes.IsOTP(in.Path) {
			return Decision{State: StateUnauthenticated}
		}
		return redirect(StateUnauthenticated, routes.LoginURL(), in.Path)
	}

	u := st.User
	if u.Status == auth.StatusInactive {
		if routes.IsOTP(in.Path) {
			return Decision{State: StateNeedsOTP}
		}
		return redirect(StateNeedsOTP, routes.OTPURL(u.Email), in.Path)
	}

	if u.Status == auth.StatusActive && !u.HasProficiency() && !u.IsAdmin() {
		return redirect(StateNeedsOnboarding, routes.OnboardingURL, in.Path)
	}

	return Decision{State: StateReady}
}

func redirect(state Name, target, current string) Decision {
	if routes.PathOf(target) == current {
		return Decision{State: state}
	}
	return Decision{State: state, Redirect: target}
}

// Runner re-evaluates the guard whenever its inputs change, the way a
// layout effect would. It only emits a redirect on an input transition, so
// repeated observations of an unchanged input never produce another redirect.
// Nothing is decided before Mount.
// Concurrency: methods are safe for concurrent use.
type Runner struct {
	mu      sync.Mutex
	mounted bool
	seen    bool
	last    fingerprint
	current Decision
}

// NewRunner returns an unmounted runner.
func NewRunner() *Runner { return &Runner{} }

// Mount marks the host layout as mounted on the client.
func (r *Runner) Mount() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mounted = true
}

// Mounted reports whether Mount has been called.
func (r *Runner) Mounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted
}

// Observe evaluates in and returns the decision. The returned Redirect is set
// only when the inputs differ from the previous observation.
func (r *Runner) Observe(in Input) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.mounted {
		return Decision{State: StateResolving}
	}

	fp := fingerprintOf(in)
	if r.seen && fp == r.last {
		return Decision{State: r.current.State}
	}

	d := Evaluate(in)
	r.seen = true
	r.last = fp
	r.current = d
	return d
}

// Reset forgets the previous observation; the next Observe evaluates afresh.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = false
	r.last = fingerprint{}
	r.current = Decision{}
}

// fingerprint captures the parts of the input the rules depend on.
type fingerprint struct {
	path          string
	loading       bool
	authenticated bool
	userID        string
	email         string
	status        auth.Status
	proficient    bool
	admin         bool
}

func fingerprintOf(in Input) fingerprint {
	st := in.State.Normalize()
	fp := fingerprint{
		path:          in.Path,
		loading:       st.IsLoading,
		authenticated: st.IsAuthenticated,
	}
	if st.User != nil {
		fp.userID = st.User.ID
		fp.email = st.User.Email
		fp.status = st.User.Status
		fp.proficient = st.User.HasProficiency()
		fp.admin = st.User.IsAdmin()
	}
	return fp
}

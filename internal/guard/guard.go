// Package guard decides whether a session may view a page.
package guard

import (
	"net/url"
	"strings"
	"sync"

	"househunt/internal/model"
	"househunt/internal/session"
)

// Requirement describes who may view a page.
type Requirement struct {
	// Authenticated requires any logged-in session.
	Authenticated bool
	// Role, when set, requires a session of exactly that role. It implies
	// Authenticated.
	Role model.Role
}

// Public pages need no session.
var Public = Requirement{}

// LoggedIn pages need any session.
var LoggedIn = Requirement{Authenticated: true}

// RoleOnly returns the requirement of a page restricted to role.
func RoleOnly(role model.Role) Requirement {
	return Requirement{Authenticated: true, Role: role}
}

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Allow bool
	// Target is where to go instead when Allow is false.
	Target string
	// From is the originally requested location, kept for bounce-back.
	From string
}

// Evaluate applies the access policy. It has no side effects.
func Evaluate(snap session.Snapshot, req Requirement, requestedPath string) Decision {
	needsSession := req.Authenticated || req.Role != model.RoleUnknown
	if !needsSession {
		return Decision{Allow: true}
	}
	if !snap.Authenticated || snap.User == nil {
		return redirectToLogin(requestedPath)
	}
	if req.Role != model.RoleUnknown && snap.Role() != req.Role {
		return redirectToLogin(requestedPath)
	}
	return Decision{Allow: true}
}

func redirectToLogin(from string) Decision {
	target := session.PathLogin
	if SafeReturnPath(from) != "" {
		target += "?from=" + url.QueryEscape(from)
	}
	return Decision{Target: target, From: from}
}

// ReasonSessionExpired marks a login redirect caused by a session the API no
// longer accepts.
const ReasonSessionExpired = "expired"

// WithReason adds reason to a login redirect target.
func WithReason(target, reason string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("reason", reason)
	u.RawQuery = q.Encode()
	return u.String()
}

// SafeReturnPath returns from when it is a local absolute path that can be
// used as a post-login destination, and "" otherwise.
func SafeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return ""
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	if u.Path == session.PathLogin {
		return ""
	}
	return from
}

// Watcher keeps a decision current while a session changes.
type Watcher struct {
	req   Requirement
	path  string
	stop  func()
	mu    sync.RWMutex
	last  Decision
	count int
}

// Watch evaluates the requirement now and again after every change to store.
func Watch(store *session.Store, req Requirement, path string) *Watcher {
	w := &Watcher{req: req, path: path}
	w.last = Evaluate(store.Snapshot(), req, path)
	w.stop = store.Subscribe(func(snap session.Snapshot) {
		d := Evaluate(snap, req, path)
		w.mu.Lock()
		w.last = d
		w.count++
		w.mu.Unlock()
	})
	return w
}

// Decision returns the latest evaluation.
func (w *Watcher) Decision() Decision {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

// Changes returns how many session changes have been evaluated.
func (w *Watcher) Changes() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.count
}

// Stop detaches the watcher from the session.
func (w *Watcher) Stop() {
	if w.stop != nil {
		w.stop()
	}
}

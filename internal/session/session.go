// Package session owns the client-side authentication lifecycle: the
// in-memory session state, the operations that mutate it, and the route
// guard the TUI consults before showing protected views.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/tellerbank/teller/pkg/client"
	"github.com/tellerbank/teller/pkg/domain"
)

// ErrSuperseded is returned when a network call completed but the session
// changed while it was in flight (logout or invalidation). The result has
// been discarded; callers should treat it as a no-op.
var ErrSuperseded = errors.New("session changed while the request was in flight")

// ErrNotAuthenticated is returned by operations that require a signed-in
// session.
var ErrNotAuthenticated = errors.New("not signed in")

// CredentialStore is the durable token slot the controller shares with the
// HTTP adapter.
type CredentialStore interface {
	Token() (string, error)
	Set(token string) error
	Clear() error
}

// Snapshot is a point-in-time copy of session state. Safe to read without
// holding any lock.
type Snapshot struct {
	Identity      *domain.User
	Authenticated bool
	Ready         bool
	// TokenExpiry is parsed from the bearer token's claims without
	// verification. Display only; zero when unknown.
	TokenExpiry time.Time
}

// Controller owns the session. All state lives behind one mutex; the mutex
// is never held across a network call. Each mutating operation captures the
// epoch before calling out and discards its result if the epoch moved,
// which is what keeps a stale login from resurrecting a logged-out session.
type Controller struct {
	api   *client.Client
	creds CredentialStore

	mu            sync.Mutex
	identity      *domain.User
	authenticated bool
	ready         bool
	epoch         uint64
}

// New creates a Controller. Wire the client's unauthorized hook to
// Invalidate so a rejected credential resets the session without UI help.
func New(api *client.Client, creds CredentialStore) *Controller {
	return &Controller{api: api, creds: creds}
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{Authenticated: c.authenticated, Ready: c.ready}
	if c.identity != nil {
		u := *c.identity
		s.Identity = &u
	}
	if tok, err := c.creds.Token(); err == nil && tok != "" {
		s.TokenExpiry = tokenExpiry(tok)
	}
	return s
}

// Bootstrap reconciles a persisted credential with the backend. It runs once
// per process; repeat calls are no-ops. The session is not ready (and the
// guard answers wait) until it returns. The returned error is informational:
// whatever happens, the session ends up ready, either signed in or empty
// with the credential cleared.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	if c.ready {
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	tok, err := c.creds.Token()
	if err != nil || tok == "" {
		// An unreadable store counts as "no credential."
		c.mu.Lock()
		c.ready = true
		c.mu.Unlock()
		return nil
	}

	me, err := c.api.Me(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = true
	if err != nil {
		// On 401 the adapter already cleared the slot; clearing again is
		// harmless, and other failures must clear it too.
		_ = c.creds.Clear()
		return fmt.Errorf("session.Bootstrap: %w", err)
	}
	if c.epoch != epoch {
		return ErrSuperseded
	}
	c.identity = me
	c.authenticated = true
	return nil
}

// Login exchanges credentials for a bearer token. On success the token is
// stored first, then the identity is applied; a store failure leaves the
// session unchanged. On failure the backend's message is surfaced verbatim.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "email is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Reason: "password is required"}
	}

	epoch := c.currentEpoch()
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ErrSuperseded
	}
	if resp.Token == "" {
		return errors.New("login failed")
	}
	if err := c.creds.Set(resp.Token); err != nil {
		return fmt.Errorf("session.Login: %w", err)
	}
	u := resp.User
	c.identity = &u
	c.authenticated = true
	return nil
}

// RegisterForm carries the sign-up fields, including the confirmation that
// never leaves the client.
type RegisterForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	PhoneNumber     string
	Address         string
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	digitRe = regexp.MustCompile(`\D`)
)

// Register creates a new account. It never establishes a session: the
// backend issues no credential on registration and the user signs in
// separately afterwards.
func (c *Controller) Register(ctx context.Context, f RegisterForm) error {
	if err := f.validate(); err != nil {
		return err
	}
	return c.api.Register(ctx, client.RegisterRequest{
		FirstName:   strings.TrimSpace(f.FirstName),
		LastName:    strings.TrimSpace(f.LastName),
		Email:       strings.TrimSpace(f.Email),
		Password:    f.Password,
		PhoneNumber: f.PhoneNumber,
		Address:     f.Address,
	})
}

func (f RegisterForm) validate() error {
	if strings.TrimSpace(f.FirstName) == "" {
		return &ValidationError{Field: "firstName", Reason: "first name is required"}
	}
	if strings.TrimSpace(f.LastName) == "" {
		return &ValidationError{Field: "lastName", Reason: "last name is required"}
	}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "email is required"}
	}
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Reason: "enter a valid email address"}
	}
	if f.Password == "" {
		return &ValidationError{Field: "password", Reason: "password is required"}
	}
	if len(f.Password) < 8 {
		return &ValidationError{Field: "password", Reason: "password must be at least 8 characters"}
	}
	if f.Password != f.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Reason: "passwords do not match"}
	}
	if f.PhoneNumber != "" {
		if digits := digitRe.ReplaceAllString(f.PhoneNumber, ""); len(digits) != 10 {
			return &ValidationError{Field: "phoneNumber", Reason: "enter a valid 10-digit phone number"}
		}
	}
	return nil
}

// Logout clears the stored credential and resets the session. Local only:
// no backend call, and it always succeeds.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.creds.Clear()
	c.epoch++
	c.identity = nil
	c.authenticated = false
}

// Invalidate resets the session after the adapter saw a rejected
// credential. The adapter has already cleared the store. Idempotent: an
// already-empty session is left alone, so a burst of concurrent 401s resets
// exactly once.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil && !c.authenticated {
		return
	}
	c.epoch++
	c.identity = nil
	c.authenticated = false
}

// CreatePin registers a 4-digit transaction PIN. Requires a signed-in
// session; mutates neither credential nor identity.
func (c *Controller) CreatePin(ctx context.Context, pin, confirm string) error {
	if !c.Snapshot().Authenticated {
		return ErrNotAuthenticated
	}
	if len(pin) != 4 || digitRe.MatchString(pin) {
		return &ValidationError{Field: "pin", Reason: "PIN must be a 4-digit number"}
	}
	if pin != confirm {
		return &ValidationError{Field: "confirmPin", Reason: "PINs do not match"}
	}

	epoch := c.currentEpoch()
	if err := c.api.CreatePin(ctx, pin); err != nil {
		return err
	}
	if c.currentEpoch() != epoch {
		return ErrSuperseded
	}
	return nil
}

// UpdateProfile pushes edited profile fields to the backend and refreshes
// the identity without touching the credential.
func (c *Controller) UpdateProfile(ctx context.Context, req client.ProfileRequest) error {
	if !c.Snapshot().Authenticated {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return &ValidationError{Field: "name", Reason: "first and last name are required"}
	}
	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		return &ValidationError{Field: "email", Reason: "enter a valid email address"}
	}

	epoch := c.currentEpoch()
	updated, err := c.api.UpdateProfile(ctx, req)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ErrSuperseded
	}
	if c.identity != nil {
		u := *c.identity
		u.FirstName = updated.FirstName
		u.LastName = updated.LastName
		u.Email = updated.Email
		u.PhoneNumber = updated.PhoneNumber
		u.Address = updated.Address
		c.identity = &u
	}
	return nil
}

// ChangePassword validates and submits a password change. The session and
// credential are untouched on success; the backend keeps the token valid.
func (c *Controller) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if !c.Snapshot().Authenticated {
		return ErrNotAuthenticated
	}
	if current == "" {
		return &ValidationError{Field: "currentPassword", Reason: "current password is required"}
	}
	if len(next) < 8 {
		return &ValidationError{Field: "newPassword", Reason: "password must be at least 8 characters"}
	}
	if next != confirm {
		return &ValidationError{Field: "confirmPassword", Reason: "passwords do not match"}
	}
	return c.api.UpdatePassword(ctx, current, next)
}

func (c *Controller) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

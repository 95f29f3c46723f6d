// Package gate implements the access gate that hides library content behind
// a password.
//
// Lock state is always recomputed from three inputs: the local passwordAccess
// toggle, the last server-confirmed env password flag, and the session unlock
// marker:
//
//	locked = (passwordAccess OR envPasswordPresent) AND NOT sessionUnlocked
//
// The gate starts from local data so the UI can resolve immediately, then
// confirms against GET /api/config in the background. A failed confirmation
// keeps the provisional state; it never fails open.
package gate

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tel9980/KVideo/internal/services"
	"github.com/tel9980/KVideo/internal/session"
	"github.com/tel9980/KVideo/internal/shared"
	"github.com/tel9980/KVideo/internal/store"
)

// State is the gate lifecycle state.
type State int

const (
	// Uninitialized means the first local read has not happened yet; the UI
	// must render neither the gate nor the content.
	Uninitialized State = iota
	Checking
	Locked
	Unlocked
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Checking:
		return "checking"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Gate reconciles lock state between local settings, the session marker, and
// the server's authoritative config.
type Gate struct {
	store   store.SettingsStore
	session session.Session
	api     services.ConfigAPI
	logger  *log.Logger

	mu          sync.Mutex
	state       State
	envPassword bool // last server-confirmed hasEnvPassword

	nextListener int
	listeners    map[int]func(State)
	unsubscribe  func()
}

// New creates a gate in the Uninitialized state.
func New(st store.SettingsStore, sess session.Session, api services.ConfigAPI, logger *log.Logger) *Gate {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gate{
		store:     st,
		session:   sess,
		api:       api,
		logger:    logger,
		state:     Uninitialized,
		listeners: make(map[int]func(State)),
	}
}

// State returns the current lock state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Init performs the synchronous local check: read settings and the session
// marker, resolve a provisional Locked/Unlocked state, and start reacting to
// settings changes. It does not touch the network.
func (g *Gate) Init() State {
	g.mu.Lock()
	if g.state != Uninitialized {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.state = Checking
	g.mu.Unlock()

	g.recompute()
	g.unsubscribe = g.store.Subscribe(func(store.Change) { g.recompute() })

	return g.State()
}

// Start runs Init and then confirms against the server in the background.
// Cancelling ctx abandons the confirmation request.
func (g *Gate) Start(ctx context.Context) State {
	state := g.Init()

	go func() {
		if err := g.RefreshConfig(ctx); err != nil && ctx.Err() == nil {
			g.logger.Warn("config confirmation failed, keeping provisional state", "error", err)
		}
	}()

	return state
}

// RefreshConfig fetches the authoritative gate configuration. On success it
// records the confirmed env password flag, pushes any server-declared
// subscriptions into the store, and recomputes lock state. On failure the
// provisional state stands.
func (g *Gate) RefreshConfig(ctx context.Context) error {
	config, err := g.api.FetchConfig(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.envPassword = config.HasEnvPassword
	g.mu.Unlock()

	if len(config.SubscriptionSources) > 0 {
		if err := g.store.SyncEnvSubscriptions(config.SubscriptionSources); err != nil {
			g.logger.Warn("failed to adopt server subscriptions", "error", err)
		}
	}

	g.recompute()
	return nil
}

// Unlock checks a candidate password, local set first, then the server when
// an env password is known to exist. Any match marks the session unlocked.
// Network failure during server validation counts as no match.
func (g *Gate) Unlock(ctx context.Context, candidate string) error {
	g.mu.Lock()
	if g.state == Uninitialized {
		g.mu.Unlock()
		return shared.ErrNotInitialized
	}
	if g.state == Unlocked {
		g.mu.Unlock()
		return nil
	}
	envPassword := g.envPassword
	g.mu.Unlock()

	if g.store.Get().HasPassword(candidate) {
		return g.markUnlocked()
	}

	if !envPassword {
		return shared.ErrInvalidPassword
	}

	valid, err := g.api.ValidatePassword(ctx, candidate)
	if err != nil {
		g.logger.Warn("password validation request failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrInvalidPassword, err)
	}
	if !valid {
		return shared.ErrInvalidPassword
	}

	return g.markUnlocked()
}

// Lock clears the session marker and recomputes, re-locking when password
// protection is still in effect.
func (g *Gate) Lock() error {
	if err := g.session.Clear(); err != nil {
		return err
	}
	g.recompute()
	return nil
}

// Notify registers a state-change listener and returns an unregister func.
// Listeners fire only on actual transitions.
func (g *Gate) Notify(fn func(State)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextListener
	g.nextListener++
	g.listeners[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

// Close detaches the gate from the store.
func (g *Gate) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}

func (g *Gate) markUnlocked() error {
	if err := g.session.SetUnlocked(); err != nil {
		return fmt.Errorf("failed to persist session unlock: %w", err)
	}
	g.recompute()
	return nil
}

// recompute applies the lock invariant over current local data and the last
// server-confirmed env password flag, then notifies listeners on transition.
func (g *Gate) recompute() {
	settings := g.store.Get()
	unlockedSession := g.session.Unlocked()

	g.mu.Lock()
	if g.state == Uninitialized {
		g.mu.Unlock()
		return
	}

	locked := (settings.PasswordAccess || g.envPassword) && !unlockedSession

	next := Unlocked
	if locked {
		next = Locked
	}

	if next == g.state {
		g.mu.Unlock()
		return
	}
	g.state = next

	listeners := make([]func(State), 0, len(g.listeners))
	for _, fn := range g.listeners {
		listeners = append(listeners, fn)
	}
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

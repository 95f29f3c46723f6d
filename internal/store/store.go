package store

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/shared"
)

// Change describes one completed save.
type Change struct {
	Settings models.Settings
	Revision uint64
}

// SettingsStore is the contract both the access gate and the subscription
// syncer program against. The store is passed in explicitly; there is no
// package-level instance.
type SettingsStore interface {
	// Get returns a deep-copied snapshot of the current settings.
	Get() models.Settings

	// Save atomically replaces the settings document, persists it, and
	// notifies subscribers exactly once.
	Save(settings models.Settings) error

	// Subscribe registers a change callback and returns an unsubscribe func.
	Subscribe(fn func(Change)) (unsubscribe func())

	// Revision returns the monotonic version of the current document.
	Revision() uint64

	// SyncEnvSubscriptions appends server-declared subscriptions whose URLs
	// are not already present. A no-op when nothing is new.
	SyncEnvSubscriptions(subs []EnvSubscription) error
}

// EnvSubscription is a subscription feed declared by the server config.
type EnvSubscription struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// Store is the single SettingsStore implementation. With a nil database it
// is memory-only, which is what tests and ephemeral commands use.
type Store struct {
	mu       sync.Mutex
	db       *sql.DB
	settings models.Settings
	revision uint64

	nextSubscriber int
	subscribers    map[int]func(Change)

	logger *log.Logger
}

var _ SettingsStore = (*Store)(nil)

// NewMemoryStore creates a Store without persistence.
func NewMemoryStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		subscribers: make(map[int]func(Change)),
		logger:      logger,
	}
}

// Open creates a Store backed by the given database, loading the persisted
// settings document. Migrations must already have run.
func Open(db *sql.DB, logger *log.Logger) (*Store, error) {
	s := NewMemoryStore(logger)
	s.db = db

	settings, err := loadSettings(db)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	s.settings = settings

	return s, nil
}

// Get returns a deep-copied snapshot of the current settings.
func (s *Store) Get() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Revision returns the monotonic version of the current document.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Save atomically replaces the settings document. Subscribers are invoked
// after the write completes, outside the store lock.
func (s *Store) Save(settings models.Settings) error {
	snapshot := settings.Clone()

	s.mu.Lock()
	if s.db != nil {
		if err := persistSettings(s.db, snapshot); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to persist settings: %w", err)
		}
	}

	s.settings = snapshot
	s.revision++

	change := Change{Settings: snapshot.Clone(), Revision: s.revision}
	listeners := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}

	return nil
}

// Subscribe registers a change callback. The returned func removes it.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// SyncEnvSubscriptions merges server-declared subscription feeds into the
// local list. Existing URLs keep their local configuration untouched.
func (s *Store) SyncEnvSubscriptions(subs []EnvSubscription) error {
	settings := s.Get()

	added := 0
	for _, env := range subs {
		if env.URL == "" {
			continue
		}
		if _, ok := settings.SubscriptionByURL(env.URL); ok {
			continue
		}

		sub := models.Subscription{
			ID:          shared.GenerateID(),
			URL:         env.URL,
			Name:        env.Name,
			AutoRefresh: true,
		}
		if err := sub.Validate(); err != nil {
			s.logger.Warn("skipping invalid server subscription", "url", env.URL, "error", err)
			continue
		}

		settings.Subscriptions = append(settings.Subscriptions, sub)
		added++
	}

	if added == 0 {
		return nil
	}

	s.logger.Info("adopted server subscriptions", "count", added)
	return s.Save(settings)
}

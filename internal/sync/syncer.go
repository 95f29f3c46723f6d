// Package sync keeps local source lists up to date with subscription feeds.
//
// A [Syncer] watches the settings store for subscription-list changes,
// coalesces bursts of edits with a trailing debounce, then fetches each
// active feed sequentially and merges the results back into the store with a
// single save. Failed feeds are logged and skipped; they do not abort the
// batch or the save of sibling results.
package sync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/services"
	"github.com/tel9980/KVideo/internal/shared"
	"github.com/tel9980/KVideo/internal/store"
	"golang.org/x/time/rate"
)

// DefaultDebounce is the trailing delay between a settings change and the
// fetch round it triggers.
const DefaultDebounce = time.Second

// SubscriptionResult records the outcome of one feed fetch within a batch.
type SubscriptionResult struct {
	Subscription   models.Subscription
	Sources        int // normal sources returned by the feed
	PremiumSources int
	Err            error
}

// Result summarizes one sync batch.
type Result struct {
	Results []SubscriptionResult
	Skipped int  // subscriptions with autoRefresh disabled
	Saved   bool // whether the batch changed any source list
}

// Options tunes a Syncer. Zero values select the defaults.
type Options struct {
	Debounce  time.Duration
	RateLimit float64          // feed requests per second within a batch
	Now       func() time.Time // timestamp source, overridable in tests
}

// Syncer implements the subscription sync loop.
type Syncer struct {
	store   store.SettingsStore
	fetcher services.SourceFetcher
	logger  *log.Logger

	debounce time.Duration
	limiter  *rate.Limiter
	now      func() time.Time

	mu          gosync.Mutex
	timer       *time.Timer
	lastSig     string
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	// runMu serializes batches so a debounce firing cannot interleave with
	// an explicit SyncNow.
	runMu gosync.Mutex
}

// New creates a Syncer. Start must be called before the syncer reacts to
// store changes; SyncNow works immediately.
func New(st store.SettingsStore, fetcher services.SourceFetcher, logger *log.Logger, opts Options) *Syncer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Syncer{
		store:    st,
		fetcher:  fetcher,
		logger:   logger,
		debounce: opts.Debounce,
		limiter:  rate.NewLimiter(limit, 1),
		now:      opts.Now,
	}
}

// Start subscribes to the settings store and arms an initial sync round.
// The provided context bounds every fetch the syncer issues; cancelling it
// (or calling Stop) abandons in-flight work.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.lastSig = subscriptionSignature(s.store.Get().Subscriptions)
	s.mu.Unlock()

	s.unsubscribe = s.store.Subscribe(s.onChange)
	s.schedule()
}

// Stop cancels pending and in-flight work and detaches from the store.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	cancel := s.cancel
	s.cancel = nil
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
}

// onChange re-arms the debounce only when the subscription list itself
// changed. The signature excludes lastUpdated, so the save a batch performs
// never re-triggers a fetch round.
func (s *Syncer) onChange(change store.Change) {
	sig := subscriptionSignature(change.Settings.Subscriptions)

	s.mu.Lock()
	if s.cancel == nil || sig == s.lastSig {
		s.mu.Unlock()
		return
	}
	s.lastSig = sig
	s.mu.Unlock()

	s.schedule()
}

// schedule cancels any pending round and arms a fresh trailing-debounce timer.
func (s *Syncer) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}

	ctx := s.ctx
	s.timer = time.AfterFunc(s.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.SyncNow(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("subscription sync failed", "error", err)
		}
	})
}

// SyncNow runs one batch immediately: fetch every active subscription in
// order, merge the returned lists, and save once if anything changed.
func (s *Syncer) SyncNow(ctx context.Context) (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	settings := s.store.Get()
	sources := settings.Sources
	premium := settings.PremiumSources

	result := &Result{}
	changed := false

	for i, sub := range settings.Subscriptions {
		if !sub.AutoRefresh {
			result.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("%w: %v", shared.ErrSyncerStopped, err)
		}

		list, err := s.fetcher.FetchSources(ctx, sub)
		if err != nil {
			s.logger.Warn("subscription fetch failed", "subscription", sub.DisplayName(), "error", err)
			result.Results = append(result.Results, SubscriptionResult{Subscription: sub, Err: err})
			continue
		}

		var mergedNormal, mergedPremium bool
		sources, mergedNormal = MergeSources(sources, list.Sources)
		premium, mergedPremium = MergeSources(premium, list.PremiumSources)
		changed = changed || mergedNormal || mergedPremium

		settings.Subscriptions[i].LastUpdated = s.now()
		result.Results = append(result.Results, SubscriptionResult{
			Subscription:   settings.Subscriptions[i],
			Sources:        len(list.Sources),
			PremiumSources: len(list.PremiumSources),
		})
	}

	if !changed {
		// Nothing merged; skip the save so timestamp churn never loops the
		// store back into this syncer.
		return result, nil
	}

	settings.Sources = sources
	settings.PremiumSources = premium
	if err := s.store.Save(settings); err != nil {
		return result, fmt.Errorf("failed to save merged sources: %w", err)
	}

	result.Saved = true
	s.logger.Info("subscriptions synced",
		"fetched", len(result.Results), "skipped", result.Skipped,
		"sources", len(sources), "premium", len(premium))
	return result, nil
}

// subscriptionSignature fingerprints the subscription list by content,
// ignoring lastUpdated.
func subscriptionSignature(subs []models.Subscription) string {
	var b strings.Builder
	for _, sub := range subs {
		fmt.Fprintf(&b, "%s|%s|%s|%t\n", sub.ID, sub.URL, sub.Token, sub.AutoRefresh)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// SyncRun fetches every auto-refresh feed once and reports the outcome.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s := r.newSyncer(st)

	result, err := s.SyncNow(ctx)
	if err != nil {
		return err
	}

	for _, sub := range result.Results {
		if sub.Err != nil {
			r.writePlainln("✗ %s: %v", sub.Subscription.DisplayName(), sub.Err)
			continue
		}
		r.writePlainln("✓ %s: %d sources, %d premium", sub.Subscription.DisplayName(), sub.Sources, sub.PremiumSources)
	}

	if result.Skipped > 0 {
		r.writePlainln("Skipped %d manual feed(s)", result.Skipped)
	}
	if result.Saved {
		r.writePlainln("Library updated")
	} else {
		r.writePlainln("Library unchanged")
	}
	return nil
}

// SyncWatch keeps the syncer running, reacting to settings changes, until
// interrupted.
func (r *Runner) SyncWatch(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := r.newSyncer(st)
	s.Start(watchCtx)
	defer s.Stop()

	r.logger.Info("watching subscriptions", "debounce", r.config.Sync.Debounce())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		r.logger.Info("shutting down")
	case <-watchCtx.Done():
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/tel9980/KVideo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Status resolves the gate and prints its state alongside a library summary.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := r.newSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	g := r.newGate(st, sess)
	defer g.Close()

	g.Init()

	confirmed := false
	if !cmd.Bool("local") {
		if err := g.RefreshConfig(ctx); err != nil {
			r.logger.Warn("config server unreachable, state is provisional", "error", err)
		} else {
			confirmed = true
		}
	}

	settings := st.Get()

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"state":          g.State().String(),
			"confirmed":      confirmed,
			"passwordAccess": settings.PasswordAccess,
			"passwords":      len(settings.AccessPasswords),
			"subscriptions":  len(settings.Subscriptions),
			"sources":        len(settings.Sources),
			"premiumSources": len(settings.PremiumSources),
		}, true)
	}

	r.writePlainln("Gate: %s", g.State())
	if !confirmed {
		r.writePlainln("  (local only, config server not confirmed)")
	}
	r.writePlainln("Password access: %v (%d passwords)", settings.PasswordAccess, len(settings.AccessPasswords))
	r.writePlainln("Subscriptions: %d", len(settings.Subscriptions))
	r.writePlainln("Sources: %d regular, %d premium", len(settings.Sources), len(settings.PremiumSources))
	return nil
}

// Unlock validates a password and marks the session unlocked on success.
func (r *Runner) Unlock(ctx context.Context, cmd *cli.Command) error {
	password := cmd.StringArg("password")
	if password == "" {
		return fmt.Errorf("%w: password argument is required", shared.ErrMissingArgument)
	}

	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := r.newSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	g := r.newGate(st, sess)
	defer g.Close()

	g.Init()
	if err := g.RefreshConfig(ctx); err != nil {
		r.logger.Warn("config server unreachable, validating locally only", "error", err)
	}

	if err := g.Unlock(ctx, password); err != nil {
		return err
	}

	r.writePlainln("✓ Unlocked for this session")
	return nil
}

// Lock clears the session marker so protected libraries lock again.
func (r *Runner) Lock(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	sess, err := r.newSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	g := r.newGate(st, sess)
	defer g.Close()

	g.Init()
	if err := g.Lock(); err != nil {
		return fmt.Errorf("failed to lock: %w", err)
	}

	r.writePlainln("Gate: %s", g.State())
	return nil
}

// SessionClear removes the unlock marker without consulting settings.
func (r *Runner) SessionClear(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.newSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	if err := sess.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.writePlainln("Session cleared")
	return nil
}

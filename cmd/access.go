package main

import (
	"context"
	"fmt"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccessEnable turns password protection on.
func (r *Runner) AccessEnable(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()
	if len(settings.AccessPasswords) == 0 {
		r.logger.Warn("no access passwords configured, only a server password can unlock")
	}

	settings.PasswordAccess = true
	if err := st.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.writePlainln("Password access enabled")
	return nil
}

// AccessDisable turns password protection off.
func (r *Runner) AccessDisable(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()
	settings.PasswordAccess = false
	if err := st.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.writePlainln("Password access disabled")
	return nil
}

// AccessAdd stores a new access password as a SHA-256 digest.
func (r *Runner) AccessAdd(ctx context.Context, cmd *cli.Command) error {
	password := cmd.StringArg("password")
	if password == "" {
		return fmt.Errorf("%w: password argument is required", shared.ErrMissingArgument)
	}

	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()
	digest := models.HashPassword(password)
	for _, existing := range settings.AccessPasswords {
		if existing == digest {
			r.writePlainln("Password already configured")
			return nil
		}
	}

	settings.AccessPasswords = append(settings.AccessPasswords, digest)
	if err := st.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.writePlainln("✓ Password added (%d total)", len(settings.AccessPasswords))
	return nil
}

// AccessRemove deletes an access password.
func (r *Runner) AccessRemove(ctx context.Context, cmd *cli.Command) error {
	password := cmd.StringArg("password")
	if password == "" {
		return fmt.Errorf("%w: password argument is required", shared.ErrMissingArgument)
	}

	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()
	digest := models.HashPassword(password)

	kept := settings.AccessPasswords[:0]
	for _, existing := range settings.AccessPasswords {
		if existing != digest {
			kept = append(kept, existing)
		}
	}

	if len(kept) == len(settings.AccessPasswords) {
		return fmt.Errorf("%w: password not found", shared.ErrInvalidArgument)
	}

	settings.AccessPasswords = kept
	if err := st.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.writePlainln("✓ Password removed (%d remaining)", len(settings.AccessPasswords))
	return nil
}

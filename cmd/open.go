package main

import (
	"context"
	"fmt"

	"github.com/tel9980/KVideo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Open launches the hosted web player in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	webURL := r.config.Remote.WebURL
	if webURL == "" {
		return fmt.Errorf("%w: remote.web_url is not configured", shared.ErrMissingConfig)
	}

	r.logger.Info("opening web player", "url", webURL)
	if err := shared.OpenBrowser(webURL); err != nil {
		return err
	}

	r.writePlainln("✓ Opened %s", webURL)
	return nil
}

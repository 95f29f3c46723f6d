package main

import (
	"context"
	"fmt"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/shared"
	"github.com/urfave/cli/v3"
)

// SubsAdd registers a subscription feed, either from flags or from a browser
// cURL command carrying the feed's bearer token.
func (r *Runner) SubsAdd(ctx context.Context, cmd *cli.Command) error {
	feedURL := cmd.String("url")
	name := cmd.String("name")
	token := cmd.String("token")
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	if curlCmd != "" || curlFile != "" {
		var auth *shared.FeedAuth
		var err error
		if curlFile != "" {
			auth, err = shared.ParseCurlFile(curlFile)
		} else {
			auth, err = shared.ParseCurlCommand([]byte(curlCmd))
		}
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}

		feedURL = auth.URL
		if token == "" {
			token = auth.Token
		}
		r.logger.Info("parsed feed credentials from cURL", "url", feedURL, "token", token != "")
	}

	if feedURL == "" {
		return fmt.Errorf("%w: either --url or a cURL command must be provided", shared.ErrMissingArgument)
	}

	sub := models.Subscription{
		ID:          shared.GenerateID(),
		URL:         feedURL,
		Name:        name,
		AutoRefresh: !cmd.Bool("manual"),
		Token:       token,
	}
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()
	if _, exists := settings.SubscriptionByURL(sub.URL); exists {
		return fmt.Errorf("%w: subscription for %s already exists", shared.ErrInvalidArgument, sub.URL)
	}

	settings.Subscriptions = append(settings.Subscriptions, sub)
	if err := st.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.writePlainln("✓ Subscription added: %s", sub.DisplayName())
	r.writePlainln("  id: %s", sub.ID)
	return nil
}

// SubsList prints the configured subscription feeds.
func (r *Runner) SubsList(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()

	if cmd.Bool("json") {
		// Tokens stay local.
		subs := make([]models.Subscription, len(settings.Subscriptions))
		for i, sub := range settings.Subscriptions {
			sub.Token = ""
			subs[i] = sub
		}
		return r.writeJSON(subs, cmd.Bool("pretty"))
	}

	if len(settings.Subscriptions) == 0 {
		r.writePlainln("No subscriptions configured")
		return nil
	}

	for i, sub := range settings.Subscriptions {
		state := "auto"
		if !sub.AutoRefresh {
			state = "manual"
		}
		updated := "never"
		if !sub.LastUpdated.IsZero() {
			updated = sub.LastUpdated.Format("2006-01-02 15:04")
		}
		r.writePlainln("%d. %s [%s]", i+1, sub.DisplayName(), state)
		r.writePlainln("   %s", sub.URL)
		r.writePlainln("   id: %s  last updated: %s", sub.ID, updated)
	}
	return nil
}

// SubsRemove deletes a subscription by id or url.
func (r *Runner) SubsRemove(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("ref")
	if ref == "" {
		return fmt.Errorf("%w: subscription id or url is required", shared.ErrMissingArgument)
	}

	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()
	kept := make([]models.Subscription, 0, len(settings.Subscriptions))
	removed := 0
	for _, sub := range settings.Subscriptions {
		if sub.ID == ref || sub.URL == ref {
			removed++
			continue
		}
		kept = append(kept, sub)
	}

	if removed == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSubNotFound, ref)
	}

	settings.Subscriptions = kept
	if err := st.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	r.writePlainln("✓ Removed %d subscription(s)", removed)
	return nil
}

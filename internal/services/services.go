package services

import (
	"context"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/store"
)

// RemoteConfig is the gate configuration served by GET /api/config.
type RemoteConfig struct {
	HasEnvPassword      bool                    `json:"hasEnvPassword"`
	SubscriptionSources []store.EnvSubscription `json:"subscriptionSources,omitempty"`
}

// ConfigAPI is the aggregator's access-control surface.
type ConfigAPI interface {
	// FetchConfig retrieves the authoritative gate configuration.
	FetchConfig(ctx context.Context) (*RemoteConfig, error)

	// ValidatePassword submits a candidate password to the server.
	// Only an explicit affirmative response counts as valid.
	ValidatePassword(ctx context.Context, password string) (bool, error)
}

// SourceList is the payload of one subscription feed.
type SourceList struct {
	Sources        []models.Source `json:"sources"`
	PremiumSources []models.Source `json:"premiumSources"`
}

// SourceFetcher retrieves the source list behind a subscription.
type SourceFetcher interface {
	FetchSources(ctx context.Context, sub models.Subscription) (*SourceList, error)
}

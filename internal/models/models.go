package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Source represents a playable media provider entry.
//
// Sources are merged by identity: Key when set, API URL otherwise.
type Source struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	API    string `json:"api"`
	Detail string `json:"detail,omitempty"`
}

// Identity returns the merge key for this source.
func (s Source) Identity() string {
	if s.Key != "" {
		return s.Key
	}
	return s.API
}

// Validate checks that the source carries enough data to be merged and played.
func (s Source) Validate() error {
	if s.Identity() == "" {
		return fmt.Errorf("source has neither key nor api url")
	}
	if s.API == "" {
		return fmt.Errorf("source %q has no api url", s.Key)
	}
	return nil
}

// DisplayName returns the human-facing label for the source.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Identity()
}

// Subscription is a remote feed URL periodically polled for source lists.
type Subscription struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	AutoRefresh bool      `json:"autoRefresh"`
	LastUpdated time.Time `json:"lastUpdated,omitzero"`

	// Token is an optional bearer token for feeds that require authentication.
	Token string `json:"token,omitempty"`
}

// subscriptionJSON mirrors Subscription for decoding feeds and exports where
// autoRefresh defaults to true when absent.
type subscriptionJSON struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Name        string     `json:"name"`
	AutoRefresh *bool      `json:"autoRefresh"`
	LastUpdated *time.Time `json:"lastUpdated"`
	Token       string     `json:"token"`
}

// UnmarshalJSON decodes a subscription, treating a missing autoRefresh field
// as true. Only an explicit false disables refresh.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	var raw subscriptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.URL = raw.URL
	s.Name = raw.Name
	s.Token = raw.Token
	s.AutoRefresh = raw.AutoRefresh == nil || *raw.AutoRefresh
	if raw.LastUpdated != nil {
		s.LastUpdated = *raw.LastUpdated
	}
	return nil
}

// Validate checks required subscription fields.
func (s Subscription) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("subscription has no id")
	}
	if s.URL == "" {
		return fmt.Errorf("subscription %s has no url", s.ID)
	}
	if _, err := url.ParseRequestURI(s.URL); err != nil {
		return fmt.Errorf("subscription %s has invalid url: %w", s.ID, err)
	}
	return nil
}

// DisplayName returns the subscription name, falling back to the URL host.
func (s Subscription) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if u, err := url.Parse(s.URL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.URL
}

// Settings is the local settings document read and written by the access gate
// and the subscription syncer.
//
// AccessPasswords holds SHA-256 hex digests, never plaintext.
type Settings struct {
	PasswordAccess  bool           `json:"passwordAccess"`
	AccessPasswords []string       `json:"accessPasswords"`
	Subscriptions   []Subscription `json:"subscriptions"`
	Sources         []Source       `json:"sources"`
	PremiumSources  []Source       `json:"premiumSources"`
}

// Clone returns a deep copy so callers can mutate snapshots freely.
func (s Settings) Clone() Settings {
	out := s
	out.AccessPasswords = append([]string(nil), s.AccessPasswords...)
	out.Subscriptions = append([]Subscription(nil), s.Subscriptions...)
	out.Sources = append([]Source(nil), s.Sources...)
	out.PremiumSources = append([]Source(nil), s.PremiumSources...)
	return out
}

// HasPassword reports whether the candidate password matches an entry in the
// local password set.
func (s Settings) HasPassword(candidate string) bool {
	digest := HashPassword(candidate)
	for _, stored := range s.AccessPasswords {
		if strings.EqualFold(stored, digest) {
			return true
		}
	}
	return false
}

// SubscriptionByURL returns the subscription with the given URL, if present.
func (s Settings) SubscriptionByURL(feedURL string) (Subscription, bool) {
	for _, sub := range s.Subscriptions {
		if sub.URL == feedURL {
			return sub, true
		}
	}
	return Subscription{}, false
}

// HashPassword returns the SHA-256 hex digest used for at-rest password storage.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

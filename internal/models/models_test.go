package models

import (
	"encoding/json"
	"testing"
)

func TestSubscription(t *testing.T) {
	t.Run("UnmarshalJSON", func(t *testing.T) {
		t.Run("AutoRefresh Defaults True", func(t *testing.T) {
			var sub Subscription
			if err := json.Unmarshal([]byte(`{"id":"a","url":"https://feeds.example.com/a"}`), &sub); err != nil {
				t.Fatalf("failed to unmarshal subscription: %v", err)
			}
			if !sub.AutoRefresh {
				t.Error("autoRefresh should default to true when absent")
			}
		})

		t.Run("Explicit False Disables Refresh", func(t *testing.T) {
			var sub Subscription
			if err := json.Unmarshal([]byte(`{"id":"a","url":"https://feeds.example.com/a","autoRefresh":false}`), &sub); err != nil {
				t.Fatalf("failed to unmarshal subscription: %v", err)
			}
			if sub.AutoRefresh {
				t.Error("autoRefresh should be false when explicitly disabled")
			}
		})
	})

	t.Run("Validate", func(t *testing.T) {
		sub := Subscription{ID: "sub-1", URL: "https://feeds.example.com/list.json"}
		if err := sub.Validate(); err != nil {
			t.Errorf("expected valid subscription, got %v", err)
		}

		if err := (Subscription{URL: "https://feeds.example.com"}).Validate(); err == nil {
			t.Error("expected error for missing id")
		}
		if err := (Subscription{ID: "sub-1"}).Validate(); err == nil {
			t.Error("expected error for missing url")
		}
		if err := (Subscription{ID: "sub-1", URL: "::notaurl"}).Validate(); err == nil {
			t.Error("expected error for invalid url")
		}
	})

	t.Run("DisplayName", func(t *testing.T) {
		named := Subscription{Name: "Main Feed", URL: "https://feeds.example.com/a"}
		if named.DisplayName() != "Main Feed" {
			t.Errorf("expected explicit name, got %s", named.DisplayName())
		}

		unnamed := Subscription{URL: "https://feeds.example.com/a"}
		if unnamed.DisplayName() != "feeds.example.com" {
			t.Errorf("expected host fallback, got %s", unnamed.DisplayName())
		}
	})
}

func TestSource(t *testing.T) {
	t.Run("Identity Prefers Key", func(t *testing.T) {
		src := Source{Key: "alpha", API: "https://api.example.com/v1"}
		if src.Identity() != "alpha" {
			t.Errorf("expected key identity, got %s", src.Identity())
		}

		keyless := Source{API: "https://api.example.com/v1"}
		if keyless.Identity() != "https://api.example.com/v1" {
			t.Errorf("expected api fallback, got %s", keyless.Identity())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (Source{Key: "alpha", API: "https://api.example.com"}).Validate(); err != nil {
			t.Errorf("expected valid source, got %v", err)
		}
		if err := (Source{}).Validate(); err == nil {
			t.Error("expected error for empty source")
		}
		if err := (Source{Key: "alpha"}).Validate(); err == nil {
			t.Error("expected error for source without api url")
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("Clone Is Deep", func(t *testing.T) {
		original := Settings{
			PasswordAccess:  true,
			AccessPasswords: []string{HashPassword("secret")},
			Subscriptions:   []Subscription{{ID: "a", URL: "https://feeds.example.com/a", AutoRefresh: true}},
			Sources:         []Source{{Key: "alpha", API: "https://api.example.com"}},
		}

		clone := original.Clone()
		clone.AccessPasswords[0] = "overwritten"
		clone.Subscriptions[0].Name = "overwritten"
		clone.Sources[0].Name = "overwritten"

		if original.AccessPasswords[0] == "overwritten" {
			t.Error("clone shares password backing array")
		}
		if original.Subscriptions[0].Name == "overwritten" {
			t.Error("clone shares subscription backing array")
		}
		if original.Sources[0].Name == "overwritten" {
			t.Error("clone shares source backing array")
		}
	})

	t.Run("HasPassword", func(t *testing.T) {
		settings := Settings{AccessPasswords: []string{HashPassword("letmein")}}

		if !settings.HasPassword("letmein") {
			t.Error("expected stored password to match")
		}
		if settings.HasPassword("wrong") {
			t.Error("unexpected match for wrong password")
		}
		if (Settings{}).HasPassword("letmein") {
			t.Error("unexpected match against empty password set")
		}
	})
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tel9980/KVideo/internal/models"
)

func TestFeedClient(t *testing.T) {
	t.Run("Object Payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{
				"sources": [{"key":"alpha","name":"Alpha","api":"https://api.alpha.example.com"}],
				"premiumSources": [{"key":"gold","name":"Gold","api":"https://api.gold.example.com"}]
			}`))
		}))
		defer srv.Close()

		client := NewFeedClient(srv.Client())
		list, err := client.FetchSources(context.Background(), models.Subscription{ID: "s", URL: srv.URL})
		if err != nil {
			t.Fatalf("failed to fetch sources: %v", err)
		}

		if len(list.Sources) != 1 || list.Sources[0].Key != "alpha" {
			t.Errorf("unexpected sources: %+v", list.Sources)
		}
		if len(list.PremiumSources) != 1 || list.PremiumSources[0].Key != "gold" {
			t.Errorf("unexpected premium sources: %+v", list.PremiumSources)
		}
	})

	t.Run("Bare Array Payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"key":"alpha","api":"https://api.alpha.example.com"}]`))
		}))
		defer srv.Close()

		client := NewFeedClient(srv.Client())
		list, err := client.FetchSources(context.Background(), models.Subscription{ID: "s", URL: srv.URL})
		if err != nil {
			t.Fatalf("failed to fetch sources: %v", err)
		}
		if len(list.Sources) != 1 || len(list.PremiumSources) != 0 {
			t.Errorf("unexpected lists: %+v", list)
		}
	})

	t.Run("Bearer Token Sent", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte(`[{"key":"alpha","api":"https://api.alpha.example.com"}]`))
		}))
		defer srv.Close()

		client := NewFeedClient(srv.Client())
		_, err := client.FetchSources(context.Background(), models.Subscription{ID: "s", URL: srv.URL, Token: "tok-1"})
		if err != nil {
			t.Fatalf("failed to fetch sources: %v", err)
		}
		if got != "Bearer tok-1" {
			t.Errorf("expected bearer token header, got %q", got)
		}
	})

	t.Run("Invalid Entries Dropped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sources":[{"key":"alpha","api":"https://api.alpha.example.com"},{"name":"no api"}]}`))
		}))
		defer srv.Close()

		client := NewFeedClient(srv.Client())
		list, err := client.FetchSources(context.Background(), models.Subscription{ID: "s", URL: srv.URL})
		if err != nil {
			t.Fatalf("failed to fetch sources: %v", err)
		}
		if len(list.Sources) != 1 {
			t.Errorf("expected invalid entry to be dropped, got %+v", list.Sources)
		}
	})

	t.Run("Non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not here", http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewFeedClient(srv.Client())
		if _, err := client.FetchSources(context.Background(), models.Subscription{ID: "s", URL: srv.URL}); err == nil {
			t.Error("expected error for 404 feed")
		}
	})

	t.Run("Garbage Payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>login required</html>`))
		}))
		defer srv.Close()

		client := NewFeedClient(srv.Client())
		if _, err := client.FetchSources(context.Background(), models.Subscription{ID: "s", URL: srv.URL}); err == nil {
			t.Error("expected error for non-JSON feed")
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewFeedClient(srv.Client())
		if _, err := client.FetchSources(ctx, models.Subscription{ID: "s", URL: srv.URL}); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/shared"
	tu "github.com/tel9980/KVideo/internal/testing"
)

// testRunner builds a runner against a throwaway database, session dir and
// output buffer.
func testRunner(t *testing.T, api *tu.MockConfigAPI, fetcher *tu.MockFetcher) (*Runner, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(dir, "test.db")
	config.Session.Dir = filepath.Join(dir, "session")

	output := &bytes.Buffer{}
	opts := RunnerOpts{
		Config: config,
		Output: output,
	}
	if api != nil {
		opts.ConfigAPI = api
	}
	if fetcher != nil {
		opts.Fetcher = fetcher
	}

	return NewRunner(opts), output
}

// run executes a CLI invocation against the runner's command tree.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "kvideo", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"kvideo"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			api := &tu.MockConfigAPI{}
			fetcher := &tu.MockFetcher{}

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				ConfigAPI: api,
				Fetcher:   fetcher,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configAPI != api {
				t.Error("expected configAPI to be set")
			}
			if runner.fetcher != fetcher {
				t.Error("expected fetcher to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.configAPI == nil {
				t.Error("expected default config client")
			}
			if runner.fetcher == nil {
				t.Error("expected default feed client")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(&bytes.Buffer{}, 1)})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})
}

func TestAccessCommands(t *testing.T) {
	runner, output := testRunner(t, nil, nil)

	if err := run(t, runner, "access", "add", "hunter2"); err != nil {
		t.Fatalf("access add failed: %v", err)
	}
	if !strings.Contains(output.String(), "Password added (1 total)") {
		t.Errorf("unexpected output: %s", output.String())
	}

	t.Run("Duplicate Is A No-Op", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "access", "add", "hunter2"); err != nil {
			t.Fatalf("duplicate add failed: %v", err)
		}
		if !strings.Contains(output.String(), "already configured") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("Stored Hashed", func(t *testing.T) {
		st, db, err := runner.openStore()
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer db.Close()

		settings := st.Get()
		if len(settings.AccessPasswords) != 1 {
			t.Fatalf("expected 1 password, got %d", len(settings.AccessPasswords))
		}
		if settings.AccessPasswords[0] == "hunter2" {
			t.Error("passwords must not be stored in plaintext")
		}
		if !settings.HasPassword("hunter2") {
			t.Error("stored digest should match the original password")
		}
	})

	t.Run("Enable And Remove", func(t *testing.T) {
		if err := run(t, runner, "access", "enable"); err != nil {
			t.Fatalf("access enable failed: %v", err)
		}
		if err := run(t, runner, "access", "remove", "hunter2"); err != nil {
			t.Fatalf("access remove failed: %v", err)
		}

		err := run(t, runner, "access", "remove", "hunter2")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument for missing password, got %v", err)
		}
	})
}

func TestSubsCommands(t *testing.T) {
	runner, output := testRunner(t, nil, nil)

	if err := run(t, runner, "subs", "add", "--url", "https://feeds.example.com/main", "--name", "Main"); err != nil {
		t.Fatalf("subs add failed: %v", err)
	}

	t.Run("Rejects Duplicate URL", func(t *testing.T) {
		err := run(t, runner, "subs", "add", "--url", "https://feeds.example.com/main")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected duplicate rejection, got %v", err)
		}
	})

	t.Run("Adds From Curl Command", func(t *testing.T) {
		curl := `curl 'https://feeds.example.com/premium' -H 'Authorization: Bearer feed-token'`
		if err := run(t, runner, "subs", "add", "--curl", curl); err != nil {
			t.Fatalf("subs add --curl failed: %v", err)
		}

		st, db, err := runner.openStore()
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer db.Close()

		sub, ok := st.Get().SubscriptionByURL("https://feeds.example.com/premium")
		if !ok {
			t.Fatal("expected curl subscription to be stored")
		}
		if sub.Token != "feed-token" {
			t.Errorf("expected bearer token from curl, got %q", sub.Token)
		}
	})

	t.Run("List Hides Tokens", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "subs", "list", "--json"); err != nil {
			t.Fatalf("subs list failed: %v", err)
		}
		if strings.Contains(output.String(), "feed-token") {
			t.Error("list output must not contain tokens")
		}
		if !strings.Contains(output.String(), "https://feeds.example.com/main") {
			t.Errorf("list missing subscription: %s", output.String())
		}
	})

	t.Run("Remove By URL", func(t *testing.T) {
		if err := run(t, runner, "subs", "remove", "https://feeds.example.com/premium"); err != nil {
			t.Fatalf("subs remove failed: %v", err)
		}

		err := run(t, runner, "subs", "remove", "https://feeds.example.com/premium")
		if !errors.Is(err, shared.ErrSubNotFound) {
			t.Errorf("expected not-found error, got %v", err)
		}
	})
}

func TestGateCommands(t *testing.T) {
	t.Run("Unlock With Local Password", func(t *testing.T) {
		api := &tu.MockConfigAPI{}
		runner, output := testRunner(t, api, nil)

		if err := run(t, runner, "access", "add", "hunter2"); err != nil {
			t.Fatalf("access add failed: %v", err)
		}
		if err := run(t, runner, "access", "enable"); err != nil {
			t.Fatalf("access enable failed: %v", err)
		}

		output.Reset()
		if err := run(t, runner, "unlock", "hunter2"); err != nil {
			t.Fatalf("unlock failed: %v", err)
		}
		if !strings.Contains(output.String(), "Unlocked for this session") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if api.ValidateCalls != 0 {
			t.Error("local unlock must not call the server")
		}

		output.Reset()
		if err := run(t, runner, "status", "--local"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Gate: unlocked") {
			t.Errorf("expected unlocked status, got: %s", output.String())
		}
	})

	t.Run("Wrong Password Fails", func(t *testing.T) {
		runner, _ := testRunner(t, &tu.MockConfigAPI{}, nil)

		if err := run(t, runner, "access", "add", "hunter2"); err != nil {
			t.Fatalf("access add failed: %v", err)
		}
		if err := run(t, runner, "access", "enable"); err != nil {
			t.Fatalf("access enable failed: %v", err)
		}

		err := run(t, runner, "unlock", "wrong")
		if !errors.Is(err, shared.ErrInvalidPassword) {
			t.Errorf("expected invalid password, got %v", err)
		}
	})

	t.Run("Lock After Unlock", func(t *testing.T) {
		runner, output := testRunner(t, &tu.MockConfigAPI{}, nil)

		if err := run(t, runner, "access", "add", "hunter2"); err != nil {
			t.Fatalf("access add failed: %v", err)
		}
		if err := run(t, runner, "access", "enable"); err != nil {
			t.Fatalf("access enable failed: %v", err)
		}
		if err := run(t, runner, "unlock", "hunter2"); err != nil {
			t.Fatalf("unlock failed: %v", err)
		}

		output.Reset()
		if err := run(t, runner, "lock"); err != nil {
			t.Fatalf("lock failed: %v", err)
		}
		if !strings.Contains(output.String(), "Gate: locked") {
			t.Errorf("expected locked after lock, got: %s", output.String())
		}
	})

	t.Run("Session Clear", func(t *testing.T) {
		runner, output := testRunner(t, &tu.MockConfigAPI{}, nil)

		if err := run(t, runner, "session", "clear"); err != nil {
			t.Fatalf("session clear failed: %v", err)
		}
		if !strings.Contains(output.String(), "Session cleared") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})
}

func TestSyncCommand(t *testing.T) {
	fetcher := &tu.MockFetcher{
		Sources: []models.Source{{Key: "alpha", Name: "Alpha", API: "https://api.alpha.example.com"}},
		Premium: []models.Source{{Key: "gold", API: "https://api.gold.example.com"}},
	}
	runner, output := testRunner(t, nil, fetcher)

	if err := run(t, runner, "subs", "add", "--url", "https://feeds.example.com/main", "--name", "Main"); err != nil {
		t.Fatalf("subs add failed: %v", err)
	}

	output.Reset()
	if err := run(t, runner, "sync", "run"); err != nil {
		t.Fatalf("sync run failed: %v", err)
	}

	if fetcher.Calls != 1 {
		t.Errorf("expected one feed fetch, got %d", fetcher.Calls)
	}
	if !strings.Contains(output.String(), "1 sources, 1 premium") {
		t.Errorf("unexpected sync output: %s", output.String())
	}
	if !strings.Contains(output.String(), "Library updated") {
		t.Errorf("expected library update, got: %s", output.String())
	}

	t.Run("Second Run Is Idempotent", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "sync", "run"); err != nil {
			t.Fatalf("sync run failed: %v", err)
		}
		if !strings.Contains(output.String(), "Library unchanged") {
			t.Errorf("expected unchanged library, got: %s", output.String())
		}
	})
}

func TestSourcesCommands(t *testing.T) {
	fetcher := &tu.MockFetcher{
		Sources: []models.Source{{Key: "alpha", Name: "Alpha", API: "https://api.alpha.example.com"}},
	}
	runner, output := testRunner(t, nil, fetcher)

	if err := run(t, runner, "subs", "add", "--url", "https://feeds.example.com/main"); err != nil {
		t.Fatalf("subs add failed: %v", err)
	}
	if err := run(t, runner, "sync", "run"); err != nil {
		t.Fatalf("sync run failed: %v", err)
	}

	t.Run("List", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "sources", "list"); err != nil {
			t.Fatalf("sources list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Alpha") {
			t.Errorf("expected synced source in listing, got: %s", output.String())
		}
	})

	t.Run("Export", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")
		if err := run(t, runner, "sources", "export", "--output", base); err != nil {
			t.Fatalf("sources export failed: %v", err)
		}
		if _, err := os.Stat(base + "_sources.csv"); err != nil {
			t.Errorf("expected sources CSV: %v", err)
		}
		if _, err := os.Stat(base + "_library.json"); err != nil {
			t.Errorf("expected library JSON: %v", err)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	runner, _ := testRunner(t, nil, nil)

	if err := run(t, runner, "setup", "--config", configPath); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := os.Stat(configPath); err != nil {
		t.Errorf("expected config file created: %v", err)
	}

	// The template's database path is relative, so setup creates it where
	// the test runs. Point at it through the loaded config instead.
	config, err := shared.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load created config: %v", err)
	}
	if _, err := os.Stat(config.Database.Path); err != nil {
		t.Errorf("expected database created at %s: %v", config.Database.Path, err)
	}
	os.Remove(config.Database.Path)
}

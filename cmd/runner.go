package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tel9980/KVideo/internal/gate"
	"github.com/tel9980/KVideo/internal/services"
	"github.com/tel9980/KVideo/internal/session"
	"github.com/tel9980/KVideo/internal/shared"
	"github.com/tel9980/KVideo/internal/store"
	"github.com/tel9980/KVideo/internal/sync"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	configAPI services.ConfigAPI
	fetcher   services.SourceFetcher
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	ConfigAPI services.ConfigAPI
	Fetcher   services.SourceFetcher
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ConfigAPI == nil {
		opts.ConfigAPI = services.NewConfigClient(opts.Config.Remote.BaseURL, nil)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = services.NewFeedClient(nil)
	}

	return &Runner{
		config:    opts.Config,
		configAPI: opts.ConfigAPI,
		fetcher:   opts.Fetcher,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, statusCommand, unlockCommand, lockCommand, sessionCommand,
		accessCommand, subsCommand, syncCommand, sourcesCommand, serveCommand,
		openCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openStore opens the settings database and loads the settings document.
// Migrations run on every open; they are cheap no-ops once applied.
func (r *Runner) openStore() (*store.Store, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	st, err := store.Open(db, r.logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return st, db, nil
}

func (r *Runner) newSession() (session.Session, error) {
	return session.NewFileSession(r.config.Session.Dir)
}

func (r *Runner) newGate(st store.SettingsStore, sess session.Session) *gate.Gate {
	return gate.New(st, sess, r.configAPI, r.logger)
}

func (r *Runner) newSyncer(st store.SettingsStore) *sync.Syncer {
	return sync.New(st, r.fetcher, r.logger, sync.Options{
		Debounce:  r.config.Sync.Debounce(),
		RateLimit: r.config.Sync.RateLimit,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/tel9980/KVideo/internal/formatter"
	"github.com/urfave/cli/v3"
)

// SourcesList prints the merged library.
func (r *Runner) SourcesList(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	settings := st.Get()

	if cmd.Bool("json") {
		data, err := formatter.ToLibraryJSON(settings)
		if err != nil {
			return fmt.Errorf("failed to render library: %w", err)
		}
		return r.writePlainln("%s", data)
	}

	return r.writePlain("%s", formatter.ToText(settings))
}

// SourcesExport writes the library to CSV and JSON files.
func (r *Runner) SourcesExport(ctx context.Context, cmd *cli.Command) error {
	st, db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := formatter.WriteExport(st.Get(), cmd.String("output"))
	if err != nil {
		return err
	}

	r.writePlainln("✓ Library exported")
	r.writePlainln("  sources:       %s", result.SourcesFile)
	r.writePlainln("  subscriptions: %s", result.SubscriptionsFile)
	r.writePlainln("  library:       %s", result.LibraryFile)
	return nil
}

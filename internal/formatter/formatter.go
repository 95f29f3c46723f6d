// package formatter provides functions to export the library and subscription list to various formats (CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/shared"
)

// libraryExport is the JSON shape written by ToLibraryJSON. Passwords and
// feed tokens never appear in exports.
type libraryExport struct {
	Sources        []models.Source       `json:"sources"`
	PremiumSources []models.Source       `json:"premiumSources,omitempty"`
	Subscriptions  []models.Subscription `json:"subscriptions,omitempty"`
}

// SourcesToCSV converts the merged library to CSV with columns: Key, Name, API, Detail, Premium.
func SourcesToCSV(settings models.Settings) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Key", "Name", "API", "Detail", "Premium"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	write := func(s models.Source, premium bool) error {
		return writer.Write([]string{
			s.Key,
			s.Name,
			s.API,
			s.Detail,
			strconv.FormatBool(premium),
		})
	}

	for _, s := range settings.Sources {
		if err := write(s, false); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for _, s := range settings.PremiumSources {
		if err := write(s, true); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SubscriptionsToCSV converts the subscription list to CSV with columns: ID, Name, URL, AutoRefresh, LastUpdated.
//
// Bearer tokens are deliberately omitted.
func SubscriptionsToCSV(subs []models.Subscription) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "URL", "AutoRefresh", "LastUpdated"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, sub := range subs {
		updated := ""
		if !sub.LastUpdated.IsZero() {
			updated = sub.LastUpdated.Format(time.RFC3339)
		}
		record := []string{
			sub.ID,
			sub.Name,
			sub.URL,
			strconv.FormatBool(sub.AutoRefresh),
			updated,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToLibraryJSON generates a JSON export of the library with secrets stripped.
func ToLibraryJSON(settings models.Settings) ([]byte, error) {
	export := libraryExport{
		Sources:        settings.Sources,
		PremiumSources: settings.PremiumSources,
		Subscriptions:  make([]models.Subscription, len(settings.Subscriptions)),
	}

	for i, sub := range settings.Subscriptions {
		sub.Token = ""
		export.Subscriptions[i] = sub
	}

	return shared.MarshalJSON(export, true)
}

// ToText converts the library to a plain text listing.
func ToText(settings models.Settings) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sources: %d\n", len(settings.Sources)+len(settings.PremiumSources)))
	for i, s := range settings.Sources {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, s.DisplayName(), s.API))
	}
	for i, s := range settings.PremiumSources {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) [premium]\n", len(settings.Sources)+i+1, s.DisplayName(), s.API))
	}

	if len(settings.Subscriptions) > 0 {
		buf.WriteString(fmt.Sprintf("\nSubscriptions: %d\n", len(settings.Subscriptions)))
		for i, sub := range settings.Subscriptions {
			state := "auto"
			if !sub.AutoRefresh {
				state = "manual"
			}
			buf.WriteString(fmt.Sprintf("%d. %s (%s) [%s]\n", i+1, sub.DisplayName(), sub.URL, state))
		}
	}

	return buf.Bytes()
}

// ExportResult contains the paths of files created by WriteExport.
type ExportResult struct {
	SourcesFile       string
	SubscriptionsFile string
	LibraryFile       string
}

// WriteExport writes the library to disk as CSV files plus a JSON document.
//
// Defaults to "kvideo" as the base filename & creates {base}_sources.csv,
// {base}_subscriptions.csv and {base}_library.json.
func WriteExport(settings models.Settings, baseFilepath string) (*ExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "kvideo"
	}

	sourcesCSV, err := SourcesToCSV(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sources CSV: %w", err)
	}

	sourcesFile := baseFilepath + "_sources.csv"
	if err := os.WriteFile(sourcesFile, sourcesCSV, 0644); err != nil {
		return nil, fmt.Errorf("failed to write sources file: %w", err)
	}

	subsCSV, err := SubscriptionsToCSV(settings.Subscriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscriptions CSV: %w", err)
	}

	subsFile := baseFilepath + "_subscriptions.csv"
	if err := os.WriteFile(subsFile, subsCSV, 0644); err != nil {
		return nil, fmt.Errorf("failed to write subscriptions file: %w", err)
	}

	libraryJSON, err := ToLibraryJSON(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to generate library JSON: %w", err)
	}

	libraryFile := baseFilepath + "_library.json"
	if err := os.WriteFile(libraryFile, libraryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write library file: %w", err)
	}

	return &ExportResult{
		SourcesFile:       sourcesFile,
		SubscriptionsFile: subsFile,
		LibraryFile:       libraryFile,
	}, nil
}

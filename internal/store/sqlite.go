package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tel9980/KVideo/internal/models"
)

const (
	keyPasswordAccess  = "password_access"
	keyAccessPasswords = "access_passwords"
)

// loadSettings reads the persisted settings document.
func loadSettings(db *sql.DB) (models.Settings, error) {
	var settings models.Settings

	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		return settings, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return settings, fmt.Errorf("failed to scan setting: %w", err)
		}

		switch key {
		case keyPasswordAccess:
			settings.PasswordAccess = value == "true"
		case keyAccessPasswords:
			if err := json.Unmarshal([]byte(value), &settings.AccessPasswords); err != nil {
				return settings, fmt.Errorf("failed to decode access passwords: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("settings iteration error: %w", err)
	}

	if settings.Subscriptions, err = loadSubscriptions(db); err != nil {
		return settings, err
	}
	if settings.Sources, err = loadSources(db, false); err != nil {
		return settings, err
	}
	if settings.PremiumSources, err = loadSources(db, true); err != nil {
		return settings, err
	}

	return settings, nil
}

func loadSubscriptions(db *sql.DB) ([]models.Subscription, error) {
	rows, err := db.Query(`
		SELECT id, url, name, token, auto_refresh, last_updated
		FROM subscriptions
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var (
			sub         models.Subscription
			autoRefresh int
			lastUpdated sql.NullTime
		)
		if err := rows.Scan(&sub.ID, &sub.URL, &sub.Name, &sub.Token, &autoRefresh, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.AutoRefresh = autoRefresh != 0
		if lastUpdated.Valid {
			sub.LastUpdated = lastUpdated.Time
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func loadSources(db *sql.DB, premium bool) ([]models.Source, error) {
	rows, err := db.Query(`
		SELECT key, name, api, detail
		FROM sources
		WHERE premium = ?
		ORDER BY position ASC
	`, boolToInt(premium))
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		var src models.Source
		if err := rows.Scan(&src.Key, &src.Name, &src.API, &src.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// persistSettings rewrites the whole document in one transaction so a save is
// observed either entirely or not at all.
func persistSettings(db *sql.DB, settings models.Settings) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	passwords, err := json.Marshal(settings.AccessPasswords)
	if err != nil {
		return fmt.Errorf("failed to encode access passwords: %w", err)
	}

	kv := map[string]string{
		keyPasswordAccess:  fmt.Sprintf("%t", settings.PasswordAccess),
		keyAccessPasswords: string(passwords),
	}
	for key, value := range kv {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value); err != nil {
			return fmt.Errorf("failed to upsert setting %s: %w", key, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM subscriptions"); err != nil {
		return fmt.Errorf("failed to clear subscriptions: %w", err)
	}
	for i, sub := range settings.Subscriptions {
		var lastUpdated any
		if !sub.LastUpdated.IsZero() {
			lastUpdated = sub.LastUpdated
		}
		if _, err := tx.Exec(`
			INSERT INTO subscriptions (id, url, name, token, auto_refresh, last_updated, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, sub.ID, sub.URL, sub.Name, sub.Token, boolToInt(sub.AutoRefresh), lastUpdated, i); err != nil {
			return fmt.Errorf("failed to insert subscription %s: %w", sub.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM sources"); err != nil {
		return fmt.Errorf("failed to clear sources: %w", err)
	}
	if err := insertSources(tx, settings.Sources, false); err != nil {
		return err
	}
	if err := insertSources(tx, settings.PremiumSources, true); err != nil {
		return err
	}

	return tx.Commit()
}

func insertSources(tx *sql.Tx, sources []models.Source, premium bool) error {
	for i, src := range sources {
		if _, err := tx.Exec(`
			INSERT INTO sources (identity, key, name, api, detail, premium, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, src.Identity(), src.Key, src.Name, src.API, src.Detail, boolToInt(premium), i); err != nil {
			return fmt.Errorf("failed to insert source %s: %w", src.Identity(), err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Package session tracks the per-session unlock marker.
//
// A session is unlocked once a password attempt succeeds and stays unlocked
// until the marker is cleared. [FileSession] keeps the marker in a
// kvideo-unlocked file mirroring the browser client's session storage key;
// [MemorySession] lasts for one process.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnlockedKey is the marker name shared with the browser client.
const UnlockedKey = "kvideo-unlocked"

// unlockedValue is the only content that counts as unlocked; anything else
// (including a missing marker) is locked.
const unlockedValue = "true"

// Session reads and writes the unlock flag.
type Session interface {
	Unlocked() bool
	SetUnlocked() error
	Clear() error
}

// MemorySession is a process-lifetime Session.
type MemorySession struct {
	unlocked bool
}

// NewMemorySession creates a locked in-memory session.
func NewMemorySession() *MemorySession { return &MemorySession{} }

func (m *MemorySession) Unlocked() bool     { return m.unlocked }
func (m *MemorySession) SetUnlocked() error { m.unlocked = true; return nil }
func (m *MemorySession) Clear() error       { m.unlocked = false; return nil }

// FileSession stores the unlock marker on disk.
type FileSession struct {
	path string
}

// NewFileSession creates a FileSession under dir, falling back to a kvideo
// directory inside the user cache directory when dir is empty.
func NewFileSession(dir string) (*FileSession, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		dir = filepath.Join(cache, "kvideo")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileSession{path: filepath.Join(dir, UnlockedKey)}, nil
}

// Unlocked reports whether the marker holds exactly "true".
func (f *FileSession) Unlocked() bool {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(content)) == unlockedValue
}

// SetUnlocked writes the marker.
func (f *FileSession) SetUnlocked() error {
	if err := os.WriteFile(f.path, []byte(unlockedValue), 0600); err != nil {
		return fmt.Errorf("failed to write session marker: %w", err)
	}
	return nil
}

// Clear removes the marker, ending the unlocked session.
func (f *FileSession) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session marker: %w", err)
	}
	return nil
}

package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Access control errors
	ErrInvalidPassword = fmt.Errorf("invalid password")
	ErrGateLocked      = fmt.Errorf("content is locked")
	ErrNotInitialized  = fmt.Errorf("gate not initialized")

	// Sync and feed errors
	ErrFeedRequest     = fmt.Errorf("feed request failed")
	ErrInvalidFeed     = fmt.Errorf("invalid feed payload")
	ErrConfigRequest   = fmt.Errorf("config request failed")
	ErrSubNotFound     = fmt.Errorf("subscription not found")
	ErrSyncerStopped   = fmt.Errorf("syncer stopped")
	ErrStoreUnavailable = fmt.Errorf("settings store unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

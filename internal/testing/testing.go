// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/services"
	"github.com/tel9980/KVideo/internal/store"
)

// MockConfigAPI is a test double for [services.ConfigAPI] with canned answers.
type MockConfigAPI struct {
	HasEnvPassword bool
	Subscriptions  []store.EnvSubscription
	Valid          bool
	FetchErr       error
	ValidateErr    error
	ValidateCalls  int
}

func (m *MockConfigAPI) FetchConfig(ctx context.Context) (*services.RemoteConfig, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return &services.RemoteConfig{
		HasEnvPassword:      m.HasEnvPassword,
		SubscriptionSources: m.Subscriptions,
	}, nil
}

func (m *MockConfigAPI) ValidatePassword(ctx context.Context, password string) (bool, error) {
	m.ValidateCalls++
	if m.ValidateErr != nil {
		return false, m.ValidateErr
	}
	return m.Valid, nil
}

// MockFetcher is a test double for [services.SourceFetcher] serving one fixed
// source list for every subscription.
type MockFetcher struct {
	Sources []models.Source
	Premium []models.Source
	Err     error
	Calls   int
}

func (m *MockFetcher) FetchSources(ctx context.Context, sub models.Subscription) (*services.SourceList, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.SourceList{Sources: m.Sources, PremiumSources: m.Premium}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

// NewLimitedWriter wraps target and fails every write past maxWrites.
func NewLimitedWriter(target io.Writer, maxWrites int) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

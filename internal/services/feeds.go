package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tel9980/KVideo/internal/models"
	"github.com/tel9980/KVideo/internal/shared"
	"golang.org/x/oauth2"
)

// FeedClient implements [SourceFetcher] over plain HTTP. Subscriptions that
// carry a bearer token get an oauth2 static-token client so the token travels
// on every request, including redirects within the same host.
type FeedClient struct {
	httpClient *http.Client
}

// NewFeedClient creates a feed client. A nil client defaults to
// [http.DefaultClient].
func NewFeedClient(client *http.Client) *FeedClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &FeedClient{httpClient: client}
}

var _ SourceFetcher = (*FeedClient)(nil)

// FetchSources retrieves and decodes the subscription's source list.
//
// Accepted payloads: an object with "sources" and "premiumSources" arrays, or
// a bare array treated as normal sources.
func (f *FeedClient) FetchSources(ctx context.Context, sub models.Subscription) (*SourceList, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sub.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.httpClient
	if sub.Token != "" {
		client = oauth2.NewClient(
			context.WithValue(ctx, oauth2.HTTPClient, f.httpClient),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: sub.Token}),
		)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFeedRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d from %s", shared.ErrFeedRequest, resp.StatusCode, sub.URL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	return decodeSourceList(body)
}

// decodeSourceList parses a feed payload and drops entries that fail
// validation rather than rejecting the whole feed.
func decodeSourceList(body []byte) (*SourceList, error) {
	var list SourceList
	if err := json.Unmarshal(body, &list); err != nil {
		var bare []models.Source
		if err := json.Unmarshal(body, &bare); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidFeed, err)
		}
		list.Sources = bare
	}

	list.Sources = validSources(list.Sources)
	list.PremiumSources = validSources(list.PremiumSources)

	if len(list.Sources) == 0 && len(list.PremiumSources) == 0 {
		return nil, fmt.Errorf("%w: feed contains no usable sources", shared.ErrInvalidFeed)
	}

	return &list, nil
}

func validSources(sources []models.Source) []models.Source {
	valid := sources[:0]
	for _, src := range sources {
		if src.Validate() == nil {
			valid = append(valid, src)
		}
	}
	return valid
}

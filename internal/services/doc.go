// Package services contains the HTTP clients the gate and syncer depend on.
//
// [ConfigClient] talks to the aggregator's /api/config endpoint (gate
// configuration and server-side password validation). [FeedClient] fetches
// subscription feeds and decodes their source lists. Both take a
// context.Context on every call so callers can abandon in-flight requests.
package services

// Package models defines the domain entities shared by the KVideo access gate
// and subscription sync layers.
//
//   - [Settings] : the full local settings document (access control, subscriptions, sources)
//   - [Subscription] : a remote feed URL polled for source lists
//   - [Source] : a playable media provider entry, merged from local config or feeds
//
// Settings values are passed by deep copy between components; the store package
// owns the single mutable instance.
package models

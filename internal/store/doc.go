// Package store implements the shared settings repository consumed by the
// access gate and the subscription syncer.
//
// A [Store] owns the single mutable [models.Settings] document. Readers get
// deep-copied snapshots, writers replace the whole document in one save, and
// subscribers are notified once per save with the new snapshot and a
// monotonic revision. Persistence is an optional SQLite database; every save
// writes settings, subscriptions, and sources in one transaction.
package store

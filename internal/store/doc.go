// Package store provides the console's durable client-side storage.
//
// It plays the role a browser's localStorage plays for a web console: a flat
// string key/value space holding the active authentication method, cached
// provider tokens and pending OAuth state. Two backends are available:
//
//	bolt   (default) go.etcd.io/bbolt, one bucket
//	sqlite modernc.org/sqlite, one table managed by embedded migrations
//
// Token values are sealed with [Vault] before they are written.
package store

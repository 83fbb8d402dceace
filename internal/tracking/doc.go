// Package tracking publishes completed renders as version records. The
// Publisher interface is the contract a production tracking client
// implements; the built-in Store keeps a local SQLite history so published
// versions survive without any external system configured.
package tracking

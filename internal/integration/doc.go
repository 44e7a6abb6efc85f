// Package integration holds end-to-end tests that run against a real
// Postgres container. Run them with -tags integration.
package integration

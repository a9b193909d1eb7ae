// Package testdb provides helpers for tests that run against a real
// PostgreSQL database. Everything here is behind the integration build tag:
//
//	DATABASE_URL=postgres://... go test -tags=integration ./...
//
// Each test gets its own transaction, which is always rolled back, so tests
// may run in parallel against one database without cleaning up.
package testdb

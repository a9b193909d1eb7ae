// Package postgres provides PostgreSQL implementations of the store
// interfaces, the connection setup on top of the pgx database/sql driver, and
// the embedded goose migrations that define the schema.
package postgres

// Package pg bootstraps the PostgreSQL layer: a pgx/v5 connection pool with
// startup retries, goose schema migrations bridged onto the same pool, and
// error classification helpers shared by the repositories built on top.
package pg

// Package database keeps the render journal in SQLite.
//
// Every call to the renderer appends one row describing the outcome: the
// video id, whether the card was rendered, served from cache or replaced by
// the placeholder, the failure reason and how long it took. The journal backs
// the /api/renders and /api/stats endpoints.
//
// The database uses WAL mode so the HTTP handlers can read while renders are
// being recorded.
package database

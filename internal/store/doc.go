// Package store provides SQLite-backed persistence for harvested product
// links and run history.
//
// Persistence is optional: by default a run only appends to the output
// text file, and the database is opened on request. When enabled it keeps
// one row per distinct product link per store, so repeated runs against
// the same listings refresh timestamps instead of piling up duplicates,
// and it records a JSON snapshot of every run for later review.
package store

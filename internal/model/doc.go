// Package model defines the core data structures shared across storescan:
// spreadsheet link records, per-page harvest results, run reports, and
// product details.
package model

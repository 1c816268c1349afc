// Package model contains core data structures shared across the
// application: title identifiers, library entries, download artifacts,
// candidate sources, tasks, and catalog metadata.
package model

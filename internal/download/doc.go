// Package download orchestrates per-title operations: resolving
// candidate sources, fetching artifacts with fallback, placing them,
// and updating the library model, under per-title mutual exclusion.
package download

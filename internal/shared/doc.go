// Package shared holds code used across the report packages that does not
// belong to any single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and analytics snapshot fixtures with known derived values.
package shared

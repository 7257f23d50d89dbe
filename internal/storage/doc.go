// Package storage persists rendered report artifacts.
//
// Two backends implement Store:
//
//   - LocalStore writes into a directory through a temporary file and an
//     atomic rename, so readers never observe a partially written report.
//   - S3Store uploads each report as one PutObject call.
//
// A report that fails to render never reaches a Store. Saving the same name
// twice replaces the earlier object.
package storage

// Package services sits between the HTTP and CLI surfaces and the export
// engine.
//
// # Available Services
//
//	- ExportService: runs single and concurrent exports, records them in the
//	  history ledger, serves stored artifacts and lists recent exports
//	- HealthService: reports process health and the state of storage and
//	  the ledger
//
// Services receive their collaborators and a *slog.Logger through their
// constructors. They return the typed errors from internal/errors unchanged
// so callers can map them to problem responses or exit codes.
package services

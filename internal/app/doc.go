// Package app wires the report server together: configuration, logging,
// telemetry, artifact storage, the export history ledger, services and the
// chi router.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, YAML and RETAIL_* variables
//	2. Initialize logging and OpenTelemetry
//	3. Open the artifact store (local directory or S3) and the ledger
//	4. Build the export engine and services
//	5. Set up HTTP handlers and middleware
//
// NewComponents performs steps 2 to 4 without HTTP and is shared with the
// export-report command.
//
// # Graceful Shutdown
//
// Run handles SIGINT and SIGTERM. In-flight requests are drained, the
// ledger is closed and telemetry is flushed. Errors are returned to the
// caller; the package never calls os.Exit.
package app

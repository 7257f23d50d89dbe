// Package http implements the HTTP handlers of the report server. Handlers
// stay thin: they parse the request, call a service and render either JSON
// or an RFC 7807 problem through errors.ErrorHandler.
//
// # Routes
//
//	POST /api/reports/exports/{format}   render one format (pdf, excel, csv)
//	POST /api/reports/exports            render several formats, ?formats=pdf,csv
//	GET  /api/reports/files/{name}       download a stored report
//	GET  /api/reports/history            recent exports, ?limit=N
//	GET  /api/health                     health of storage and the ledger
//	GET  /metrics                        Prometheus scrape endpoint
//
// Export endpoints take an analytics snapshot as the JSON request body and
// answer 201 with the stored artifact description.
package http

// Command export-report renders analytics snapshots to PDF, XLSX and CSV
// without running the HTTP server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package config

import (
	"time"

	"retailreports/pkg/contracts"
)

// Application constants
const (
	AppName    = "retail-reports"
	AppVersion = contracts.Version

	// Rate Limiting
	DefaultRateLimit = 5 // export requests per second per client
	DefaultBurstSize = 10

	// Export
	DefaultColumnWidth   = 20.0
	DefaultExportTimeout = 30 * time.Second
	DefaultHistoryLimit  = 50
	MaxHistoryLimit      = 500

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
	DefaultHistoryDB  = "data/history.db"
)

// Package config provides configuration loading for the report server and
// CLI.
//
// # Configuration Sources
//
// Configuration is built from the following sources, later ones winning:
//
//	1. Default values
//	2. A YAML file (RETAIL_CONFIG_FILE, or config.yaml / configs/config.yaml)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern RETAIL_<SECTION>_<FIELD>:
//
//	RETAIL_SERVER_PORT=8080
//	RETAIL_EXPORT_BACKEND=s3
//	RETAIL_S3_BUCKET=retail-reports
//	RETAIL_HISTORY_DATABASE_PATH=data/history.db
//	RETAIL_LOGGING_LEVEL=debug
//
// # Path Management
//
// Relative paths resolve against Paths.BaseDir, or the executable's
// directory when it is empty:
//
//	paths, err := cfg.ResolvePaths()
//	reportPath := paths.GetReportPath("Reports20250120.pdf")
//
// # Testing
//
// Use Default() for a configuration that needs no environment.
package config

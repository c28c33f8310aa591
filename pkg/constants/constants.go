// Package constants provides shared constants used throughout servicesync.
// This includes timeouts, file permissions and the fixed business tables
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the registry
	DefaultHTTPTimeout = 30 * time.Second

	// ImportContextTimeout bounds a single import run started by the scheduler
	ImportContextTimeout = 5 * time.Minute

	// DefaultImportInterval is the default interval between automatic imports
	DefaultImportInterval = 24 * time.Hour

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// StorePingTimeout bounds the initial connectivity check of the catalog store
	StorePingTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Registry constants
const (
	// RegistryName identifies the service registry in logs, errors and metrics
	RegistryName = "ytr"

	// RegistryAPIPath is appended to host:port to form the registry base URL
	RegistryAPIPath = "/palvelutieto/api/v1"

	// RegistryTimestampLayout is the layout of registry lastUpdated values.
	// Note the dot between minutes and seconds.
	RegistryTimestampLayout = "2006-01-02T15:04.05.999999Z"
)

// DefaultProvinceCodes are the province codes whose services are eligible.
var DefaultProvinceCodes = []string{"02"}

// DefaultSuitableTargetGroups are the catalog target group codes that pass the filter.
var DefaultSuitableTargetGroups = []string{"KR1", "KR1.2"}

// DefaultNonSuitableTargetGroups are the catalog target group codes that fail the filter.
var DefaultNonSuitableTargetGroups = []string{"KR1.1", "KR1.3"}

// TargetGroupCodes translates registry target group codes to catalog codes.
var TargetGroupCodes = map[string]string{
	"KR-1": "KR1.1",
	"KR-2": "KR1.2",
	"KR-3": "KR1.3",
	"KR-4": "KR1",
}

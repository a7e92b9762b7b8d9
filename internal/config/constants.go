package config

import (
	"time"

	"solardash/pkg/contracts"
)

// Application constants
const (
	AppName    = "solardash"
	AppTitle   = "Solar Farm Data Analysis Dashboard"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (SOLAR_SERVER_PORT, ...)
	EnvPrefix = "SOLAR"

	// Rate Limiting
	DefaultRateLimit = 50 // requests per second
	DefaultBurstSize = 100

	// Log Settings
	DefaultLogFile = "logs/solardash.log"

	// Uploads
	DefaultMaxUploadBytes = 10 << 20 // 10MB
	DefaultMaxRows        = 500_000
	DefaultPreviewRows    = 5
	MaxPreviewRows        = 100

	// Histogram slider bounds
	DefaultHistogramBins = 20
	MinHistogramBins     = 5
	MaxHistogramBins     = 50

	// Charts
	DefaultChartWidth  = 960
	DefaultChartHeight = 540
	MinChartSize       = 200

	// Sessions
	SessionCookieName    = "solardash_session"
	DefaultSessionTTL    = 2 * time.Hour
	DefaultSweepInterval = 5 * time.Minute
	DefaultMaxSessions   = 64

	// Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)

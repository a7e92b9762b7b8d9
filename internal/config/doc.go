// Package config loads the dashboard configuration.
//
// Values are resolved in increasing order of precedence:
//
//  1. Default() values
//  2. a YAML file (SOLAR_CONFIG_FILE, ./config.yaml or ./configs/config.yaml)
//  3. SOLAR_* environment variables
//
// Environment variables follow the nesting of the Config struct:
//
//	SOLAR_SERVER_PORT=9090
//	SOLAR_LOGGING_LEVEL=debug
//	SOLAR_DASHBOARD_MAX_UPLOAD_BYTES=20971520
//	SOLAR_DASHBOARD_SESSION_TTL=30m
//	SOLAR_TELEMETRY_TRACE_EXPORTER=stdout
package config

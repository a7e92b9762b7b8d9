// Package app wires the solar dashboard together and owns its lifecycle.
//
// NewApplication takes a loaded configuration and a logger and builds,
// in order:
//
//  1. OpenTelemetry providers and the business metrics
//  2. the session store holding one dataset per browser
//  3. the dashboard and health services
//  4. the chi router with its middleware chain
//  5. the HTTP server
//
// # Middleware
//
// Every route except /metrics runs behind
//
//	RequestID → RealIP → CORS → OTel → Logger → Recoverer → Timeout →
//	SecurityHeaders → RateLimiter → Compress → Session
//
// CORS and the rate limiter are applied only when enabled in the
// configuration.
//
// # Usage
//
//	cfg, err := config.Load()
//	...
//	application, err := app.NewApplication(cfg, logger)
//	...
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, or until the listener fails. Stop then
// drains in-flight requests within the configured shutdown timeout, stops the
// session sweeper and flushes the telemetry providers.
package app

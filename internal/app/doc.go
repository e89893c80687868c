// Package app assembles the campaign analytics server: configuration,
// logging and telemetry, the sheet cache with its snapshot fallback, the
// report services and the chi router, plus lifecycle management with
// graceful shutdown.
package app

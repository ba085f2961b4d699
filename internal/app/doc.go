// Package app wires the Watchdog web service together: configuration,
// logging, metrics, the upload store, the websocket hub, services and the
// HTTP router. It owns the server lifecycle from startup to graceful
// shutdown.
package app

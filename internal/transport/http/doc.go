// Package http implements HTTP request handlers for the Watchdog web
// service. It provides a thin layer between HTTP transport and business
// logic, keeping handlers focused solely on HTTP concerns.
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to RFC 7807 responses
//	4. No business logic - all logic belongs in the service layer
//
// Each handler owns a small service interface defined next to it, a
// structured logger and a shared error handler, and exposes its routes
// through a Routes() chi.Router method mounted by the application router.
package http

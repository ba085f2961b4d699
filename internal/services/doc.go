// Package services implements the business logic layer of the Watchdog
// application. It provides a clean separation between HTTP handlers and the
// pipeline packages, ensuring that business rules are centralized and
// testable.
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Error handling and transformation at the service boundary
//
// Handlers depend on small service interfaces defined next to each handler;
// the concrete services here satisfy them.
package services

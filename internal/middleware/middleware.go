// Package middleware stores global and route-specific middleware.
//
// Every request gets a correlation ID, a request-scoped logger and, when
// New Relic is configured, a transaction tagged with the inventory
// resource. Mutating inventory routes can additionally require a Clerk
// session. All failures leave through GlobalErrorHandler
package middleware

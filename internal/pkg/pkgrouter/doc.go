// Package pkgrouter wraps HTTP routing and common middleware used by the API.
//
// It provides a small router abstraction over httprouter plus shared concerns
// like JSON encoding, error mapping, logging, recovery, and correlation ID
// propagation. Streaming handlers (server-sent events) are registered with
// Handle and keep working through the middleware chain.
package pkgrouter

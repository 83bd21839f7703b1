// Package pkgerror defines shared error types and sentinel errors.
//
// Errors carry a user-facing message, a type, and a stable code that the
// router maps to an HTTP status. Failures of outside collaborators (the
// advice service, a storage backend) use TypeExternal so callers can pick a
// local fallback instead of failing the request.
package pkgerror

// Package pkgmetrics owns the Prometheus registry shared by the application
// and exposes it over HTTP.
package pkgmetrics

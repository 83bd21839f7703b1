// Package pkgroutine contains helpers for running goroutines safely.
//
// The Manager type bounds concurrency, collects returned errors, and recovers
// panics so that background work (simulated payment settlement, advice
// requests) does not crash the process silently.
package pkgroutine

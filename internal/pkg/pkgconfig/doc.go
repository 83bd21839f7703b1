// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Values come from a concrete implementation (Viper) that reads a config file
// and lets environment variables override any key: "advisor.api_key" can be
// set with ADVISOR_API_KEY. Business code depends on the Config interface so
// it stays easy to test.
package pkgconfig

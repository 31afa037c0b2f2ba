// Package config loads the library desk settings from an optional .env file and the
// process environment, and bootstraps the OpenTelemetry providers.
package config

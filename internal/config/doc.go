// Package config resolves the runtime configuration of the telemetry server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override the fields they set):
//  1. Built-in defaults
//  2. TOML config file
//  3. Environment variables
//  4. Command-line flags
//
// Every field is resolved on its own: a TOML key that is missing or has the
// wrong type keeps the value of the previous source instead of failing the
// whole document.
//
// The main entry points are [Resolve] for the defaults-plus-file view and
// [GetServerConfig] for the full layered configuration used at startup.
package config

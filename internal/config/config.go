// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// DefaultConfigPath is the TOML file consulted when no explicit path is given.
const DefaultConfigPath = "config.toml"

// Built-in defaults used for every field that no source overrides.
const (
	DefaultAddress                   = "127.0.0.1:3000"
	DefaultDatabase                  = "sqlite:w_orchid.db"
	DefaultMicrocontrollerCount      = uint16(1)
	DefaultSensorsPerMicrocontroller = uint8(2)
	DefaultProvisionMode             = ProvisionModeCreate
	// DefaultProvisionTimeout of zero derives the deadline from the fleet
	// size, see [ServerConfig.EffectiveProvisionTimeout].
	DefaultProvisionTimeout = time.Duration(0)
)

// Automatic provisioning deadline: a fixed allowance for opening the
// database and creating the schema plus a budget per seeded row. The largest
// fleet (65535 microcontrollers with 255 sensors each) gets about 14 minutes.
const (
	ProvisionTimeoutBase   = 30 * time.Second
	ProvisionTimeoutPerRow = 50 * time.Microsecond
)

// ProvisionMode selects how the schema provisioner treats an existing database.
type ProvisionMode string

const (
	// ProvisionModeCreate creates the tables unconditionally and fails when
	// any of them already exists.
	ProvisionModeCreate ProvisionMode = "create"

	// ProvisionModeEnsure applies the schema as a versioned migration and
	// skips fleet rows that are already present, so repeated runs converge.
	ProvisionModeEnsure ProvisionMode = "ensure"
)

// ServerConfig is the fully resolved runtime configuration of the telemetry
// server. Every field always holds a value: either the built-in default or an
// explicit override from one of the configuration sources.
type ServerConfig struct {
	// Address is the network bind address in "host:port" form.
	// TOML: address, Env: WORCHID_ADDRESS, Flag: -a
	Address string

	// Database is the database locator in connection-string form
	// (e.g. "sqlite:w_orchid.db").
	// TOML: database, Env: WORCHID_DATABASE, Flag: -d
	Database string

	// MicrocontrollerCount is the number of microcontrollers in the fleet.
	// TOML: microcontroller_count, Env: WORCHID_MICROCONTROLLER_COUNT
	MicrocontrollerCount uint16

	// SensorsPerMicrocontroller is the number of sensors attached to each
	// microcontroller.
	// TOML: sensors_per_microcontroller, Env: WORCHID_SENSORS_PER_MICROCONTROLLER
	SensorsPerMicrocontroller uint8

	// ProvisionMode selects strict or convergent schema provisioning.
	// TOML: provision_mode, Env: WORCHID_PROVISION_MODE
	ProvisionMode ProvisionMode

	// ProvisionTimeout bounds the whole provisioning run. Zero derives the
	// deadline from the fleet size.
	// TOML: provision_timeout, Env: WORCHID_PROVISION_TIMEOUT
	ProvisionTimeout time.Duration
}

// EffectiveProvisionTimeout returns ProvisionTimeout when it is set and
// otherwise ProvisionTimeoutBase plus ProvisionTimeoutPerRow for every
// Microcontrollers and Sensors row the fleet needs.
func (c ServerConfig) EffectiveProvisionTimeout() time.Duration {
	if c.ProvisionTimeout > 0 {
		return c.ProvisionTimeout
	}

	m := int64(c.MicrocontrollerCount)
	rows := m + m*int64(c.SensorsPerMicrocontroller)
	return ProvisionTimeoutBase + time.Duration(rows)*ProvisionTimeoutPerRow
}

// ValidateProvisionMode reports whether mode is a known provisioning mode.
func ValidateProvisionMode(mode ProvisionMode) error {
	switch mode {
	case ProvisionModeCreate, ProvisionModeEnsure:
		return nil
	}

	return fmt.Errorf("%w: unknown mode %q", ErrInvalidProvisionConfigs, mode)
}

// Default returns the built-in configuration.
func Default() ServerConfig {
	return ServerConfig{
		Address:                   DefaultAddress,
		Database:                  DefaultDatabase,
		MicrocontrollerCount:      DefaultMicrocontrollerCount,
		SensorsPerMicrocontroller: DefaultSensorsPerMicrocontroller,
		ProvisionMode:             DefaultProvisionMode,
		ProvisionTimeout:          DefaultProvisionTimeout,
	}
}

// Resolve loads the TOML document at path (DefaultConfigPath when empty) and
// overlays it onto the built-in defaults field by field.
//
// A missing file yields the defaults unchanged. Keys that are absent or carry
// a value of the wrong type keep their default silently; a document that does
// not parse, or a count that does not fit its target width, is an error.
func Resolve(path string) (ServerConfig, error) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withTOML(path).
		resolve()
	if err != nil {
		return ServerConfig{}, err
	}

	return *cfg, nil
}

// GetServerConfig builds the server configuration from all sources in the
// following priority order (later sources win for the fields they set):
//  1. Built-in defaults
//  2. TOML file (path from -c / --config, WORCHID_CONFIG, or DefaultConfigPath)
//  3. Environment variables
//  4. Command-line flags
//
// args are the command-line arguments without the program name. The parsed
// [Options] carry the requested subcommand.
func GetServerConfig(args []string, environ []string) (*ServerConfig, *Options, error) {
	opts, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	b := newConfigBuilder().withDefaults()
	envLayer, envPath, err := parseEnv(environ)
	if err != nil {
		b.err = err
	}

	path := opts.ConfigPath
	if path == "" {
		path = envPath
	}
	opts.ConfigPath = path

	cfg, err := b.
		withTOML(path).
		withLayer(envLayer).
		withLayer(opts.overrides).
		build()
	if err != nil {
		return nil, opts, err
	}

	return cfg, opts, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environment variables read by parseEnv.
const (
	envConfigPath                = "WORCHID_CONFIG"
	envAddress                   = "WORCHID_ADDRESS"
	envDatabase                  = "WORCHID_DATABASE"
	envMicrocontrollerCount      = "WORCHID_MICROCONTROLLER_COUNT"
	envSensorsPerMicrocontroller = "WORCHID_SENSORS_PER_MICROCONTROLLER"
	envProvisionMode             = "WORCHID_PROVISION_MODE"
	envProvisionTimeout          = "WORCHID_PROVISION_TIMEOUT"
)

// envConfig mirrors the environment variables. Integer widths match
// [ServerConfig], so env rejects values that do not fit.
type envConfig struct {
	ConfigPath                string        `env:"WORCHID_CONFIG"`
	Address                   string        `env:"WORCHID_ADDRESS"`
	Database                  string        `env:"WORCHID_DATABASE"`
	MicrocontrollerCount      uint16        `env:"WORCHID_MICROCONTROLLER_COUNT"`
	SensorsPerMicrocontroller uint8         `env:"WORCHID_SENSORS_PER_MICROCONTROLLER"`
	ProvisionMode             ProvisionMode `env:"WORCHID_PROVISION_MODE"`
	ProvisionTimeout          time.Duration `env:"WORCHID_PROVISION_TIMEOUT"`
}

// parseEnv reads the WORCHID_* variables from environ (os.Environ format)
// using the caarlos0/env library. Only variables that are present and
// non-empty end up in the returned overlay. The second result is the config
// file path from WORCHID_CONFIG.
func parseEnv(environ []string) (*overlay, string, error) {
	vars := env.ToMap(environ)

	if err := errors.Join(
		checkEnvRange(vars, envMicrocontrollerCount, math.MaxUint16),
		checkEnvRange(vars, envSensorsPerMicrocontroller, math.MaxUint8),
	); err != nil {
		return nil, "", fmt.Errorf("error getting env configs: %w", err)
	}

	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Environment: vars}); err != nil {
		return nil, "", fmt.Errorf("error getting env configs: %w", err)
	}

	set := func(key string) bool { return vars[key] != "" }

	layer := &overlay{}
	if set(envAddress) {
		layer.Address = &ec.Address
	}
	if set(envDatabase) {
		layer.Database = &ec.Database
	}
	if set(envMicrocontrollerCount) {
		layer.MicrocontrollerCount = &ec.MicrocontrollerCount
	}
	if set(envSensorsPerMicrocontroller) {
		layer.SensorsPerMicrocontroller = &ec.SensorsPerMicrocontroller
	}
	if set(envProvisionMode) {
		layer.ProvisionMode = &ec.ProvisionMode
	}
	if set(envProvisionTimeout) {
		layer.ProvisionTimeout = &ec.ProvisionTimeout
	}

	return layer, ec.ConfigPath, nil
}

// checkEnvRange reports an integer variable that does not fit 0..limit with the
// same ErrValueOutOfRange the TOML layer uses. Values that are not integers at
// all are left to env.
func checkEnvRange(vars map[string]string, key string, limit int64) error {
	raw := vars[key]
	if raw == "" {
		return nil
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	if err != nil || n < 0 || n > limit {
		return &Error{Kind: ErrValueOutOfRange, Key: key}
	}

	return nil
}

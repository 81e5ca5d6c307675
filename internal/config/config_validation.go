// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
)

// validate checks that the final merged [ServerConfig] can be used at
// startup. The fleet topology needs no check: both counts are unsigned and
// zero is a valid (empty) fleet.
func (cfg *ServerConfig) validate() error {
	if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidAddress, cfg.Address, err)
	}

	if cfg.Database == "" {
		return ErrInvalidDatabase
	}

	if err := ValidateProvisionMode(cfg.ProvisionMode); err != nil {
		return err
	}

	if cfg.ProvisionTimeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidProvisionConfigs)
	}

	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetServerConfig_DefaultsOnly(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, opts, err := GetServerConfig(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Empty(t, opts.Command)
}

func TestGetServerConfig_Precedence(t *testing.T) {
	path := writeTempTOMLConfig(t, `
address = "127.0.0.1:3100"
database = "sqlite:file.db"
microcontroller_count = 4
sensors_per_microcontroller = 3
`)
	environ := []string{
		envDatabase + "=sqlite:env.db",
		envMicrocontrollerCount + "=6",
	}
	args := []string{"-c", path, "-d", "sqlite:flag.db", "init"}

	cfg, opts, err := GetServerConfig(args, environ)

	require.NoError(t, err)
	assert.Equal(t, CommandInit, opts.Command)
	assert.Equal(t, path, opts.ConfigPath)

	assert.Equal(t, "127.0.0.1:3100", cfg.Address)  // file
	assert.Equal(t, "sqlite:flag.db", cfg.Database) // flag over env over file
	assert.Equal(t, uint16(6), cfg.MicrocontrollerCount)
	assert.Equal(t, uint8(3), cfg.SensorsPerMicrocontroller)
}

func TestGetServerConfig_ConfigPathFromEnv(t *testing.T) {
	path := writeTempTOMLConfig(t, `sensors_per_microcontroller = 11`)

	cfg, opts, err := GetServerConfig([]string{"init"}, []string{envConfigPath + "=" + path})

	require.NoError(t, err)
	assert.Equal(t, path, opts.ConfigPath)
	assert.Equal(t, uint8(11), cfg.SensorsPerMicrocontroller)
}

func TestGetServerConfig_FlagPathBeatsEnvPath(t *testing.T) {
	flagPath := writeTempTOMLConfig(t, `microcontroller_count = 2`)
	envPath := filepath.Join(t.TempDir(), "ignored.toml")

	cfg, opts, err := GetServerConfig([]string{"--config", flagPath}, []string{envConfigPath + "=" + envPath})

	require.NoError(t, err)
	assert.Equal(t, flagPath, opts.ConfigPath)
	assert.Equal(t, uint16(2), cfg.MicrocontrollerCount)
}

func TestGetServerConfig_Errors(t *testing.T) {
	malformed := writeTempTOMLConfig(t, `address = "`)
	badMode := writeTempTOMLConfig(t, `provision_mode = "rebuild"`)

	tests := []struct {
		name    string
		args    []string
		environ []string
		wantErr error
	}{
		{"malformed file", []string{"-c", malformed}, nil, ErrParseConfig},
		{"unknown mode", []string{"-c", badMode}, nil, ErrInvalidProvisionConfigs},
		{"unknown command", []string{"serve"}, nil, ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _, err := GetServerConfig(tt.args, tt.environ)

			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetServerConfig_EnvErrorSurfaces(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, _, err := GetServerConfig(nil, []string{envMicrocontrollerCount + "=-4"})

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "env")
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestGetServerConfig_OutOfRangeSameForFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeTempTOMLConfig(t, `microcontroller_count = 70000`)

	_, _, fileErr := GetServerConfig([]string{"-c", path}, nil)
	_, _, envErr := GetServerConfig(nil, []string{envMicrocontrollerCount + "=70000"})

	assert.ErrorIs(t, fileErr, ErrValueOutOfRange)
	assert.ErrorIs(t, envErr, ErrValueOutOfRange)
}

func TestEffectiveProvisionTimeout(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want time.Duration
	}{
		{"explicit", ServerConfig{ProvisionTimeout: time.Minute, MicrocontrollerCount: 65535, SensorsPerMicrocontroller: 255}, time.Minute},
		{"empty fleet", ServerConfig{}, ProvisionTimeoutBase},
		{"defaults", Default(), ProvisionTimeoutBase + 3*ProvisionTimeoutPerRow},
		{"largest fleet", ServerConfig{MicrocontrollerCount: 65535, SensorsPerMicrocontroller: 255}, ProvisionTimeoutBase + 65535*256*ProvisionTimeoutPerRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.EffectiveProvisionTimeout())
		})
	}
}

func TestEffectiveProvisionTimeout_ScalesPastBase(t *testing.T) {
	largest := ServerConfig{MicrocontrollerCount: 65535, SensorsPerMicrocontroller: 255}

	assert.Greater(t, largest.EffectiveProvisionTimeout(), 10*time.Minute)
}

func TestValidateProvisionMode(t *testing.T) {
	assert.NoError(t, ValidateProvisionMode(ProvisionModeCreate))
	assert.NoError(t, ValidateProvisionMode(ProvisionModeEnsure))
	assert.ErrorIs(t, ValidateProvisionMode("bogus"), ErrInvalidProvisionConfigs)
	assert.ErrorIs(t, ValidateProvisionMode(""), ErrInvalidProvisionConfigs)
}

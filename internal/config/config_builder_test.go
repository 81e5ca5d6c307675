package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and no layers.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.layers)
}

// ── resolve / build ───────────────────────────────────────────────────────────

// TestResolve_EmptyBuilder verifies that resolving with no layers yields the
// built-in defaults.
func TestResolve_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().resolve()
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestResolve_LaterLayerWins verifies that a later layer overrides only the
// fields it sets.
func TestResolve_LaterLayerWins(t *testing.T) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withLayer(&overlay{Address: ptr("10.1.1.1:3000"), MicrocontrollerCount: ptr(uint16(5))}).
		withLayer(&overlay{MicrocontrollerCount: ptr(uint16(8))}).
		resolve()

	require.NoError(t, err)
	assert.Equal(t, "10.1.1.1:3000", cfg.Address)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, uint16(8), cfg.MicrocontrollerCount)
	assert.Equal(t, DefaultSensorsPerMicrocontroller, cfg.SensorsPerMicrocontroller)
}

// TestResolve_ZeroValuesOverride verifies that explicit zero values in a
// later layer replace non-zero values of an earlier one.
func TestResolve_ZeroValuesOverride(t *testing.T) {
	cfg, err := newConfigBuilder().
		withDefaults().
		withLayer(&overlay{
			MicrocontrollerCount:      ptr(uint16(0)),
			SensorsPerMicrocontroller: ptr(uint8(0)),
			Address:                   ptr(""),
		}).
		resolve()

	require.NoError(t, err)
	assert.Zero(t, cfg.MicrocontrollerCount)
	assert.Zero(t, cfg.SensorsPerMicrocontroller)
	assert.Empty(t, cfg.Address)
}

// TestResolve_DoesNotMutateLayers verifies that merging leaves the default
// layer untouched for the next resolution.
func TestResolve_DoesNotMutateLayers(t *testing.T) {
	defaults := defaultsOverlay()

	_, err := newConfigBuilder().
		withLayer(defaults).
		withLayer(&overlay{SensorsPerMicrocontroller: ptr(uint8(9))}).
		resolve()
	require.NoError(t, err)

	assert.Equal(t, DefaultSensorsPerMicrocontroller, *defaults.SensorsPerMicrocontroller)
}

// TestBuild_ValidatesResult verifies that build rejects a merged config that
// fails validation while resolve accepts it.
func TestBuild_ValidatesResult(t *testing.T) {
	b := newConfigBuilder().
		withDefaults().
		withLayer(&overlay{ProvisionTimeout: ptr(-time.Second)})

	_, err := b.resolve()
	require.NoError(t, err)

	_, err = b.build()
	assert.ErrorIs(t, err, ErrInvalidProvisionConfigs)
}

// ── withLayer / withTOML ──────────────────────────────────────────────────────

// TestWithLayer_IgnoresNil verifies the fluent interface and that nil layers
// are skipped.
func TestWithLayer_IgnoresNil(t *testing.T) {
	b := newConfigBuilder()
	assert.Same(t, b, b.withLayer(nil))
	assert.Empty(t, b.layers)
}

// TestWithTOML_SetsError_WhenMalformed verifies that a broken document sets
// b.err and adds no layer.
func TestWithTOML_SetsError_WhenMalformed(t *testing.T) {
	b := newConfigBuilder()
	b.withTOML(writeTempTOMLConfig(t, `address = `))

	assert.ErrorIs(t, b.err, ErrParseConfig)
	assert.Empty(t, b.layers)
}

// TestWithTOML_KeepsPreviousError verifies that earlier errors are preserved
// alongside new ones.
func TestWithTOML_KeepsPreviousError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError
	b.withTOML(writeTempTOMLConfig(t, `microcontroller_count = 70000`))

	assert.ErrorIs(t, b.err, assert.AnError)
	assert.ErrorIs(t, b.err, ErrValueOutOfRange)
}

// ── validate ──────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ServerConfig)
		wantErr error
	}{
		{"defaults", func(cfg *ServerConfig) {}, nil},
		{"zero fleet", func(cfg *ServerConfig) { cfg.MicrocontrollerCount = 0; cfg.SensorsPerMicrocontroller = 0 }, nil},
		{"ensure mode", func(cfg *ServerConfig) { cfg.ProvisionMode = ProvisionModeEnsure }, nil},
		{"address without port", func(cfg *ServerConfig) { cfg.Address = "127.0.0.1" }, ErrInvalidAddress},
		{"empty address", func(cfg *ServerConfig) { cfg.Address = "" }, ErrInvalidAddress},
		{"empty database", func(cfg *ServerConfig) { cfg.Database = "" }, ErrInvalidDatabase},
		{"unknown mode", func(cfg *ServerConfig) { cfg.ProvisionMode = "replace" }, ErrInvalidProvisionConfigs},
		{"negative timeout", func(cfg *ServerConfig) { cfg.ProvisionTimeout = -time.Second }, ErrInvalidProvisionConfigs},
		{"explicit timeout", func(cfg *ServerConfig) { cfg.ProvisionTimeout = time.Minute }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

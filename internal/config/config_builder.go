package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// overlay is one configuration source. A nil field means the source does not
// set it, which keeps explicit zero values (e.g. a fleet of zero sensors)
// distinguishable from absent ones.
type overlay struct {
	Address                   *string
	Database                  *string
	MicrocontrollerCount      *uint16
	SensorsPerMicrocontroller *uint8
	ProvisionMode             *ProvisionMode
	ProvisionTimeout          *time.Duration
}

func defaultsOverlay() *overlay {
	d := Default()
	return &overlay{
		Address:                   &d.Address,
		Database:                  &d.Database,
		MicrocontrollerCount:      &d.MicrocontrollerCount,
		SensorsPerMicrocontroller: &d.SensorsPerMicrocontroller,
		ProvisionMode:             &d.ProvisionMode,
		ProvisionTimeout:          &d.ProvisionTimeout,
	}
}

// serverConfig dereferences a merged overlay. Fields still unset fall back to
// the built-in defaults.
func (o *overlay) serverConfig() *ServerConfig {
	cfg := Default()
	if o.Address != nil {
		cfg.Address = *o.Address
	}
	if o.Database != nil {
		cfg.Database = *o.Database
	}
	if o.MicrocontrollerCount != nil {
		cfg.MicrocontrollerCount = *o.MicrocontrollerCount
	}
	if o.SensorsPerMicrocontroller != nil {
		cfg.SensorsPerMicrocontroller = *o.SensorsPerMicrocontroller
	}
	if o.ProvisionMode != nil {
		cfg.ProvisionMode = *o.ProvisionMode
	}
	if o.ProvisionTimeout != nil {
		cfg.ProvisionTimeout = *o.ProvisionTimeout
	}

	return &cfg
}

type configBuilder struct {
	layers []*overlay
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		layers: make([]*overlay, 0, 4),
	}
}

// resolve merges the layers in order without validating the result.
func (b *configBuilder) resolve() (*ServerConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := new(overlay)
	for _, layer := range b.layers {
		if err := mergo.Merge(merged, layer, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return merged.serverConfig(), nil
}

func (b *configBuilder) build() (*ServerConfig, error) {
	cfg, err := b.resolve()
	if err != nil {
		return nil, err
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (b *configBuilder) withDefaults() *configBuilder {
	return b.withLayer(defaultsOverlay())
}

func (b *configBuilder) withLayer(layer *overlay) *configBuilder {
	if layer != nil {
		b.layers = append(b.layers, layer)
	}

	return b
}

func (b *configBuilder) withTOML(path string) *configBuilder {
	layer, err := parseTOML(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	return b.withLayer(layer)
}

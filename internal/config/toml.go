// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Keys recognised in the TOML document. Anything else is ignored.
const (
	keyAddress                   = "address"
	keyDatabase                  = "database"
	keyMicrocontrollerCount      = "microcontroller_count"
	keySensorsPerMicrocontroller = "sensors_per_microcontroller"
	keyProvisionMode             = "provision_mode"
	keyProvisionTimeout          = "provision_timeout"
)

// parseTOML reads the config file at path and converts it into an overlay.
//
// A missing file produces an empty overlay. Every recognised key is taken
// independently: a value of the wrong type leaves the field unset instead of
// failing the document.
func parseTOML(path string) (*overlay, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &overlay{}, nil
		}
		return nil, &Error{Kind: ErrReadConfig, Path: path, Err: err}
	}

	doc := make(map[string]any)
	if _, err = toml.Decode(string(contents), &doc); err != nil {
		return nil, &Error{Kind: ErrParseConfig, Path: path, Err: err}
	}

	layer := &overlay{
		Address:  stringValue(doc, keyAddress),
		Database: stringValue(doc, keyDatabase),
	}

	if n, ok := doc[keyMicrocontrollerCount].(int64); ok {
		if n < 0 || n > math.MaxUint16 {
			return nil, &Error{Kind: ErrValueOutOfRange, Path: path, Key: keyMicrocontrollerCount}
		}
		count := uint16(n)
		layer.MicrocontrollerCount = &count
	}

	if n, ok := doc[keySensorsPerMicrocontroller].(int64); ok {
		if n < 0 || n > math.MaxUint8 {
			return nil, &Error{Kind: ErrValueOutOfRange, Path: path, Key: keySensorsPerMicrocontroller}
		}
		count := uint8(n)
		layer.SensorsPerMicrocontroller = &count
	}

	if mode := stringValue(doc, keyProvisionMode); mode != nil {
		m := ProvisionMode(*mode)
		layer.ProvisionMode = &m
	}

	if raw := stringValue(doc, keyProvisionTimeout); raw != nil {
		if d, err := time.ParseDuration(*raw); err == nil {
			layer.ProvisionTimeout = &d
		}
	}

	return layer, nil
}

func stringValue(doc map[string]any, key string) *string {
	s, ok := doc[key].(string)
	if !ok {
		return nil
	}

	return &s
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package provision prepares the fleet database: it creates the schema,
// inserts one row per configured microcontroller and sensor and checks the
// result before the server is allowed to use the database.
package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/womscp-server/internal/config"
	"github.com/MKhiriev/womscp-server/internal/logger"
	"github.com/MKhiriev/womscp-server/internal/store"
	"github.com/MKhiriev/womscp-server/internal/utils"
	"github.com/MKhiriev/womscp-server/models"
)

const (
	defaultSeedRetries = 3
	defaultSeedBackoff = 100 * time.Millisecond
)

// OpenFunc opens the database named by locator.
type OpenFunc func(ctx context.Context, locator string, log *logger.Logger) (*store.DB, error)

// Provisioner runs the open → schema → seed → verify → close pipeline.
type Provisioner struct {
	logger *logger.Logger
	open   OpenFunc
	ids    *utils.UUIDGenerator

	seedRetries uint64
	seedBackoff time.Duration
}

// New returns a Provisioner that opens SQLite databases.
func New(log *logger.Logger) *Provisioner {
	return &Provisioner{
		logger:      log,
		open:        store.NewConnectSQLite,
		ids:         utils.NewUUIDGenerator(),
		seedRetries: defaultSeedRetries,
		seedBackoff: defaultSeedBackoff,
	}
}

// Provision creates and seeds the database named by cfg.Database.
//
// In create mode the schema must not exist yet; in ensure mode the schema is
// migrated and only missing fleet rows are inserted. Seeding is atomic: on
// failure no fleet rows of this run remain. The whole run is bounded by
// cfg.EffectiveProvisionTimeout and the connection is closed on every path.
// An unknown provision mode is rejected before the database is opened.
func (p *Provisioner) Provision(ctx context.Context, cfg config.ServerConfig) (err error) {
	id := p.ids.Generate()
	log := p.logger.WithField("provision_id", id)
	ctx = log.WithContext(ctx)

	if err = config.ValidateProvisionMode(cfg.ProvisionMode); err != nil {
		log.Err(err).Str("func", "Provisioner.Provision").Msg("refusing to provision")
		return newError(StepConfig, err)
	}

	timeout := cfg.EffectiveProvisionTimeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	topology := models.FleetTopology{
		Microcontrollers:          cfg.MicrocontrollerCount,
		SensorsPerMicrocontroller: cfg.SensorsPerMicrocontroller,
	}
	ensure := cfg.ProvisionMode == config.ProvisionModeEnsure

	log.Info().
		Str("database", cfg.Database).
		Str("mode", string(cfg.ProvisionMode)).
		Dur("timeout", timeout).
		Uint16("microcontrollers", topology.Microcontrollers).
		Uint8("sensors_per_microcontroller", topology.SensorsPerMicrocontroller).
		Msg("provisioning database")

	db, err := p.open(ctx, cfg.Database, log)
	if err != nil {
		return newError(StepOpen, err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Err(closeErr).Str("func", "Provisioner.Provision").Msg("failed to close database")
			if err == nil {
				err = newError(StepClose, closeErr)
			}
		}
	}()

	repo := store.NewRepositories(db).Fleet

	if ensure {
		err = db.Migrate(ctx)
	} else {
		err = repo.CreateSchema(ctx)
	}
	if err != nil {
		return newError(StepSchema, err)
	}

	if err = p.seed(ctx, db, repo, topology, ensure, log); err != nil {
		return newError(StepSeed, err)
	}

	summary, err := repo.Summary(ctx)
	if err != nil {
		return newError(StepVerify, err)
	}
	if want := topology.Expected(); summary != want {
		return newError(StepVerify, fmt.Errorf("%w: want %d microcontrollers and %d sensors, got %d and %d",
			store.ErrFleetMismatch, want.Microcontrollers, want.Sensors, summary.Microcontrollers, summary.Sensors))
	}

	log.Info().
		Int("microcontrollers", summary.Microcontrollers).
		Int("sensors", summary.Sensors).
		Msg("database provisioned")
	return nil
}

// seed retries the seeding transaction while SQLite reports the database as
// busy or locked. A failed attempt is rolled back, so retrying is safe in
// both modes.
func (p *Provisioner) seed(ctx context.Context, db *store.DB, repo store.FleetRepository, topology models.FleetTopology, skipExisting bool, log *logger.Logger) error {
	backoff := retry.WithMaxRetries(p.seedRetries, retry.NewExponential(p.seedBackoff))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := repo.SeedFleet(ctx, topology, skipExisting)
		if err != nil && db.IsRetryable(err) {
			log.Warn().Err(err).Int("attempt", attempt).Msg("database busy, retrying seed")
			return retry.RetryableError(err)
		}
		return err
	})
}

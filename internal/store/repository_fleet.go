// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/womscp-server/internal/logger"
	"github.com/MKhiriev/womscp-server/models"
)

type fleetRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewFleetRepository returns a [FleetRepository] backed by db.
func NewFleetRepository(db *DB) FleetRepository {
	return &fleetRepository{
		db:     db,
		logger: db.logger,
	}
}

func (r *fleetRepository) CreateSchema(ctx context.Context) error {
	log := logger.FromContextOr(ctx, r.logger)

	if _, err := r.db.ExecContext(ctx, createFleetSchema); err != nil {
		log.Err(err).Str("func", "fleetRepository.CreateSchema").Msg("failed to create database tables")
		return schemaError(err)
	}

	log.Debug().Str("func", "fleetRepository.CreateSchema").Msg("fleet tables created")
	return nil
}

func (r *fleetRepository) SeedFleet(ctx context.Context, topology models.FleetTopology, skipExisting bool) (err error) {
	log := logger.FromContextOr(ctx, r.logger)

	insertMicrocontroller, err := buildInsertMicrocontrollerQuery(skipExisting)
	if err != nil {
		return err
	}
	insertSensor, err := buildInsertSensorQuery(skipExisting)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "fleetRepository.SeedFleet").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Err(rbErr).Str("func", "fleetRepository.SeedFleet").Msg("failed to rollback transaction")
		}
	}()

	microcontrollerStmt, err := tx.PrepareContext(ctx, insertMicrocontroller)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer microcontrollerStmt.Close()

	sensorStmt, err := tx.PrepareContext(ctx, insertSensor)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer sensorStmt.Close()

	for _, mc := range topology.MicrocontrollerRows() {
		m := int(mc.ID)
		if _, err = microcontrollerStmt.ExecContext(ctx, mc.ID); err != nil {
			log.Err(err).Str("func", "fleetRepository.SeedFleet").Int("m_id", m).Msg("failed to insert into Microcontrollers")
			return &InsertError{Table: tableMicrocontrollers, MicrocontrollerID: m, SensorID: -1, Err: insertError(err)}
		}

		for _, sensor := range topology.SensorRows(mc) {
			if _, err = sensorStmt.ExecContext(ctx, sensor.MicrocontrollerID, sensor.SensorID); err != nil {
				s := int(sensor.SensorID)
				log.Err(err).Str("func", "fleetRepository.SeedFleet").Int("m_id", m).Int("s_id", s).Msg("failed to insert into Sensors")
				return &InsertError{Table: tableSensors, MicrocontrollerID: m, SensorID: s, Err: insertError(err)}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "fleetRepository.SeedFleet").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "fleetRepository.SeedFleet").
		Uint16("microcontrollers", topology.Microcontrollers).
		Uint8("sensors_per_microcontroller", topology.SensorsPerMicrocontroller).
		Msg("fleet seeded")
	return nil
}

func (r *fleetRepository) Summary(ctx context.Context) (models.FleetSummary, error) {
	var summary models.FleetSummary

	err := countRows(tableMicrocontrollers).RunWith(r.db.DB).QueryRowContext(ctx).Scan(&summary.Microcontrollers)
	if err != nil {
		return models.FleetSummary{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	err = countRows(tableSensors).RunWith(r.db.DB).QueryRowContext(ctx).Scan(&summary.Sensors)
	if err != nil {
		return models.FleetSummary{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return summary, nil
}

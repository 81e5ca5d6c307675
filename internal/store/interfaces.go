package store

import (
	"context"

	"github.com/MKhiriev/womscp-server/models"
)

// FleetRepository creates the fleet schema and its baseline rows.
type FleetRepository interface {
	// CreateSchema creates the Microcontrollers, Sensors and SensorData
	// tables in one batch. It fails with ErrSchemaExists when any of them
	// is already present.
	CreateSchema(ctx context.Context) error
	// SeedFleet inserts one Microcontrollers row per microcontroller and one
	// Sensors row per sensor, microcontroller-major, in a single transaction.
	// With skipExisting set, rows that already exist are left as they are.
	SeedFleet(ctx context.Context, topology models.FleetTopology, skipExisting bool) error
	// Summary counts the rows of the fleet tables.
	Summary(ctx context.Context) (models.FleetSummary, error)
}

// ErrorClassificator decides whether a failed database operation may succeed
// when attempted again.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

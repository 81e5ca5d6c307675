// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Microcontroller is one unit of the fleet. IDs are zero-based and
// sequential; the row is created at provisioning time and never updated.
type Microcontroller struct {
	ID uint16 `db:"id"`
}

// Sensor is attached to exactly one microcontroller. SensorID is zero-based
// and local to its microcontroller, so (MicrocontrollerID, SensorID) is the
// key.
type Sensor struct {
	MicrocontrollerID uint16 `db:"m_id"`
	SensorID          uint8  `db:"s_id"`
}

// SensorReading is a time-stamped measurement of one sensor. Dummy marks
// synthetic data. Readings are not written during provisioning.
type SensorReading struct {
	ID                int64     `db:"id"`
	Timepoint         time.Time `db:"timepoint"`
	MicrocontrollerID uint16    `db:"m_id"`
	SensorID          uint8     `db:"s_id"`
	SensorType        int       `db:"sensor_type"`
	Value             int64     `db:"sensor_data"`
	Dummy             bool      `db:"dummy"`
}

// FleetTopology is the configured shape of the fleet.
type FleetTopology struct {
	Microcontrollers          uint16
	SensorsPerMicrocontroller uint8
}

// Expected returns the row counts a database provisioned for t must hold.
func (t FleetTopology) Expected() FleetSummary {
	return FleetSummary{
		Microcontrollers: int(t.Microcontrollers),
		Sensors:          int(t.Microcontrollers) * int(t.SensorsPerMicrocontroller),
	}
}

// MicrocontrollerRows returns the microcontrollers of the fleet in id order.
func (t FleetTopology) MicrocontrollerRows() []Microcontroller {
	rows := make([]Microcontroller, 0, int(t.Microcontrollers))
	for m := 0; m < int(t.Microcontrollers); m++ {
		rows = append(rows, Microcontroller{ID: uint16(m)})
	}

	return rows
}

// SensorRows returns the sensors attached to mc in id order.
func (t FleetTopology) SensorRows(mc Microcontroller) []Sensor {
	rows := make([]Sensor, 0, int(t.SensorsPerMicrocontroller))
	for s := 0; s < int(t.SensorsPerMicrocontroller); s++ {
		rows = append(rows, Sensor{MicrocontrollerID: mc.ID, SensorID: uint8(s)})
	}

	return rows
}

// FleetSummary holds row counts of the fleet tables.
type FleetSummary struct {
	Microcontrollers int `json:"microcontrollers"`
	Sensors          int `json:"sensors"`
}

package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	tableMicrocontrollers = "Microcontrollers"
	tableSensors          = "Sensors"
	tableSensorData       = "SensorData"
)

// createFleetSchema is executed as one batch. Plain CREATE TABLE makes a
// second run fail instead of silently reusing the tables.
const createFleetSchema = `
CREATE TABLE Microcontrollers(
	id INTEGER PRIMARY KEY AUTOINCREMENT);

CREATE TABLE Sensors(
	m_id INT NOT NULL,
	s_id INT NOT NULL,
	PRIMARY KEY (m_id, s_id),
	FOREIGN KEY (m_id) REFERENCES Microcontrollers(id) ON DELETE CASCADE);

CREATE TABLE SensorData(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timepoint TEXT NOT NULL,
	m_id INT NOT NULL,
	s_id INT NOT NULL,
	sensor_type INT NOT NULL,
	sensor_data INT NOT NULL,
	dummy BOOLEAN NOT NULL,
	FOREIGN KEY (m_id, s_id) REFERENCES Sensors(m_id, s_id) ON DELETE CASCADE,
	FOREIGN KEY (m_id) REFERENCES Microcontrollers(id) ON DELETE CASCADE);
`

// buildInsertQuery renders a single-row INSERT into table with one
// placeholder per column, suitable for a prepared statement. skipExisting
// turns it into INSERT OR IGNORE.
func buildInsertQuery(table string, skipExisting bool, columns ...string) (string, error) {
	placeholders := make([]any, len(columns))
	for i := range placeholders {
		placeholders[i] = sq.Expr("?")
	}

	builder := sq.Insert(table).Columns(columns...).Values(placeholders...)
	if skipExisting {
		builder = builder.Options("OR IGNORE")
	}

	query, _, err := builder.ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, nil
}

func buildInsertMicrocontrollerQuery(skipExisting bool) (string, error) {
	return buildInsertQuery(tableMicrocontrollers, skipExisting, "id")
}

func buildInsertSensorQuery(skipExisting bool) (string, error) {
	return buildInsertQuery(tableSensors, skipExisting, "m_id", "s_id")
}

// countRows selects the number of rows of table.
func countRows(table string) sq.SelectBuilder {
	return sq.Select("COUNT(*)").From(table)
}

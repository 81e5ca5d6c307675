package store

// Repositories groups the repositories backed by one database connection.
type Repositories struct {
	Fleet FleetRepository
}

// NewRepositories wires every repository to db.
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Fleet: NewFleetRepository(db),
	}
}

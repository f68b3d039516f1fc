package store

import "github.com/MKhiriev/go-doc-verify/internal/logger"

// Repositories groups every repository the server uses.
type Repositories struct {
	RequestRepository RequestRepository
}

// NewRepositories builds all repositories on top of db.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		RequestRepository: NewRequestRepository(db, log),
	}
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/migrations"
)

// DB is a database handle together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	driver             string
	builder            sq.StatementBuilderType
}

// NewConnect opens the database selected by cfg.DriverName().
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.DriverName() {
	case config.DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

func newDB(conn *sql.DB, driver string, classificator ErrorClassificator, log *logger.Logger) *DB {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == config.DriverPostgres {
		placeholder = sq.Dollar
	}

	return &DB{
		DB:                 conn,
		errorClassificator: classificator,
		logger:             log,
		driver:             driver,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// Migrate brings the schema up to date.
func (db *DB) Migrate() error {
	dialect := migrations.DialectSQLite
	if db.driver == config.DriverPostgres {
		dialect = migrations.DialectPostgres
	}
	return migrations.Migrate(db.DB, dialect)
}

// Driver returns the driver name of db.
func (db *DB) Driver() string {
	return db.driver
}

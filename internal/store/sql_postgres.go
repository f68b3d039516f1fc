package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
)

const (
	connectRetries       = 5
	connectRetryInterval = 2 * time.Second
)

// NewConnectPostgres opens a PostgreSQL connection pool through the pgx
// stdlib driver. The initial ping is retried while the server is starting
// up; errors the classifier marks as non-retryable fail immediately.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	classifier := NewPostgresErrorClassifier()

	err = backoff.RetryNotify(
		func() error {
			pingErr := conn.PingContext(ctx)
			var pgErr *pgconn.PgError
			if pingErr != nil && errors.As(pingErr, &pgErr) && classifier.Classify(pingErr) == NonRetryable {
				return backoff.Permanent(pingErr)
			}
			return pingErr
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(connectRetryInterval), connectRetries), ctx),
		func(retryErr error, next time.Duration) {
			log.Warn().Err(retryErr).Dur("retry_in", next).Msg("database is not reachable yet")
		},
	)
	if err != nil {
		_ = conn.Close()
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("error connecting database: %w", err)
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return newDB(conn, config.DriverPostgres, classifier, log), nil
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

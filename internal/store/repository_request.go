package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/models"
)

// requestRepository is the SQL implementation of [RequestRepository]. The
// same code serves PostgreSQL and SQLite; only the placeholder format of the
// embedded query builder differs.
//
// Every method obtains a context-scoped logger via [logger.FromContext] so
// database failures carry the trace id of the request that caused them.
type requestRepository struct {
	*DB
	logger *logger.Logger
}

// NewRequestRepository constructs a [RequestRepository] backed by db.
func NewRequestRepository(db *DB, logger *logger.Logger) RequestRepository {
	logger.Debug().Msg("creating request repository")
	return &requestRepository{
		DB:     db,
		logger: logger,
	}
}

// Create inserts record.
//
// Error handling:
//   - unique violation (PostgreSQL 23505, SQLite constraint) → [ErrRequestAlreadyExists].
//   - any other driver error → wrapped [ErrExecutingStatement].
func (r *requestRepository) Create(ctx context.Context, record models.RequestRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := r.buildInsertRequestQuery(record)
	if err != nil {
		log.Err(err).Str("func", "requestRepository.Create").Msg("failed to create query")
		return err
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrRequestAlreadyExists
		}
		log.Err(err).
			Str("func", "requestRepository.Create").
			Str("request_id", record.RequestID).
			Msg("failed to insert request")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Get returns the record with the given id.
func (r *requestRepository) Get(ctx context.Context, requestID string) (models.RequestRecord, error) {
	return r.getOne(ctx, "requestRepository.Get", sq.Eq{"request_id": requestID})
}

// GetByMetadataCID returns the record referencing metadataCID.
func (r *requestRepository) GetByMetadataCID(ctx context.Context, metadataCID string) (models.RequestRecord, error) {
	return r.getOne(ctx, "requestRepository.GetByMetadataCID", sq.Eq{"metadata_cid": metadataCID})
}

// ListByWallet returns the records of wallet, newest first.
func (r *requestRepository) ListByWallet(ctx context.Context, wallet string) ([]models.RequestRecord, error) {
	return r.list(ctx, "requestRepository.ListByWallet", sq.Eq{"requester_wallet": wallet}, "created_at DESC")
}

// ListByStatus returns the records in status (all records when status is
// empty), oldest first so reviewers work through the queue in order.
func (r *requestRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]models.RequestRecord, error) {
	var where sq.Sqlizer
	if status != "" {
		where = sq.Eq{"status": string(status)}
	}
	return r.list(ctx, "requestRepository.ListByStatus", where, "created_at ASC")
}

// Replace overwrites the envelope reference of an existing record in one
// statement, so readers never see a mix of old and new values.
func (r *requestRepository) Replace(ctx context.Context, record models.RequestRecord) error {
	query, args, err := r.buildReplaceRequestQuery(record)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "requestRepository.Replace").Msg("failed to create query")
		return err
	}
	return r.execAffectingOne(ctx, "requestRepository.Replace", record.RequestID, query, args)
}

// UpdateStatus sets the status of a record.
func (r *requestRepository) UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus, updatedAt time.Time) error {
	query, args, err := r.buildUpdateStatusQuery(requestID, status, updatedAt)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "requestRepository.UpdateStatus").Msg("failed to create query")
		return err
	}
	return r.execAffectingOne(ctx, "requestRepository.UpdateStatus", requestID, query, args)
}

// Delete removes a record.
func (r *requestRepository) Delete(ctx context.Context, requestID string) error {
	query, args, err := r.buildDeleteRequestQuery(requestID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "requestRepository.Delete").Msg("failed to create query")
		return err
	}
	return r.execAffectingOne(ctx, "requestRepository.Delete", requestID, query, args)
}

// execAffectingOne runs a DML statement that must touch exactly one row;
// zero affected rows means the record does not exist.
func (r *requestRepository) execAffectingOne(ctx context.Context, funcName, requestID, query string, args []any) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Str("request_id", requestID).Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Str("request_id", requestID).Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

func (r *requestRepository) getOne(ctx context.Context, funcName string, where sq.Sqlizer) (models.RequestRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.buildSelectRequestsQuery(where, "")
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to create query")
		return models.RequestRecord{}, err
	}

	record, err := scanRequest(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.RequestRecord{}, ErrRequestNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to scan request row")
		return models.RequestRecord{}, err
	}

	return record, nil
}

func (r *requestRepository) list(ctx context.Context, funcName string, where sq.Sqlizer, orderBy string) ([]models.RequestRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.buildSelectRequestsQuery(where, orderBy)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.RequestRecord, 0, 16)
	for rows.Next() {
		record, scanErr := scanRequest(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan request row")
			return nil, scanErr
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (models.RequestRecord, error) {
	var (
		record      models.RequestRecord
		requestType string
		status      string
		files       string
	)

	err := row.Scan(
		&record.RequestID,
		&record.RequesterWallet,
		&requestType,
		&record.MetadataCID,
		&record.MetadataHash,
		&record.UploaderSignature,
		&files,
		&status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RequestRecord{}, err
	}
	if err != nil {
		return models.RequestRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record.RequestType = models.RequestType(requestType)
	record.Status = models.RequestStatus(status)
	if record.Files, err = decodeFiles(files); err != nil {
		return models.RequestRecord{}, err
	}
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()

	return record, nil
}

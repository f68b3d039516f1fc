package store

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-doc-verify/models"
)

const requestsTable = "requests"

var requestColumns = []string{
	"request_id",
	"requester_wallet",
	"request_type",
	"metadata_cid",
	"metadata_hash",
	"uploader_signature",
	"files",
	"status",
	"created_at",
	"updated_at",
}

func (db *DB) buildInsertRequestQuery(record models.RequestRecord) (string, []any, error) {
	files, err := encodeFiles(record.Files)
	if err != nil {
		return "", nil, err
	}

	query, args, err := db.builder.
		Insert(requestsTable).
		Columns(requestColumns...).
		Values(
			record.RequestID,
			record.RequesterWallet,
			string(record.RequestType),
			record.MetadataCID,
			record.MetadataHash,
			record.UploaderSignature,
			files,
			string(record.Status),
			record.CreatedAt,
			record.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectRequestsQuery selects all request columns filtered by where
// (nil selects everything) and ordered by orderBy.
func (db *DB) buildSelectRequestsQuery(where sq.Sqlizer, orderBy string) (string, []any, error) {
	builder := db.builder.Select(requestColumns...).From(requestsTable)
	if where != nil {
		builder = builder.Where(where)
	}
	if orderBy != "" {
		builder = builder.OrderBy(orderBy)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildReplaceRequestQuery(record models.RequestRecord) (string, []any, error) {
	files, err := encodeFiles(record.Files)
	if err != nil {
		return "", nil, err
	}

	query, args, err := db.builder.
		Update(requestsTable).
		Set("metadata_cid", record.MetadataCID).
		Set("metadata_hash", record.MetadataHash).
		Set("uploader_signature", record.UploaderSignature).
		Set("files", files).
		Set("status", string(record.Status)).
		Set("updated_at", record.UpdatedAt).
		Where(sq.Eq{"request_id": record.RequestID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildUpdateStatusQuery(requestID string, status models.RequestStatus, updatedAt time.Time) (string, []any, error) {
	query, args, err := db.builder.
		Update(requestsTable).
		Set("status", string(status)).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"request_id": requestID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func (db *DB) buildDeleteRequestQuery(requestID string) (string, []any, error) {
	query, args, err := db.builder.
		Delete(requestsTable).
		Where(sq.Eq{"request_id": requestID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func encodeFiles(files []models.EncryptedFileDescriptor) (string, error) {
	if files == nil {
		files = []models.EncryptedFileDescriptor{}
	}
	raw, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingFiles, err)
	}
	return string(raw), nil
}

func decodeFiles(raw string) ([]models.EncryptedFileDescriptor, error) {
	files := make([]models.EncryptedFileDescriptor, 0)
	if raw == "" {
		return files, nil
	}
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFiles, err)
	}
	return files, nil
}

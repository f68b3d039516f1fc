package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/MKhiriev/go-doc-verify/internal/logger"
)

// BadgerStore keeps blobs in a local badger database keyed by CID.
type BadgerStore struct {
	db     *badger.DB
	logger *logger.Logger
}

// NewBadgerStore opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database.
func NewBadgerStore(dir string, log *logger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{log})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &BadgerStore{db: db, logger: log}, nil
}

// Pin implements [Store].
func (s *BadgerStore) Pin(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c, err := ComputeCID(data)
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(c), data)
	})
	if err != nil {
		return "", fmt.Errorf("%w: pin %s: %w", ErrUnavailable, c, err)
	}

	return c, nil
}

// Fetch implements [Store]. The returned bytes are re-hashed and must match
// the CID.
func (s *BadgerStore) Fetch(ctx context.Context, c string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canonical, err := ParseCID(c)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(canonical))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, canonical)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrUnavailable, canonical, err)
	}

	actual, err := ComputeCID(data)
	if err != nil {
		return nil, err
	}
	if actual != canonical {
		return nil, fmt.Errorf("%w: %s", ErrCIDMismatch, canonical)
	}

	return data, nil
}

// Unpin implements [Store].
func (s *BadgerStore) Unpin(ctx context.Context, c string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	canonical, err := ParseCID(c)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(canonical))
	})
	if err != nil {
		return fmt.Errorf("%w: unpin %s: %w", ErrUnavailable, canonical, err)
	}

	return nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging into zerolog.
type badgerLogger struct {
	log *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Msgf(format, args...)
}

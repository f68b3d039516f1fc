package blobstore

import (
	"fmt"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
)

// Supported values of config.Blobs.Backend.
const (
	BackendBadger = "badger"
	BackendIPFS   = "ipfs"
)

// NewStore builds the configured backend, wrapped with a read cache when
// cfg.CacheSize is positive. The returned close function releases backend
// resources and is never nil.
func NewStore(cfg config.Blobs, log *logger.Logger) (Store, func() error, error) {
	var (
		store   Store
		closeFn = func() error { return nil }
	)

	switch cfg.Backend {
	case BackendBadger, "":
		badgerStore, err := NewBadgerStore(cfg.BadgerDir, log)
		if err != nil {
			return nil, nil, err
		}
		store, closeFn = badgerStore, badgerStore.Close
	case BackendIPFS:
		ipfsStore, err := NewIPFSStore(cfg.IPFSAPIAddress, cfg.IPFSAuthToken, cfg.RequestTimeout, log)
		if err != nil {
			return nil, nil, err
		}
		store = ipfsStore
	default:
		return nil, nil, fmt.Errorf("unknown blob storage backend %q", cfg.Backend)
	}

	if cfg.CacheSize > 0 {
		store = NewCachedStore(store, cfg.CacheSize)
	}

	log.Info().Str("backend", cfg.Backend).Int("cache_size", cfg.CacheSize).Msg("blob storage initialized")
	return store, closeFn, nil
}

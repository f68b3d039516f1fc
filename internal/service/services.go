package service

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/models"
)

type Services struct {
	AuthService       AuthService
	SubmissionService SubmissionService
	DecryptService    DecryptService
	KeyService        KeyService
	AppInfoService    AppInfoService

	// UnpinWorker drains the cleanup queue the SubmissionService feeds.
	UnpinWorker *UnpinWorker

	readiness readiness
}

// readiness records which request path dependencies were provided.
type readiness struct {
	unwrapper  bool
	repository bool
	blobs      bool
}

// NewServices builds every server-side service. The request lifecycle is
// wrapped with input validation.
func NewServices(
	repositories *store.Repositories,
	blobs blobstore.Store,
	unwrapper crypto.KeyUnwrapper,
	buildInfo models.AppBuildInfo,
	cfg config.StructuredConfig,
	logger *logger.Logger,
) (*Services, error) {
	if repositories == nil {
		return nil, fmt.Errorf("%w: repositories", ErrNotReady)
	}

	appInfo, err := NewAppInfoService(buildInfo, cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	queue := NewUnpinQueue(cfg.Workers.CleanupQueueSize, logger)

	submissions := NewSubmissionValidationService().Wrap(
		NewSubmissionService(repositories.RequestRepository, blobs, NewSignatureVerifier(logger), queue, logger),
	)

	return &Services{
		AuthService:       NewAuthService(cfg.App, logger),
		SubmissionService: submissions,
		DecryptService:    NewDecryptService(blobs, repositories.RequestRepository, unwrapper, cfg.Workers, logger),
		KeyService:        NewKeyService(unwrapper),
		AppInfoService:    appInfo,
		UnpinWorker:       NewUnpinWorker(queue, blobs, cfg.Workers, logger),
		readiness: readiness{
			unwrapper:  unwrapper != nil,
			repository: repositories.RequestRepository != nil,
			blobs:      blobs != nil,
		},
	}, nil
}

// Ready returns nil once the key unwrapper, the request repository and the
// blob store are all in place. Health reporting is driven by it.
func (s *Services) Ready() error {
	if s == nil {
		return ErrNotReady
	}

	var missing []string
	if !s.readiness.unwrapper {
		missing = append(missing, "key unwrapper")
	}
	if !s.readiness.repository {
		missing = append(missing, "request repository")
	}
	if !s.readiness.blobs {
		missing = append(missing, "blob store")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotReady, strings.Join(missing, ", "))
	}
	return nil
}

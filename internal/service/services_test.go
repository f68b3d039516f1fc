package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/mock"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/models"
)

func testServicesConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			Version:           "test",
			TokenSignKey:      "test-sign-key",
			TokenIssuer:       "go-doc-verify-test",
			TokenDuration:     time.Hour,
			ChallengeDuration: 5 * time.Minute,
		},
		Workers: testWorkersConfig,
	}
}

func TestNewServices_Ready(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := &store.Repositories{RequestRepository: mock.NewMockRequestRepository(ctrl)}

	services, err := NewServices(repos, newMemoryStore(t), newUnwrapper(t), models.AppBuildInfo{}, testServicesConfig(), logger.Nop())
	require.NoError(t, err)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.SubmissionService)
	assert.NotNil(t, services.DecryptService)
	assert.NotNil(t, services.KeyService)
	assert.NotNil(t, services.AppInfoService)
	assert.NotNil(t, services.UnpinWorker)
	assert.NoError(t, services.Ready())
}

func TestNewServices_NotReady(t *testing.T) {
	ctrl := gomock.NewController(t)

	t.Run("missing unwrapper and blobs", func(t *testing.T) {
		repos := &store.Repositories{RequestRepository: mock.NewMockRequestRepository(ctrl)}

		services, err := NewServices(repos, nil, nil, models.AppBuildInfo{}, testServicesConfig(), logger.Nop())
		require.NoError(t, err)

		err = services.Ready()
		assert.ErrorIs(t, err, ErrNotReady)
		assert.Contains(t, err.Error(), "key unwrapper")
		assert.Contains(t, err.Error(), "blob store")
		assert.NotContains(t, err.Error(), "request repository")
	})

	t.Run("missing repositories", func(t *testing.T) {
		_, err := NewServices(nil, newMemoryStore(t), newUnwrapper(t), models.AppBuildInfo{}, testServicesConfig(), logger.Nop())
		assert.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("zero value", func(t *testing.T) {
		assert.ErrorIs(t, (&Services{}).Ready(), ErrNotReady)
	})
}

func TestNewServices_NoVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	repos := &store.Repositories{RequestRepository: mock.NewMockRequestRepository(ctrl)}
	cfg := testServicesConfig()
	cfg.App.Version = ""

	_, err := NewServices(repos, newMemoryStore(t), newUnwrapper(t), models.AppBuildInfo{}, cfg, logger.Nop())

	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)
}

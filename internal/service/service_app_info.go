package service

import (
	"context"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/models"
)

type appInfoService struct {
	buildInfo models.AppBuildInfo

	logger *logger.Logger
}

// NewAppInfoService returns the version service. The linked build version
// wins over the configured one; with neither set it fails with
// ErrVersionIsNotSpecified.
func NewAppInfoService(buildInfo models.AppBuildInfo, cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	if !buildInfo.HasVersion() {
		if cfg.Version == "" {
			return nil, ErrVersionIsNotSpecified
		}
		buildInfo.Version = cfg.Version
	}

	return &appInfoService{
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) models.AppBuildInfo {
	return s.buildInfo
}

package http

import (
	"time"

	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/validators"
)

type Handler struct {
	services *service.Services

	// validator checks bodies of routes that have no validating service
	// wrapper.
	validator validators.Validator

	// allowedOrigins feeds the CORS middleware. Without origins no CORS
	// headers are sent at all.
	allowedOrigins []string
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		validator:      validators.NewRequestValidator(),
		allowedOrigins: cfg.AllowedOrigins,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}

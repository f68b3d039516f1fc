package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/crypto"
	"github.com/MKhiriev/go-doc-verify/internal/handler"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/server"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/store"
	"github.com/MKhiriev/go-doc-verify/internal/workers"
	"github.com/MKhiriev/go-doc-verify/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	log := logger.NewLogger("go-doc-verify-server")
	cfg, err := config.GetServerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("http", cfg.Server.HTTPAddress).
		Str("grpc", cfg.Server.GRPCAddress).
		Str("db_driver", cfg.Storage.DB.DriverName()).
		Str("blobs", cfg.Storage.Blobs.Backend).
		Msg("received configs")

	db, err := store.NewConnect(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	blobs, closeBlobs, err := blobstore.NewStore(cfg.Storage.Blobs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating blob store")
	}
	defer func() {
		if err := closeBlobs(); err != nil {
			log.Error().Err(err).Msg("error closing blob store")
		}
	}()

	unwrapper, err := crypto.NewKeyUnwrapper(cfg.App.ServerPrivateKey)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading server private key")
	}

	services, err := service.NewServices(store.NewRepositories(db, log), blobs, unwrapper, buildInfo, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(services.UnpinWorker), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

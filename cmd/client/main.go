package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-doc-verify/internal/adapter"
	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/client"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/service"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
	"github.com/MKhiriev/go-doc-verify/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	fmt.Fprintln(os.Stderr, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	log := logger.NewCLILogger("go-doc-verify-client", os.Getenv("VERBOSE") != "")
	cfg, err := config.GetClientConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	blobs, closeBlobs, err := blobstore.NewStore(cfg.Blobs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create blob store")
	}
	defer closeBlobs()

	var signer wallet.Signer
	if cfg.NeedsWallet() {
		signer, err = wallet.NewPrivateKeySigner(cfg.App.WalletPrivateKey)
		if err != nil {
			log.Fatal().Err(err).Msg("load wallet key")
		}
	}

	app, err := client.NewApp(service.NewClientServices(serverAdapter, blobs, signer, cfg.App, log), os.Stdout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err = app.Run(ctx, cfg.Args); err != nil {
		log.Error().Err(err).Msg("client run error")
		stop()
		closeBlobs()
		os.Exit(1)
	}
}

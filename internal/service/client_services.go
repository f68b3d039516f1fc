package service

import (
	"github.com/MKhiriev/go-doc-verify/internal/adapter"
	"github.com/MKhiriev/go-doc-verify/internal/blobstore"
	"github.com/MKhiriev/go-doc-verify/internal/config"
	"github.com/MKhiriev/go-doc-verify/internal/logger"
	"github.com/MKhiriev/go-doc-verify/internal/wallet"
)

type ClientServices struct {
	SubmitService ClientSubmitService
}

func NewClientServices(serverAdapter adapter.ServerAdapter, blobs blobstore.Store, signer wallet.Signer, cfg config.ClientApp, logger *logger.Logger) *ClientServices {
	return &ClientServices{
		SubmitService: NewClientSubmitService(serverAdapter, blobs, signer, cfg.ServerPublicKey, cfg.MaxFileSize, logger),
	}
}

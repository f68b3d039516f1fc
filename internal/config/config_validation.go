// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validateServer checks the merged configuration before the server starts.
func (cfg *StructuredConfig) validateServer() error {
	if cfg.App.ServerPrivateKey == "" || cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}
	if cfg.App.TokenDuration <= 0 || cfg.App.ChallengeDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	switch cfg.Storage.DB.DriverName() {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver)
	}
	if err := cfg.Storage.Blobs.validate(); err != nil {
		return err
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Workers.DecryptConcurrency <= 0 || cfg.Workers.FetchTimeout <= 0 || cfg.Workers.CleanupQueueSize <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (b Blobs) validate() error {
	switch b.Backend {
	case "badger":
	case "ipfs":
		if b.IPFSAPIAddress == "" {
			return fmt.Errorf("%w: ipfs backend needs an API address", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown blob backend %q", ErrInvalidStorageConfigs, b.Backend)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.App.MaxFileSize <= 0 {
		return ErrInvalidAppConfigs
	}
	if cfg.App.WalletPrivateKey == "" && cfg.NeedsWallet() {
		return fmt.Errorf("%w: wallet key is required for %q", ErrInvalidAppConfigs, cfg.Command())
	}

	return cfg.Blobs.validate()
}

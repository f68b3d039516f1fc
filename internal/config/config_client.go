package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// WalletPrivateKey is the hex key the client signs envelopes with.
	WalletPrivateKey string
	// ServerPublicKey is an optional pinned server key; fetched when empty.
	ServerPublicKey string
	// MaxFileSize is the largest file the client accepts for upload.
	MaxFileSize int64
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the HTTP endpoint address used by the client.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport addresses and timeouts.
	Adapter ClientAdapter
	// Blobs is where the client pins ciphertext and envelopes.
	Blobs Blobs
	// Args holds the subcommand and its operands.
	Args []string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			WalletPrivateKey: cfg.App.WalletPrivateKey,
			ServerPublicKey:  cfg.App.ServerPublicKey,
			MaxFileSize:      cfg.App.MaxFileSize,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Blobs: cfg.Storage.Blobs,
		Args:  cfg.Args,
	}

	return clientCfg, clientCfg.validate()
}

// GetServerConfig loads the merged configuration and validates the settings
// the server cannot start without.
func GetServerConfig(args []string) (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg, cfg.validateServer()
}

// Command returns the subcommand name or "" when none was given.
func (cfg *ClientConfig) Command() string {
	if len(cfg.Args) == 0 {
		return ""
	}
	return cfg.Args[0]
}

// NeedsWallet reports whether the subcommand signs anything. keygen and a
// bare invocation (which only prints usage) do not.
func (cfg *ClientConfig) NeedsWallet() bool {
	switch cfg.Command() {
	case "", "keygen":
		return false
	}
	return true
}

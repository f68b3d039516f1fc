package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files. Durations
// are written as strings like "30s" or "1h".
type StructuredJSONConfig struct {
	App struct {
		ServerPrivateKey  string   `json:"server_private_key"`
		ServerPublicKey   string   `json:"server_public_key"`
		WalletPrivateKey  string   `json:"wallet_private_key"`
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		TokenDuration     Duration `json:"token_duration"`
		ChallengeDuration Duration `json:"challenge_duration"`
		AdminWallets      []string `json:"admin_wallets"`
		MaxFileSize       int64    `json:"max_file_size"`
		Version           string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN    string `json:"dsn"`
			Driver string `json:"driver"`
		} `json:"db,omitempty"`

		Blobs struct {
			Backend        string   `json:"backend"`
			BadgerDir      string   `json:"badger_dir"`
			IPFSAPIAddress string   `json:"ipfs_api_address"`
			IPFSAuthToken  string   `json:"ipfs_auth_token"`
			CacheSize      int      `json:"cache_size"`
			RequestTimeout Duration `json:"request_timeout"`
		} `json:"blobs,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Workers struct {
		FetchTimeout         Duration `json:"fetch_timeout"`
		DecryptConcurrency   int      `json:"decrypt_concurrency"`
		CleanupQueueSize     int      `json:"cleanup_queue_size"`
		CleanupMaxRetries    int      `json:"cleanup_max_retries"`
		CleanupRetryInterval Duration `json:"cleanup_retry_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			ServerPrivateKey:  jsonCfg.App.ServerPrivateKey,
			ServerPublicKey:   jsonCfg.App.ServerPublicKey,
			WalletPrivateKey:  jsonCfg.App.WalletPrivateKey,
			TokenSignKey:      jsonCfg.App.TokenSignKey,
			TokenIssuer:       jsonCfg.App.TokenIssuer,
			TokenDuration:     time.Duration(jsonCfg.App.TokenDuration),
			ChallengeDuration: time.Duration(jsonCfg.App.ChallengeDuration),
			AdminWallets:      jsonCfg.App.AdminWallets,
			MaxFileSize:       jsonCfg.App.MaxFileSize,
			Version:           jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:    jsonCfg.Storage.DB.DSN,
				Driver: jsonCfg.Storage.DB.Driver,
			},
			Blobs: Blobs{
				Backend:        jsonCfg.Storage.Blobs.Backend,
				BadgerDir:      jsonCfg.Storage.Blobs.BadgerDir,
				IPFSAPIAddress: jsonCfg.Storage.Blobs.IPFSAPIAddress,
				IPFSAuthToken:  jsonCfg.Storage.Blobs.IPFSAuthToken,
				CacheSize:      jsonCfg.Storage.Blobs.CacheSize,
				RequestTimeout: time.Duration(jsonCfg.Storage.Blobs.RequestTimeout),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Workers: Workers{
			FetchTimeout:         time.Duration(jsonCfg.Workers.FetchTimeout),
			DecryptConcurrency:   jsonCfg.Workers.DecryptConcurrency,
			CleanupQueueSize:     jsonCfg.Workers.CleanupQueueSize,
			CleanupMaxRetries:    jsonCfg.Workers.CleanupMaxRetries,
			CleanupRetryInterval: time.Duration(jsonCfg.Workers.CleanupRetryInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

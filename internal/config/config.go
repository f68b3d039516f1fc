// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// server and the CLI client. It is populated by merging values from
// environment variables, command-line flags, an optional JSON file and
// finally built-in defaults.
//
// Struct tags:
//   - envPrefix - prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       - direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds keys, token parameters and version information.
	App App `envPrefix:"APP_"`

	// Storage holds the request database and blob storage settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listener addresses and HTTP behaviour of the server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the settings the CLI client uses to reach the server.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds decrypt fan-out and blob cleanup settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// Args holds the positional command-line arguments left after flags.
	Args []string
}

// App holds application-level configuration values.
type App struct {
	// ServerPrivateKey is the PEM-encoded RSA private key used to unwrap
	// per-submission keys. Single-line values with literal "\n" escapes
	// are accepted.
	// Env: APP_SERVER_PRIVATE_KEY
	ServerPrivateKey string `env:"SERVER_PRIVATE_KEY"`

	// ServerPublicKey is the PEM-encoded RSA public key the client wraps
	// keys with. When empty the client fetches it from the server.
	// Env: APP_SERVER_PUBLIC_KEY
	ServerPublicKey string `env:"SERVER_PUBLIC_KEY"`

	// WalletPrivateKey is the hex secp256k1 key the client signs with.
	// Env: APP_WALLET_PRIVATE_KEY
	WalletPrivateKey string `env:"WALLET_PRIVATE_KEY"`

	// TokenSignKey is the secret key used to sign and verify JWT tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of a session token.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// ChallengeDuration is the lifetime of a login challenge.
	// Env: APP_CHALLENGE_DURATION
	ChallengeDuration time.Duration `env:"CHALLENGE_DURATION"`

	// AdminWallets lists the wallet addresses allowed to review and mint
	// requests.
	// Env: APP_ADMIN_WALLETS (comma separated)
	AdminWallets []string `env:"ADMIN_WALLETS" envSeparator:","`

	// MaxFileSize is the client-side upload limit in bytes.
	// Env: APP_MAX_FILE_SIZE
	MaxFileSize int64 `env:"MAX_FILE_SIZE"`

	// Version is exposed via the /api/version/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the request database connection settings.
	DB DB `envPrefix:"DB_"`

	// Blobs holds the content-addressed storage settings.
	Blobs Blobs `envPrefix:"BLOBS_"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address of the HTTP API ("host:port").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health service.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout bounds the handling time of a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds the graceful shutdown of all listeners.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// AllowedOrigins is the CORS allow-list of the browser front end.
	// Env: SERVER_ALLOWED_ORIGINS (comma separated)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Database drivers understood by the store package.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB holds connection settings for the request database.
type DB struct {
	// DSN is a PostgreSQL URL or a SQLite file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Driver selects the backend; detected from the DSN when empty.
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`
}

// DriverName returns the configured driver or the one implied by the DSN.
func (db DB) DriverName() string {
	if db.Driver != "" {
		return db.Driver
	}
	if strings.HasPrefix(db.DSN, "postgres://") || strings.HasPrefix(db.DSN, "postgresql://") ||
		strings.Contains(db.DSN, "host=") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Blobs holds content-addressed storage settings.
type Blobs struct {
	// Backend is "badger" (local) or "ipfs" (Kubo RPC API).
	// Env: STORAGE_BLOBS_BACKEND
	Backend string `env:"BACKEND"`

	// BadgerDir is the badger data directory; empty means in-memory.
	// Env: STORAGE_BLOBS_BADGER_DIR
	BadgerDir string `env:"BADGER_DIR"`

	// IPFSAPIAddress is the Kubo RPC endpoint, e.g. "127.0.0.1:5001".
	// Env: STORAGE_BLOBS_IPFS_API_ADDRESS
	IPFSAPIAddress string `env:"IPFS_API_ADDRESS"`

	// IPFSAuthToken is sent as a bearer token to the IPFS endpoint.
	// Env: STORAGE_BLOBS_IPFS_AUTH_TOKEN
	IPFSAuthToken string `env:"IPFS_AUTH_TOKEN"`

	// CacheSize is the number of fetched blobs kept in memory.
	// Env: STORAGE_BLOBS_CACHE_SIZE
	CacheSize int `env:"CACHE_SIZE"`

	// RequestTimeout bounds each call to the IPFS endpoint.
	// Env: STORAGE_BLOBS_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client's view of the server API.
type Adapter struct {
	// HTTPAddress is the base address of the server HTTP API.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds each call to the server.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for concurrent and background work.
type Workers struct {
	// FetchTimeout bounds the fetch and decrypt of a single file.
	// Env: WORKERS_FETCH_TIMEOUT
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"`

	// DecryptConcurrency caps parallel field and file decryption per request.
	// Env: WORKERS_DECRYPT_CONCURRENCY
	DecryptConcurrency int `env:"DECRYPT_CONCURRENCY"`

	// CleanupQueueSize is the capacity of the unpin queue.
	// Env: WORKERS_CLEANUP_QUEUE_SIZE
	CleanupQueueSize int `env:"CLEANUP_QUEUE_SIZE"`

	// CleanupMaxRetries is the number of retries per failed unpin.
	// Env: WORKERS_CLEANUP_MAX_RETRIES
	CleanupMaxRetries int `env:"CLEANUP_MAX_RETRIES"`

	// CleanupRetryInterval is the initial backoff between unpin retries.
	// Env: WORKERS_CLEANUP_RETRY_INTERVAL
	CleanupRetryInterval time.Duration `env:"CLEANUP_RETRY_INTERVAL"`
}

// GetStructuredConfig loads and merges the configuration from all sources.
// For non-zero fields the first source wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
